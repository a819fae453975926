package binary

import (
	"bytes"
	"testing"
)

func TestWriteU32(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{624485, []byte{0xe5, 0x8e, 0x26}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.WriteU32(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteU32(%d) = %x, want %x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestWriteName(t *testing.T) {
	w := NewWriter()
	w.WriteName("env")
	if want := []byte{3, 'e', 'n', 'v'}; !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteName = %x, want %x", w.Bytes(), want)
	}
}

func TestSection(t *testing.T) {
	body := NewWriter()
	body.WriteBytes([]byte{1, 2, 3})

	w := NewWriter()
	w.WriteU32LE(0x6d736100)
	w.Section(7, body)

	want := []byte{0x00, 0x61, 0x73, 0x6d, 7, 3, 1, 2, 3}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Section = %x, want %x", w.Bytes(), want)
	}
}
