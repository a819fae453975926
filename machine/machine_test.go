package machine

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shimerrors "github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/platform"
)

func TestMachine_Lifecycle(t *testing.T) {
	m, err := New(platform.LinuxGNUPGF90())
	require.NoError(t, err)

	node, process, thread, err := m.PInfo()
	require.NoError(t, err)
	assert.Equal(t, 0, node)
	assert.Equal(t, os.Getpid(), process)
	assert.Equal(t, 0, thread)
	assert.Less(t, thread, MaxThreads)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "Close is idempotent")

	_, _, _, err = m.PInfo()
	require.Error(t, err)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseRuntime, Kind: shimerrors.KindNotInitialized}))
}

func TestMachine_Capabilities(t *testing.T) {
	caps := platform.Detect()
	m, err := New(caps)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, caps, m.Capabilities())
}

func TestNew_InvalidCapabilities(t *testing.T) {
	caps := platform.LinuxGNUPGF90()
	caps.PointerSize = 6

	m, err := New(caps)
	assert.Nil(t, m)
	require.Error(t, err)
}
