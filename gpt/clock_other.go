//go:build !unix

package gpt

import (
	"errors"
	"time"
)

// processTimes is unavailable without getrusage.
func processTimes() (usr, sys time.Duration, err error) {
	return 0, 0, errors.New("process times not supported on this platform")
}
