//go:build unix

package gpt

import (
	"time"

	"golang.org/x/sys/unix"
)

// processTimes returns user and system CPU time of the calling process.
func processTimes() (usr, sys time.Duration, err error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, 0, err
	}
	return time.Duration(ru.Utime.Nano()), time.Duration(ru.Stime.Nano()), nil
}
