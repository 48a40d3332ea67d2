// SPDX-License-Identifier: EPL-2.0

//go:build unix

package protocol

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

func pending(sc syscall.Conn) (bool, error) {
	raw, err := sc.SyscallConn()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrPollUnsupported, err)
	}

	var (
		ready   bool
		pollErr error
	)
	err = raw.Control(func(fd uintptr) {
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		for {
			n, err := unix.Poll(fds, 0)
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if err != nil {
				pollErr = err
				return
			}
			ready = n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0
			return
		}
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if pollErr != nil {
		return false, fmt.Errorf("%w: poll: %w", ErrIO, pollErr)
	}
	return ready, nil
}
