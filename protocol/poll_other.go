// SPDX-License-Identifier: EPL-2.0

//go:build !unix

package protocol

import "syscall"

func pending(syscall.Conn) (bool, error) {
	return false, ErrPollUnsupported
}
