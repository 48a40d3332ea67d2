// SPDX-License-Identifier: EPL-2.0

package protocol

import "errors"

var (
	// ErrIO reports a failed, short or zero-progress read or write on the channel.
	ErrIO = errors.New("command channel i/o error")

	// ErrProtocol reports a frame that violates the wire format.
	ErrProtocol = errors.New("command channel protocol error")

	// ErrPollUnsupported is returned by Pending when the read side has no
	// pollable descriptor.
	ErrPollUnsupported = errors.New("pending check not supported for this reader")
)
