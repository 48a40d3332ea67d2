// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidFormat  = errors.New("invalid audio format")
	ErrUnknownFormat  = errors.New("unsupported audio format")
	// ErrBreak is returned by a decoder run aborted by a callback returning FlowBreak.
	ErrBreak = errors.New("decoding aborted")
)
