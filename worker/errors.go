// SPDX-License-Identifier: EPL-2.0

package worker

import "errors"

var (
	// ErrState classifies commands rejected in the current state.
	ErrState = errors.New("invalid state")

	// ErrDecode classifies failures reported by or around the decoder.
	ErrDecode = errors.New("decode error")

	// ErrSink classifies failures reported by the sink.
	ErrSink = errors.New("sink error")
)

// CommandError rejects a command. Its text is what the controller sees.
type CommandError struct {
	Op     string
	Reason string
}

func (e *CommandError) Error() string {
	return "Cannot " + e.Op + ": " + e.Reason
}

func (e *CommandError) Is(target error) bool { return target == ErrState }
