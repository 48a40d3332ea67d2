// SPDX-License-Identifier: EPL-2.0

package worker

// State is the playback state of a worker.
type State int32

const (
	// StateNone means nothing is loaded.
	StateNone State = iota
	StateStop
	StatePlay
	StatePause
	// StateError is kept until a LOAD succeeds.
	StateError
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateStop:
		return "STOP"
	case StatePlay:
		return "PLAY"
	case StatePause:
		return "PAUSE"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
