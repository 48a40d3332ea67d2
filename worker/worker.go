// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/protocol"
	"github.com/rs/zerolog"
)

// DefaultMaxResyncs is the number of consecutive decode errors tolerated
// before playback fails.
const DefaultMaxResyncs = 32

// Options configures a Worker.
type Options struct {
	Registry *audio.Registry
	Sink     audio.Sink
	// MaxResyncs bounds consecutive decode errors without a decoded block.
	// Zero means DefaultMaxResyncs, negative means unbounded.
	MaxResyncs int
	Logger     zerolog.Logger
}

// Worker serves commands from a channel and plays the loaded source into
// a sink. All of its state lives on the goroutine calling Run.
type Worker struct {
	ch   *protocol.Channel
	reg  *audio.Registry
	sink audio.Sink
	log  zerolog.Logger

	maxResyncs int

	state   atomic.Int32
	sess    *Session
	exiting bool

	// noPoll is set once Pending turned out to be unsupported.
	noPoll bool
}

func New(ch *protocol.Channel, opts Options) *Worker {
	reg := opts.Registry
	if reg == nil {
		reg = audio.NewRegistry()
	}
	maxResyncs := opts.MaxResyncs
	if maxResyncs == 0 {
		maxResyncs = DefaultMaxResyncs
	}

	w := &Worker{
		ch:         ch,
		reg:        reg,
		sink:       opts.Sink,
		log:        opts.Logger,
		maxResyncs: maxResyncs,
		sess:       newSession(),
	}
	w.log = w.log.With().Str("session", w.sess.ID.String()).Logger()
	return w
}

// State returns the current playback state. It may be called from any
// goroutine.
func (w *Worker) State() State {
	return State(w.state.Load())
}

func (w *Worker) setState(s State) {
	prev := State(w.state.Swap(int32(s)))
	if prev != s {
		w.log.Debug().Stringer("from", prev).Stringer("state", s).Msg("state change")
	}
}

// Run serves commands until EXIT is acknowledged or the channel fails.
// A channel failure is returned; playback failures only move the worker
// to StateError.
func (w *Worker) Run() error {
	defer w.shutdown()

	w.log.Info().Msg("worker started")

	for !w.exiting {
		if w.State() == StatePlay {
			if err := w.play(); err != nil {
				return err
			}
			continue
		}

		f, err := w.ch.Receive()
		if err != nil {
			return fmt.Errorf("receiving command: %w", err)
		}
		if err := w.dispatch(f); err != nil {
			return err
		}
	}

	w.log.Info().Msg("worker exiting")
	return nil
}

func (w *Worker) shutdown() {
	w.sess.unload()
	if w.sink != nil {
		if err := w.sink.Close(); err != nil {
			w.log.Warn().Err(err).Msg("closing sink")
		}
	}
}

// dispatch applies one command and sends its response. Only a failure to
// send is returned.
func (w *Worker) dispatch(f protocol.Frame) error {
	w.log.Debug().Stringer("kind", f.Kind).Stringer("state", w.State()).Msg("command")

	switch f.Kind {
	case protocol.Play:
		return w.respond(f.Kind, w.cmdPlay())
	case protocol.Pause:
		return w.respond(f.Kind, w.cmdPause())
	case protocol.Load:
		return w.respond(f.Kind, w.cmdLoad(protocol.ParsePath(f.Payload)))
	case protocol.Ping:
		return w.ch.Send(protocol.Pong, f.Payload)
	case protocol.Exit:
		w.exiting = true
		return w.ch.Send(protocol.Ack, nil)
	case protocol.Status:
		return w.respond(f.Kind, errors.New("status not implemented"))
	default:
		return w.respond(f.Kind, errors.New("unknown command"))
	}
}

func (w *Worker) respond(kind protocol.Kind, err error) error {
	if err == nil {
		return w.ch.Send(protocol.Ack, nil)
	}
	w.log.Warn().Stringer("kind", kind).Err(err).Msg("command rejected")
	return w.ch.Send(protocol.Err, protocol.ErrorText(err.Error()))
}

func (w *Worker) cmdPlay() error {
	switch w.State() {
	case StateNone:
		return &CommandError{Op: "play", Reason: "no track loaded"}
	case StatePlay:
		return &CommandError{Op: "play", Reason: "already playing"}
	case StateError:
		return &CommandError{Op: "play", Reason: w.errorReason()}
	case StatePause:
		w.setPaused(false)
	}

	w.setState(StatePlay)
	return nil
}

func (w *Worker) cmdPause() error {
	switch w.State() {
	case StateNone:
		return &CommandError{Op: "pause", Reason: "no track loaded"}
	case StateStop:
		return &CommandError{Op: "pause", Reason: "not playing"}
	case StateError:
		return &CommandError{Op: "pause", Reason: w.errorReason()}
	case StatePause:
		w.setPaused(false)
		w.setState(StatePlay)
	case StatePlay:
		w.setPaused(true)
		w.setState(StatePause)
	}
	return nil
}

func (w *Worker) cmdLoad(path string) error {
	if err := w.sess.load(path, w.reg); err != nil {
		w.fail(err)
		return err
	}

	w.log.Info().Str("path", path).Msg("loaded")
	w.flush()

	switch w.State() {
	case StateNone, StateError:
		w.sess.lastErr = nil
		w.setState(StateStop)
	}
	return nil
}

func (w *Worker) errorReason() string {
	if w.sess.lastErr != nil {
		return w.sess.lastErr.Error()
	}
	return "playback failed"
}

// fail records a playback failure. The worker keeps serving commands.
func (w *Worker) fail(err error) {
	w.log.Error().Err(err).Str("path", w.sess.Path).Msg("playback failed")
	w.sess.lastErr = err
	w.setState(StateError)
}

// flush drops audio of the previous track still queued in the sink.
func (w *Worker) flush() {
	if f, ok := w.sink.(audio.Flusher); ok {
		f.Flush()
	}
}

func (w *Worker) setPaused(paused bool) {
	if p, ok := w.sink.(audio.Pauser); ok {
		p.SetPaused(paused)
	}
}
