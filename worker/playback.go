// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/protocol"
)

// playback is the handler of one decoder run. Every callback first serves
// queued commands, so the worker stays responsive while the decoder holds
// the goroutine.
type playback struct {
	w   *Worker
	gen uint64

	resyncs int
	halted  bool
	// failed moves the worker to StateError once the run unwinds.
	failed error
	// fatal is a channel failure; the worker stops serving.
	fatal error
}

// play runs the decoder over the loaded source until the stream ends or a
// command takes the worker out of StatePlay.
func (w *Worker) play() error {
	if !w.sess.loaded() {
		w.fail(errors.New("no source loaded"))
		return nil
	}

	p := &playback{w: w, gen: w.sess.gen}
	log := w.log.With().Str("path", w.sess.Path).Logger()
	log.Debug().Msg("decode started")

	err := w.sess.dec.Run(p)

	switch {
	case p.fatal != nil:
		return p.fatal
	case p.failed != nil:
		w.fail(p.failed)
	case p.halted || !p.live():
		log.Debug().Stringer("state", w.State()).Msg("decode interrupted")
	case err != nil:
		w.fail(fmt.Errorf("%w: %w", ErrDecode, err))
	default:
		log.Info().Msg("end of stream")
		w.setState(StateStop)
		if err := w.sess.rewind(); err != nil {
			w.fail(fmt.Errorf("%w: rewinding: %w", ErrDecode, err))
		}
	}
	return nil
}

// live reports whether this run still owns the worker.
func (p *playback) live() bool {
	s := p.w.State()
	return (s == StatePlay || s == StatePause) && p.gen == p.w.sess.gen && !p.w.exiting
}

// check serves queued commands and reports whether decoding may go on.
// While paused it blocks on the channel until a command resumes playback
// or ends the run, which keeps the decoder at its current position.
func (p *playback) check() bool {
	if p.halted {
		return false
	}

	for {
		if !p.live() {
			p.halted = true
			return false
		}

		if p.w.State() != StatePause {
			ready, err := p.pending()
			if err != nil {
				p.stopFatal(err)
				return false
			}
			if !ready {
				return true
			}
		}

		f, err := p.w.ch.Receive()
		if err != nil {
			p.stopFatal(fmt.Errorf("receiving command: %w", err))
			return false
		}
		if err := p.w.dispatch(f); err != nil {
			p.stopFatal(err)
			return false
		}
	}
}

func (p *playback) pending() (bool, error) {
	if p.w.noPoll {
		return false, nil
	}

	ready, err := p.w.ch.Pending()
	if errors.Is(err, protocol.ErrPollUnsupported) {
		p.w.log.Warn().Msg("command channel cannot be polled, commands wait for end of stream")
		p.w.noPoll = true
		return false, nil
	}
	return ready, err
}

func (p *playback) stopFatal(err error) {
	p.fatal = err
	p.halted = true
}

func (p *playback) stopFailed(err error) {
	p.failed = err
	p.halted = true
}

func (p *playback) Input(buf []byte) (int, audio.Flow) {
	if !p.check() {
		return 0, audio.FlowStop
	}

	n, err := p.w.sess.read(buf)
	switch {
	case n > 0:
		return n, audio.FlowContinue
	case errors.Is(err, io.EOF):
		return 0, audio.FlowStop
	case err != nil:
		p.stopFailed(fmt.Errorf("%w: reading %s: %w", ErrDecode, p.w.sess.Path, err))
		return 0, audio.FlowBreak
	}
	return 0, audio.FlowContinue
}

func (p *playback) Output(b *audio.Block) audio.Flow {
	if !p.check() {
		return audio.FlowStop
	}

	p.resyncs = 0
	if err := p.render(b); err != nil {
		p.stopFailed(err)
		return audio.FlowStop
	}

	if !p.check() {
		return audio.FlowStop
	}
	return audio.FlowContinue
}

func (p *playback) Error(err error) audio.Flow {
	p.resyncs++
	p.w.log.Warn().Err(err).Int("resyncs", p.resyncs).Msg("decode error")

	if p.w.maxResyncs > 0 && p.resyncs >= p.w.maxResyncs {
		p.stopFailed(fmt.Errorf("%w: too many consecutive decode errors: %w", ErrDecode, err))
		return audio.FlowStop
	}

	if !p.check() {
		return audio.FlowStop
	}
	return audio.FlowContinue
}

// render hands b to the sink, reconfiguring it when the format changes.
func (p *playback) render(b *audio.Block) error {
	sink := p.w.sink
	if sink == nil {
		return nil
	}

	s := p.w.sess
	if !s.sinkReady || b.Format != s.format {
		if !b.Format.Valid() {
			return fmt.Errorf("%w: %w", ErrDecode, audio.ErrInvalidFormat)
		}
		if err := sink.Configure(b.Format); err != nil {
			s.sinkReady = false
			return fmt.Errorf("%w: configuring %d ch %d Hz: %w", ErrSink, b.Format.Channels, b.Format.SampleRate, err)
		}
		p.w.log.Debug().Int("channels", b.Format.Channels).Int("rate", b.Format.SampleRate).Msg("sink configured")
		s.format = b.Format
		s.sinkReady = true
	}

	if err := sink.Render(b); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}
