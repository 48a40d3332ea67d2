// SPDX-License-Identifier: EPL-2.0

// Package speaker renders blocks to the default audio device through
// github.com/faiface/beep/speaker.
//
// Decoded audio is queued in a ring buffer. The device callback drains it
// at its own pace and fills underruns with silence, so it never waits on
// the decoder; Render blocks instead while the ring is full.
package speaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/ringbuf"
	"github.com/rs/zerolog"
)

const (
	// DefaultBuffer is the device buffer length.
	DefaultBuffer = 100 * time.Millisecond

	channels = 2
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("speaker sink closed")

type Options struct {
	// RingFrames is the ring capacity in frames.
	RingFrames int
	Buffer     time.Duration
	Logger     zerolog.Logger
}

// Sink plays blocks on the speaker. Mono input is duplicated to both
// channels.
type Sink struct {
	opts Options
	log  zerolog.Logger

	mtx     sync.Mutex
	ring    *ringbuf.Ring
	ctrl    *beep.Ctrl
	rate    int
	scratch []float32
	closed  bool
}

func New(opts Options) *Sink {
	if opts.RingFrames <= 0 {
		opts.RingFrames = ringbuf.DefaultFrames
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	return &Sink{opts: opts, log: opts.Logger}
}

// Configure opens the device at the block sample rate. The device is only
// reopened when the rate changes.
func (s *Sink) Configure(f audio.Format) error {
	if !f.Valid() {
		return audio.ErrInvalidFormat
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.ring != nil && s.rate == f.SampleRate {
		return nil
	}

	if s.ring != nil {
		s.ring.Close()
		speaker.Clear()
	}

	sr := beep.SampleRate(f.SampleRate)
	// The device asks for at most half the ring per callback, so a full
	// request can be satisfied from a half-full ring.
	bufferSize := min(sr.N(s.opts.Buffer), s.opts.RingFrames/2)
	if err := speaker.Init(sr, bufferSize); err != nil {
		return fmt.Errorf("initializing speaker at %d Hz: %w", f.SampleRate, err)
	}

	s.ring = ringbuf.New(s.opts.RingFrames, channels)
	s.ctrl = &beep.Ctrl{Streamer: newRingStreamer(s.ring)}
	s.rate = f.SampleRate
	speaker.Play(s.ctrl)

	s.log.Debug().Int("rate", f.SampleRate).Int("buffer", bufferSize).Msg("speaker opened")
	return nil
}

// Render queues b, blocking while the ring is full.
func (s *Sink) Render(b *audio.Block) error {
	s.mtx.Lock()
	ring := s.ring
	closed := s.closed
	s.scratch = toStereo(b, s.scratch)
	data := s.scratch
	s.mtx.Unlock()

	if closed {
		return ErrClosed
	}
	if ring == nil {
		return fmt.Errorf("render before configure: %w", audio.ErrInvalidFormat)
	}

	return enqueue(ring, data, b.Frames)
}

// SetPaused holds the device output without draining the ring.
func (s *Sink) SetPaused(paused bool) {
	s.mtx.Lock()
	ctrl := s.ctrl
	s.mtx.Unlock()

	if ctrl == nil {
		return
	}

	speaker.Lock()
	ctrl.Paused = paused
	speaker.Unlock()
}

// Flush drops queued frames that the device has not played yet.
func (s *Sink) Flush() {
	s.mtx.Lock()
	ring := s.ring
	s.mtx.Unlock()

	if ring != nil {
		ring.Reset()
	}
}

func (s *Sink) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.ring != nil {
		s.ring.Close()
		speaker.Clear()
		speaker.Close()
	}
	return nil
}

// enqueue splits data into pieces that fit the ring.
func enqueue(ring *ringbuf.Ring, data []float32, frames int) error {
	ch := ring.Channels()
	for off := 0; off < frames; {
		n := min(frames-off, ring.Cap())
		if !ring.Enqueue(data[off*ch:(off+n)*ch], n) {
			return ErrClosed
		}
		off += n
	}
	return nil
}

// toStereo interleaves b as stereo into dst. Mono is duplicated and
// channels past the second are dropped.
func toStereo(b *audio.Block, dst []float32) []float32 {
	n := b.Frames * channels
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	left := b.Samples[0]
	right := left
	if b.Format.Channels > 1 {
		right = b.Samples[1]
	}
	for f := range b.Frames {
		dst[2*f] = left[f]
		dst[2*f+1] = right[f]
	}
	return dst
}
