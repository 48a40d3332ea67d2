// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"
	"time"

	"github.com/ik5/audctl/audio"
)

// RecordingSink records what it is asked to render. It is safe to inspect
// from another goroutine while a worker drives it.
type RecordingSink struct {
	// Delay slows every Render down, standing in for a device that paces
	// the producer.
	Delay        time.Duration
	ConfigureErr error
	RenderErr    error

	mtx     sync.Mutex
	formats []audio.Format
	values  []float32
	frames  int
	paused  bool
	pauses  int
	flushes int
	closed  bool
}

func (s *RecordingSink) Configure(f audio.Format) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.ConfigureErr != nil {
		return s.ConfigureErr
	}
	s.formats = append(s.formats, f)
	return nil
}

func (s *RecordingSink) Render(b *audio.Block) error {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.RenderErr != nil {
		return s.RenderErr
	}
	var v float32
	if b.Frames > 0 && len(b.Samples) > 0 {
		v = b.Samples[0][0]
	}
	s.values = append(s.values, v)
	s.frames += b.Frames
	return nil
}

func (s *RecordingSink) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	return nil
}

func (s *RecordingSink) SetPaused(paused bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.paused = paused
	s.pauses++
}

// Blocks returns the number of rendered blocks.
func (s *RecordingSink) Blocks() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return len(s.values)
}

// Frames returns the number of rendered frames.
func (s *RecordingSink) Frames() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.frames
}

// Values returns the first sample of every rendered block.
func (s *RecordingSink) Values() []float32 {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return append([]float32(nil), s.values...)
}

// Formats returns every format passed to Configure, in order.
func (s *RecordingSink) Formats() []audio.Format {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return append([]audio.Format(nil), s.formats...)
}

// Paused reports the last SetPaused value and how often it was called.
func (s *RecordingSink) Paused() (bool, int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.paused, s.pauses
}

func (s *RecordingSink) Flush() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.flushes++
}

// Flushes returns how often Flush was called.
func (s *RecordingSink) Flushes() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.flushes
}

func (s *RecordingSink) Closed() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.closed
}
