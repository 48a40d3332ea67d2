// SPDX-License-Identifier: EPL-2.0

// Package null provides a sink that discards audio and only logs what it
// was given.
package null

import (
	"github.com/ik5/audctl/audio"
	"github.com/rs/zerolog"
)

type Sink struct {
	log    zerolog.Logger
	blocks int
	frames int
}

func New(log zerolog.Logger) *Sink {
	return &Sink{log: log}
}

func (s *Sink) Configure(f audio.Format) error {
	if !f.Valid() {
		return audio.ErrInvalidFormat
	}
	s.log.Info().Int("channels", f.Channels).Int("rate", f.SampleRate).Msg("null sink configured")
	return nil
}

func (s *Sink) Render(b *audio.Block) error {
	s.blocks++
	s.frames += b.Frames
	s.log.Debug().Int("frames", b.Frames).Int("channels", b.Format.Channels).Msg("block")
	return nil
}

func (s *Sink) Close() error {
	s.log.Info().Int("blocks", s.blocks).Int("frames", s.frames).Msg("null sink closed")
	return nil
}

// Frames returns how many frames were rendered.
func (s *Sink) Frames() int { return s.frames }
