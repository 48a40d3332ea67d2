// SPDX-License-Identifier: EPL-2.0

// Package wavfile renders blocks into a 16-bit PCM WAV file, for headless
// playback and for checking what a worker would have played.
package wavfile

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/utils"
)

var (
	// ErrFormatChanged is returned when the format changes after samples
	// were written; a WAV file has a single format.
	ErrFormatChanged = errors.New("format changed mid-file")

	ErrNotConfigured = errors.New("wav sink not configured")
)

// Sink writes to a file created on the first Configure.
type Sink struct {
	path string

	f       *os.File
	enc     *wav.Encoder
	format  audio.Format
	buf     *goaudio.IntBuffer
	written int
}

func New(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Configure(f audio.Format) error {
	if !f.Valid() {
		return audio.ErrInvalidFormat
	}
	if s.enc != nil {
		if f == s.format {
			return nil
		}
		if s.written > 0 {
			return fmt.Errorf("%w: %d ch %d Hz to %d ch %d Hz", ErrFormatChanged,
				s.format.Channels, s.format.SampleRate, f.Channels, f.SampleRate)
		}
		if err := s.Close(); err != nil {
			return err
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating wav output: %w", err)
	}

	s.f = file
	s.enc = wav.NewEncoder(file, f.SampleRate, 16, f.Channels, 1)
	s.format = f
	s.buf = &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		SourceBitDepth: 16,
	}
	return nil
}

func (s *Sink) Render(b *audio.Block) error {
	if s.enc == nil {
		return ErrNotConfigured
	}
	if b.Format != s.format {
		return ErrFormatChanged
	}

	n := b.Frames * b.Format.Channels
	if cap(s.buf.Data) < n {
		s.buf.Data = make([]int, n)
	}
	s.buf.Data = s.buf.Data[:n]

	channels := b.Format.Channels
	for ch := range channels {
		for f, v := range b.Samples[ch][:b.Frames] {
			s.buf.Data[f*channels+ch] = int(utils.Float32ToInt16(v))
		}
	}

	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	s.written += b.Frames
	return nil
}

// Close finalizes the header and closes the file.
func (s *Sink) Close() error {
	if s.enc == nil {
		return nil
	}

	encErr := s.enc.Close()
	fileErr := s.f.Close()
	s.enc, s.f = nil, nil
	s.written = 0

	if encErr != nil {
		return fmt.Errorf("finalizing wav output: %w", encErr)
	}
	return fileErr
}
