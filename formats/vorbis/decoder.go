// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audctl/audio"
	"github.com/jfreymuth/oggvorbis"
)

// blockFrames is the number of PCM frames emitted per Output call.
const blockFrames = 1024

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type Decoder struct{}

func (Decoder) Run(h audio.Handler) error {
	in := audio.NewInputReader(h)

	dec, err := oggvorbis.NewReader(in)
	if err != nil {
		if in.Flow() == audio.FlowBreak {
			return audio.ErrBreak
		}
		return fmt.Errorf("opening ogg vorbis stream: %w", err)
	}

	return run(dec, in, h)
}

func run(dec oggReader, in *audio.InputReader, h audio.Handler) error {
	format := audio.Format{Channels: dec.Channels(), SampleRate: dec.SampleRate()}
	if !format.Valid() {
		return audio.ErrInvalidFormat
	}

	blk := audio.NewBlock(format, blockFrames)
	buf := make([]float32, blockFrames*format.Channels)

	for {
		// oggvorbis returns interleaved values, always a multiple of Channels()
		n, err := dec.Read(buf)
		if n > 0 {
			if derr := blk.Deinterleave(buf[:n-n%format.Channels]); derr != nil {
				return derr
			}
			switch h.Output(blk) {
			case audio.FlowStop:
				return nil
			case audio.FlowBreak:
				return audio.ErrBreak
			}
		}

		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, audio.ErrBreak):
			return audio.ErrBreak
		case in.Flow() == audio.FlowStop:
			return nil
		}

		switch h.Error(err) {
		case audio.FlowStop:
			return nil
		case audio.FlowBreak:
			return fmt.Errorf("%w: %w", audio.ErrBreak, err)
		}
	}
}
