// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides decoder and sink doubles for tests that drive
// the playback machinery without real codecs or audio devices.
package audiotest

import (
	"errors"
	"io"
	"math"

	"github.com/ik5/audctl/audio"
)

// Corrupt marks an input chunk the ToneDecoder reports through the Error
// callback instead of decoding.
const Corrupt byte = 0xFF

// ErrCorrupt is passed to Handler.Error for corrupt chunks.
var ErrCorrupt = errors.New("corrupt chunk")

// ToneDecoder consumes ChunkSize input bytes per block and emits Frames
// frames for each. By default every sample of a block is the first byte of
// its chunk divided by 256, so tests can tell sources apart by content.
type ToneDecoder struct {
	Format    audio.Format
	Frames    int
	ChunkSize int
	// Waveform, when set, generates samples from the running frame index.
	Waveform func(sample, channel int) float32
}

// NewToneDecoder creates a decoder emitting blocks of frames frames.
func NewToneDecoder(sampleRate, channels, frames int) *ToneDecoder {
	return &ToneDecoder{
		Format:    audio.Format{Channels: channels, SampleRate: sampleRate},
		Frames:    frames,
		ChunkSize: 16,
	}
}

// NewSineDecoder creates a decoder emitting a sine wave regardless of the
// input content.
func NewSineDecoder(sampleRate, channels, frames int, frequency float64) *ToneDecoder {
	d := NewToneDecoder(sampleRate, channels, frames)
	d.Waveform = func(sample, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
	return d
}

func (d *ToneDecoder) Run(h audio.Handler) error {
	in := audio.NewInputReader(h)
	chunk := make([]byte, max(d.ChunkSize, 1))
	blk := audio.NewBlock(d.Format, d.Frames)
	generated := 0

	for {
		if _, err := io.ReadFull(in, chunk); err != nil {
			if errors.Is(err, audio.ErrBreak) {
				return audio.ErrBreak
			}
			// A trailing partial chunk is dropped.
			return nil
		}

		if chunk[0] == Corrupt {
			switch h.Error(ErrCorrupt) {
			case audio.FlowStop:
				return nil
			case audio.FlowBreak:
				return audio.ErrBreak
			}
			continue
		}

		for f := range d.Frames {
			for ch := range d.Format.Channels {
				v := float32(chunk[0]) / 256
				if d.Waveform != nil {
					v = d.Waveform(generated+f, ch)
				}
				blk.Samples[ch][f] = v
			}
		}
		blk.Frames = d.Frames
		generated += d.Frames

		switch h.Output(blk) {
		case audio.FlowStop:
			return nil
		case audio.FlowBreak:
			return audio.ErrBreak
		}
	}
}
