// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/utils"
)

const (
	// FrameSize is the number of PCM frames in one MPEG-1 layer III frame.
	FrameSize = 1152
	// go-mp3 always yields 16-bit little-endian stereo
	channels      = 2
	bytesPerFrame = 2 * channels
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type Decoder struct{}

// Run decodes the compressed stream supplied by h.Input and emits one block
// per MP3 frame.
func (Decoder) Run(h audio.Handler) error {
	in := audio.NewInputReader(h)

	dec, err := gomp3.NewDecoder(in)
	if err != nil {
		switch in.Flow() {
		case audio.FlowStop:
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: no mp3 frames in input", ErrNoFrames)
			}
		case audio.FlowBreak:
			return audio.ErrBreak
		}
		return fmt.Errorf("opening mp3 stream: %w", err)
	}

	return run(dec, in, h)
}

func run(dec mp3Reader, in *audio.InputReader, h audio.Handler) error {
	format := audio.Format{Channels: channels, SampleRate: dec.SampleRate()}
	blk := audio.NewBlock(format, FrameSize)
	buf := make([]byte, FrameSize*bytesPerFrame)

	for {
		n, err := io.ReadFull(dec, buf)
		if frames := n / bytesPerFrame; frames > 0 {
			fill(blk, buf[:frames*bytesPerFrame])
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
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
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

// fill converts interleaved 16-bit stereo bytes into the block.
func fill(blk *audio.Block, pcm []byte) {
	frames := len(pcm) / bytesPerFrame
	left, right := blk.Samples[0], blk.Samples[1]
	for f := range frames {
		off := f * bytesPerFrame
		left[f] = utils.Int16ToFloat32(utils.LittleEndianInt16(pcm[off:]))
		right[f] = utils.Int16ToFloat32(utils.LittleEndianInt16(pcm[off+2:]))
	}
	blk.Frames = frames
}
