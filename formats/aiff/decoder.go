// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audctl/audio"
)

const blockFrames = 1152

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type Decoder struct{}

// Run pulls the whole input into memory, since go-audio needs to seek
// between chunks, and then emits blocks of up to 1152 frames.
func (Decoder) Run(h audio.Handler) error {
	in := audio.NewInputReader(h)

	data, err := io.ReadAll(in)
	if err != nil {
		if errors.Is(err, audio.ErrBreak) {
			return audio.ErrBreak
		}
		return fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(&readSeeker{data: data})
	if !dec.IsValidFile() {
		return ErrNotAiffFile
	}

	dec.ReadInfo()
	if dec.BitDepth != 16 {
		return ErrOnlyPCM16bitSupported
	}

	return run(dec, h)
}

func run(dec aiffReader, h audio.Handler) error {
	f := dec.Format()
	if f == nil {
		return ErrUnsupportedAiffLayout
	}

	format := audio.Format{Channels: f.NumChannels, SampleRate: f.SampleRate}
	if !format.Valid() {
		return ErrUnsupportedAiffLayout
	}

	intBuf := &goaudio.IntBuffer{
		Data:   make([]int, blockFrames*format.Channels),
		Format: f,
	}
	interleaved := make([]float32, len(intBuf.Data))
	blk := audio.NewBlock(format, blockFrames)

	for {
		n, err := dec.PCMBuffer(intBuf)
		n -= n % format.Channels

		if n > 0 {
			for i, v := range intBuf.Data[:n] {
				interleaved[i] = float32(v) / 32768.0
			}
			// n is a multiple of the channel count
			_ = blk.Deinterleave(interleaved[:n])

			switch h.Output(blk) {
			case audio.FlowStop:
				return nil
			case audio.FlowBreak:
				return audio.ErrBreak
			}
		}

		switch {
		case err == nil && n == 0:
			return nil
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		default:
			switch h.Error(err) {
			case audio.FlowContinue:
				// The container is already in memory, so there is nothing
				// to resync against and the stream ends in error.
				return fmt.Errorf("reading aiff samples: %w", err)
			case audio.FlowStop:
				return nil
			default:
				return fmt.Errorf("%w: %w", audio.ErrBreak, err)
			}
		}
	}
}

// readSeeker implements io.ReadSeeker for in-memory data
type readSeeker struct {
	data   []byte
	offset int64
}

func (rs *readSeeker) Read(p []byte) (int, error) {
	if rs.offset >= int64(len(rs.data)) {
		return 0, io.EOF
	}
	n := copy(p, rs.data[rs.offset:])
	rs.offset += int64(n)
	return n, nil
}

func (rs *readSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = rs.offset + offset
	case io.SeekEnd:
		next = int64(len(rs.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if next < 0 {
		return 0, errors.New("negative position")
	}

	rs.offset = next
	return next, nil
}
