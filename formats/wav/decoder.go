// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/utils"
)

const (
	headerSize  = 44
	blockFrames = 1152
)

type Decoder struct{}

// Run parses a canonical 44-byte PCM header and emits blocks of up to 1152
// frames until the data runs out.
func (Decoder) Run(h audio.Handler) error {
	in := audio.NewInputReader(h)

	format, err := readHeader(in)
	if err != nil {
		if in.Flow() == audio.FlowBreak {
			return audio.ErrBreak
		}
		return err
	}

	frameBytes := 2 * format.Channels
	blk := audio.NewBlock(format, blockFrames)
	buf := make([]byte, blockFrames*frameBytes)

	for {
		n, err := io.ReadFull(in, buf)
		if frames := n / frameBytes; frames > 0 {
			for f := range frames {
				for ch := range format.Channels {
					off := f*frameBytes + 2*ch
					blk.Samples[ch][f] = utils.Int16ToFloat32(utils.LittleEndianInt16(buf[off:]))
				}
			}
			blk.Frames = frames

			switch h.Output(blk) {
			case audio.FlowStop:
				return nil
			case audio.FlowBreak:
				return audio.ErrBreak
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		case errors.Is(err, audio.ErrBreak):
			return audio.ErrBreak
		default:
			return err
		}
	}
}

func readHeader(r io.Reader) (audio.Format, error) {
	// Minimal WAV header parse: RIFF/WAVE + fmt/data chunks
	header := make([]byte, headerSize)

	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Format{}, ErrNotWavFile
		}
		return audio.Format{}, fmt.Errorf("reading wav header: %w", err)
	}

	if !bytes.HasPrefix(header[:4], []byte("RIFF")) || !bytes.HasPrefix(header[8:12], []byte("WAVE")) {
		return audio.Format{}, ErrNotWavFile
	}

	// Parse fmt chunk at 12.., assuming canonical layout
	if !bytes.HasPrefix(header[12:16], []byte("fmt ")) {
		return audio.Format{}, ErrUnsupportedWavLayout
	}

	audioFormat := binary.LittleEndian.Uint16(header[20:22])
	channels := int(binary.LittleEndian.Uint16(header[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(header[24:28]))
	bitsPerSample := int(binary.LittleEndian.Uint16(header[34:36]))

	if audioFormat != 1 || bitsPerSample != 16 {
		return audio.Format{}, ErrOnlyPCM16bitSupported
	}
	if !bytes.HasPrefix(header[36:40], []byte("data")) {
		return audio.Format{}, ErrUnsupportedWavChunks
	}

	format := audio.Format{Channels: channels, SampleRate: sampleRate}
	if !format.Valid() {
		return audio.Format{}, ErrUnsupportedWavLayout
	}
	return format, nil
}
