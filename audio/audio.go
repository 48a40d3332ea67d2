// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Format describes a PCM stream.
type Format struct {
	Channels   int
	SampleRate int
}

// Valid reports whether the format can be rendered.
func (f Format) Valid() bool {
	return f.Channels > 0 && f.SampleRate > 0
}

// Block is one decoded unit handed to the output callback.
type Block struct {
	Format Format
	// Samples holds one slice per channel, each at least Frames long, in [-1,1].
	Samples [][]float32
	Frames  int
}

// NewBlock allocates a block able to hold frames samples per channel.
func NewBlock(f Format, frames int) *Block {
	b := &Block{Format: f, Samples: make([][]float32, f.Channels)}
	for ch := range b.Samples {
		b.Samples[ch] = make([]float32, frames)
	}
	return b
}

// Interleave writes the block into dst as interleaved frames and returns the
// written slice. dst is grown when too small.
func (b *Block) Interleave(dst []float32) []float32 {
	n := b.Frames * b.Format.Channels
	if cap(dst) < n {
		dst = make([]float32, n)
	}
	dst = dst[:n]

	channels := b.Format.Channels
	for ch := range channels {
		src := b.Samples[ch][:b.Frames]
		for f, v := range src {
			dst[f*channels+ch] = v
		}
	}
	return dst
}

// Deinterleave fills the block from interleaved samples. len(src) must be a
// multiple of the channel count.
func (b *Block) Deinterleave(src []float32) error {
	channels := b.Format.Channels
	if channels <= 0 || len(src)%channels != 0 {
		return ErrInvalidDstSize
	}

	frames := len(src) / channels
	for ch := range channels {
		if cap(b.Samples[ch]) < frames {
			b.Samples[ch] = make([]float32, frames)
		}
		b.Samples[ch] = b.Samples[ch][:frames]
	}
	for f := range frames {
		for ch := range channels {
			b.Samples[ch][f] = src[f*channels+ch]
		}
	}
	b.Frames = frames
	return nil
}

// Flow tells a running decoder how to proceed after a callback.
type Flow int

const (
	// FlowContinue keeps decoding.
	FlowContinue Flow = iota
	// FlowStop ends the run without error. Returned by Input it means end of input.
	FlowStop
	// FlowBreak aborts the run; Run returns ErrBreak.
	FlowBreak
)

func (f Flow) String() string {
	switch f {
	case FlowContinue:
		return "continue"
	case FlowStop:
		return "stop"
	case FlowBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Handler receives the callbacks of a decoder run.
type Handler interface {
	// Input fills p with the next compressed bytes.
	Input(p []byte) (int, Flow)
	// Output receives one decoded block. The block is only valid during the call.
	Output(b *Block) Flow
	// Error receives a recoverable decoding error.
	Error(err error) Flow
}

// Decoder runs a frame-synchronous decode, pulling input and pushing decoded
// blocks through h until the input ends or a callback stops it.
type Decoder interface {
	Run(h Handler) error
}

// Sink renders decoded blocks.
type Sink interface {
	// Configure (re)opens the output for f. It is called before the first
	// block and again whenever the decoded format changes.
	Configure(f Format) error
	Render(b *Block) error
	Close() error
}

// Pauser is implemented by sinks that keep rendering buffered audio on their
// own and can be told to hold it.
type Pauser interface {
	SetPaused(paused bool)
}

// Flusher is implemented by sinks that buffer audio ahead of the device.
// Flush drops whatever has not been played yet.
type Flusher interface {
	Flush()
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForPath picks the decoder registered for the extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	d, ok := r.Get(ext)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return d, nil
}

// InputReader adapts the Input callback of h to an io.Reader so stream
// decoders can pull from it. FlowStop reads as io.EOF, FlowBreak as ErrBreak.
type InputReader struct {
	h    Handler
	flow Flow
}

func NewInputReader(h Handler) *InputReader {
	return &InputReader{h: h}
}

func (r *InputReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	switch r.flow {
	case FlowStop:
		return 0, io.EOF
	case FlowBreak:
		return 0, ErrBreak
	}

	for {
		n, flow := r.h.Input(p)
		if flow != FlowContinue {
			r.flow = flow
		}
		if n > 0 {
			return n, nil
		}
		switch flow {
		case FlowStop:
			return 0, io.EOF
		case FlowBreak:
			return 0, ErrBreak
		}
	}
}

// Flow reports the last non-continue flow seen from Input.
func (r *InputReader) Flow() Flow { return r.flow }
