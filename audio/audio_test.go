package audio

import (
	"errors"
	"io"
	"testing"
)

type nopDecoder struct{ name string }

func (d *nopDecoder) Run(h Handler) error { return nil }

// scriptedHandler feeds fixed chunks through Input and records every callback.
type scriptedHandler struct {
	chunks  [][]byte
	endFlow Flow
	outputs int
	errs    []error
}

func (h *scriptedHandler) Input(p []byte) (int, Flow) {
	if len(h.chunks) == 0 {
		return 0, h.endFlow
	}
	n := copy(p, h.chunks[0])
	h.chunks[0] = h.chunks[0][n:]
	if len(h.chunks[0]) == 0 {
		h.chunks = h.chunks[1:]
	}
	return n, FlowContinue
}

func (h *scriptedHandler) Output(b *Block) Flow {
	h.outputs++
	return FlowContinue
}

func (h *scriptedHandler) Error(err error) Flow {
	h.errs = append(h.errs, err)
	return FlowContinue
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &nopDecoder{name: "mp3"}
	registry.Register("MP3", decoder)

	got, ok := registry.Get("mp3")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	mp3Decoder := &nopDecoder{name: "mp3"}
	oggDecoder := &nopDecoder{name: "ogg"}
	registry.Register("mp3", mp3Decoder)
	registry.Register("ogg", oggDecoder)

	tests := []struct {
		path    string
		want    Decoder
		wantErr error
	}{
		{"/music/track.mp3", mp3Decoder, nil},
		{"track.OGG", oggDecoder, nil},
		{"track.flac", nil, ErrUnknownFormat},
		{"noext", nil, ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := registry.ForPath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ForPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ForPath(%q) returned wrong decoder", tt.path)
			}
		})
	}
}

func TestFormat_Valid(t *testing.T) {
	t.Parallel()

	if !(Format{Channels: 2, SampleRate: 44100}).Valid() {
		t.Error("stereo 44.1kHz should be valid")
	}
	if (Format{Channels: 0, SampleRate: 44100}).Valid() {
		t.Error("zero channels should be invalid")
	}
	if (Format{Channels: 1}).Valid() {
		t.Error("zero sample rate should be invalid")
	}
}

func TestBlock_InterleaveRoundTrip(t *testing.T) {
	t.Parallel()

	b := NewBlock(Format{Channels: 2, SampleRate: 8000}, 3)
	b.Samples[0] = []float32{0.1, 0.2, 0.3}
	b.Samples[1] = []float32{-0.1, -0.2, -0.3}
	b.Frames = 3

	got := b.Interleave(nil)
	want := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	if len(got) != len(want) {
		t.Fatalf("Interleave() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Interleave()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	back := NewBlock(b.Format, 0)
	if err := back.Deinterleave(got); err != nil {
		t.Fatalf("Deinterleave() error = %v", err)
	}
	if back.Frames != 3 {
		t.Fatalf("Deinterleave() frames = %d, want 3", back.Frames)
	}
	for ch := range 2 {
		for f := range 3 {
			if back.Samples[ch][f] != b.Samples[ch][f] {
				t.Errorf("sample[%d][%d] = %v, want %v", ch, f, back.Samples[ch][f], b.Samples[ch][f])
			}
		}
	}
}

func TestBlock_DeinterleaveRejectsPartialFrame(t *testing.T) {
	t.Parallel()

	b := NewBlock(Format{Channels: 2, SampleRate: 8000}, 4)
	err := b.Deinterleave([]float32{1, 2, 3})
	if !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("Deinterleave() error = %v, want %v", err, ErrInvalidDstSize)
	}
}

func TestInputReader_EndOfInput(t *testing.T) {
	t.Parallel()

	h := &scriptedHandler{chunks: [][]byte{[]byte("abc"), []byte("de")}, endFlow: FlowStop}
	data, err := io.ReadAll(NewInputReader(h))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "abcde" {
		t.Errorf("ReadAll() = %q, want %q", data, "abcde")
	}
}

func TestInputReader_Break(t *testing.T) {
	t.Parallel()

	h := &scriptedHandler{chunks: [][]byte{[]byte("x")}, endFlow: FlowBreak}
	r := NewInputReader(h)

	buf := make([]byte, 8)
	if n, err := r.Read(buf); n != 1 || err != nil {
		t.Fatalf("first Read() = %d, %v, want 1, nil", n, err)
	}
	if _, err := r.Read(buf); !errors.Is(err, ErrBreak) {
		t.Errorf("second Read() error = %v, want %v", err, ErrBreak)
	}
	if r.Flow() != FlowBreak {
		t.Errorf("Flow() = %v, want %v", r.Flow(), FlowBreak)
	}
	// sticky
	if _, err := r.Read(buf); !errors.Is(err, ErrBreak) {
		t.Errorf("third Read() error = %v, want %v", err, ErrBreak)
	}
}

func TestFlow_String(t *testing.T) {
	t.Parallel()

	tests := map[Flow]string{
		FlowContinue: "continue",
		FlowStop:     "stop",
		FlowBreak:    "break",
		Flow(42):     "unknown",
	}
	for f, want := range tests {
		if got := f.String(); got != want {
			t.Errorf("Flow(%d).String() = %q, want %q", int(f), got, want)
		}
	}
}
