package audiotest

import (
	"errors"
	"testing"

	"github.com/ik5/audctl/audio"
)

type sliceHandler struct {
	data   []byte
	blocks []float32
	errs   int
}

func (h *sliceHandler) Input(p []byte) (int, audio.Flow) {
	if len(h.data) == 0 {
		return 0, audio.FlowStop
	}
	n := copy(p, h.data)
	h.data = h.data[n:]
	return n, audio.FlowContinue
}

func (h *sliceHandler) Output(b *audio.Block) audio.Flow {
	h.blocks = append(h.blocks, b.Samples[0][0])
	return audio.FlowContinue
}

func (h *sliceHandler) Error(err error) audio.Flow {
	if errors.Is(err, ErrCorrupt) {
		h.errs++
	}
	return audio.FlowContinue
}

func TestToneDecoder(t *testing.T) {
	t.Parallel()

	d := NewToneDecoder(8000, 1, 4)
	d.ChunkSize = 2
	h := &sliceHandler{data: []byte{'a', 0, Corrupt, 0, 'b', 0, 'c'}}

	if err := d.Run(h); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []float32{float32('a') / 256, float32('b') / 256}
	if len(h.blocks) != len(want) || h.blocks[0] != want[0] || h.blocks[1] != want[1] {
		t.Errorf("blocks = %v, want %v", h.blocks, want)
	}
	if h.errs != 1 {
		t.Errorf("Error() calls = %d, want 1", h.errs)
	}
}

func TestSineDecoder(t *testing.T) {
	t.Parallel()

	d := NewSineDecoder(8000, 2, 4, 1000)
	h := &sliceHandler{data: make([]byte, 32)}

	if err := d.Run(h); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(h.blocks))
	}
	// second block starts at frame 4: sin(2*pi*1000*4/8000) = sin(pi) ~ 0
	if h.blocks[1] > 1e-5 || h.blocks[1] < -1e-5 {
		t.Errorf("second block starts at %v, want ~0", h.blocks[1])
	}
}

func TestRecordingSink(t *testing.T) {
	t.Parallel()

	s := &RecordingSink{}
	f := audio.Format{Channels: 2, SampleRate: 44100}
	if err := s.Configure(f); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}

	b := audio.NewBlock(f, 8)
	b.Samples[0][0] = 0.25
	b.Frames = 8
	s.Render(b)
	s.SetPaused(true)
	s.Close()

	if s.Blocks() != 1 || s.Frames() != 8 || s.Values()[0] != 0.25 {
		t.Errorf("recorded %d blocks, %d frames, %v", s.Blocks(), s.Frames(), s.Values())
	}
	if paused, n := s.Paused(); !paused || n != 1 {
		t.Errorf("Paused() = %v, %d, want true, 1", paused, n)
	}
	if !s.Closed() {
		t.Error("Closed() = false")
	}
	if got := s.Formats(); len(got) != 1 || got[0] != f {
		t.Errorf("Formats() = %v", got)
	}
}
