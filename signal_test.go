package audctl

import (
	"math"

	"github.com/ik5/audctl/audio"
)

// writeSignal renders frames of a 440 Hz stereo tone at 8 kHz into s.
func writeSignal(s audio.Sink, frames int) error {
	f := audio.Format{Channels: 2, SampleRate: 8000}
	if err := s.Configure(f); err != nil {
		return err
	}

	b := audio.NewBlock(f, frames)
	for i := range frames {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/8000))
		b.Samples[0][i] = v
		b.Samples[1][i] = v
	}
	b.Frames = frames

	if err := s.Render(b); err != nil {
		return err
	}
	return s.Close()
}
