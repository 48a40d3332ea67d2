// SPDX-License-Identifier: EPL-2.0

package speaker

import "github.com/ik5/audctl/ringbuf"

// ringStreamer feeds the device callback from a ring. It never blocks and
// never ends: missing frames are rendered as silence.
type ringStreamer struct {
	ring *ringbuf.Ring
	buf  []float32
}

func newRingStreamer(ring *ringbuf.Ring) *ringStreamer {
	return &ringStreamer{ring: ring}
}

func (r *ringStreamer) Stream(samples [][2]float64) (int, bool) {
	want := len(samples)
	if cap(r.buf) < want*2 {
		r.buf = make([]float32, want*2)
	}
	buf := r.buf[:want*2]

	got := 0
	if r.ring.Dequeue(buf, want) {
		got = want
	} else if n := min(r.ring.Len(), want); n > 0 && r.ring.Dequeue(buf, n) {
		got = n
	}

	for i := range got {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}
	for i := got; i < want; i++ {
		samples[i] = [2]float64{}
	}
	return want, true
}

func (r *ringStreamer) Err() error { return nil }
