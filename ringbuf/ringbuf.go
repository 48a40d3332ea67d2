// SPDX-License-Identifier: EPL-2.0

// Package ringbuf provides a bounded FIFO of interleaved sample frames
// between a bursty producer (the decoder) and a fixed-period consumer (the
// real-time render callback).
//
// Enqueue blocks until there is room. Dequeue never blocks on space: it
// either copies exactly the requested frames or consumes nothing, so the
// consumer can fill the gap with silence.
package ringbuf

import "sync"

// DefaultFrames holds 16 MPEG-1 layer III frames.
const DefaultFrames = 16 * 1152

// Ring is a fixed-capacity queue of frames, each Channels samples wide.
type Ring struct {
	mtx  sync.Mutex
	cond *sync.Cond

	data     []float32
	capacity int
	channels int
	start    int
	count    int
	closed   bool
}

// New allocates a ring holding capacity frames of channels samples.
// Non-positive arguments fall back to DefaultFrames and stereo.
func New(capacity, channels int) *Ring {
	if capacity <= 0 {
		capacity = DefaultFrames
	}
	if channels <= 0 {
		channels = 2
	}

	r := &Ring{
		data:     make([]float32, capacity*channels),
		capacity: capacity,
		channels: channels,
	}
	r.cond = sync.NewCond(&r.mtx)
	return r
}

// Enqueue appends count frames from data, waiting until they fit. It
// returns false without waiting when count exceeds the capacity, and
// false when the ring is closed.
func (r *Ring) Enqueue(data []float32, count int) bool {
	if count < 0 || len(data) < count*r.channels {
		return false
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if count > r.capacity {
		return false
	}
	for !r.closed && r.capacity-r.count < count {
		r.cond.Wait()
	}
	if r.closed {
		return false
	}

	end := (r.start + r.count) % r.capacity
	first := min(count, r.capacity-end)
	copy(r.data[end*r.channels:], data[:first*r.channels])
	copy(r.data, data[first*r.channels:count*r.channels])

	r.count += count
	r.cond.Broadcast()
	return true
}

// Dequeue moves exactly count frames into dest. When fewer are available
// nothing is consumed and it returns false.
func (r *Ring) Dequeue(dest []float32, count int) bool {
	if count < 0 || len(dest) < count*r.channels {
		return false
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.count < count {
		return false
	}

	first := min(count, r.capacity-r.start)
	copy(dest, r.data[r.start*r.channels:(r.start+first)*r.channels])
	copy(dest[first*r.channels:count*r.channels], r.data)

	r.start = (r.start + count) % r.capacity
	r.count -= count
	r.cond.Broadcast()
	return true
}

// Len returns the number of buffered frames.
func (r *Ring) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.count
}

// Reset drops every buffered frame.
func (r *Ring) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.start, r.count = 0, 0
	r.cond.Broadcast()
}

// Close wakes a blocked producer. Enqueue fails from then on; Dequeue keeps
// draining what is left.
func (r *Ring) Close() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.closed = true
	r.cond.Broadcast()
}

func (r *Ring) Cap() int      { return r.capacity }
func (r *Ring) Channels() int { return r.channels }
