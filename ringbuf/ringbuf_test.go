package ringbuf

import (
	"sync"
	"testing"
	"time"
)

func frames(channels int, values ...float32) []float32 {
	out := make([]float32, 0, len(values)*channels)
	for _, v := range values {
		for range channels {
			out = append(out, v)
		}
	}
	return out
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := New(0, 0)
	if r.Cap() != DefaultFrames {
		t.Errorf("Cap() = %d, want %d", r.Cap(), DefaultFrames)
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRing_FIFOWithWrap(t *testing.T) {
	t.Parallel()

	r := New(4, 2)
	out := make([]float32, 8)

	if !r.Enqueue(frames(2, 1, 2, 3), 3) {
		t.Fatal("Enqueue(3) = false")
	}
	if !r.Dequeue(out, 2) {
		t.Fatal("Dequeue(2) = false")
	}
	// start is now 2, so this write wraps
	if !r.Enqueue(frames(2, 4, 5, 6), 3) {
		t.Fatal("Enqueue(3) after wrap = false")
	}
	if r.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", r.Len())
	}

	if !r.Dequeue(out, 4) {
		t.Fatal("Dequeue(4) = false")
	}
	want := frames(2, 3, 4, 5, 6)
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestRing_EnqueueLargerThanCapacity(t *testing.T) {
	t.Parallel()

	r := New(4, 1)
	if r.Enqueue(make([]float32, 5), 5) {
		t.Error("Enqueue(5) on capacity 4 = true, want false")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRing_NoPartialDequeue(t *testing.T) {
	t.Parallel()

	r := New(8, 1)
	r.Enqueue([]float32{1, 2, 3}, 3)

	out := []float32{9, 9, 9, 9}
	if r.Dequeue(out, 4) {
		t.Fatal("Dequeue(4) with 3 buffered = true, want false")
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if out[0] != 9 {
		t.Errorf("dest modified on failed dequeue: %v", out)
	}
}

func TestRing_BlockedProducer(t *testing.T) {
	t.Parallel()

	// 16 of 16 frames full, producer waits for room for one more.
	r := New(16, 1)
	if !r.Enqueue(make([]float32, 16), 16) {
		t.Fatal("initial Enqueue = false")
	}

	done := make(chan bool)
	go func() {
		done <- r.Enqueue(make([]float32, 1), 1)
	}()

	select {
	case <-done:
		t.Fatal("Enqueue returned while the ring was full")
	case <-time.After(50 * time.Millisecond):
	}

	out := make([]float32, 20)
	if r.Dequeue(out, 20) {
		t.Fatal("Dequeue(20) = true, want false")
	}
	if r.Len() != 16 {
		t.Fatalf("Len() = %d after failed dequeue, want 16", r.Len())
	}

	if !r.Dequeue(out, 8) {
		t.Fatal("Dequeue(8) = false")
	}

	select {
	case ok := <-done:
		if !ok {
			t.Fatal("blocked Enqueue = false, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("producer not woken after dequeue")
	}

	if r.Len() != 9 {
		t.Errorf("Len() = %d, want 9", r.Len())
	}
}

func TestRing_CloseWakesProducer(t *testing.T) {
	t.Parallel()

	r := New(2, 1)
	r.Enqueue([]float32{1, 2}, 2)

	done := make(chan bool)
	go func() {
		done <- r.Enqueue([]float32{3}, 1)
	}()

	r.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Enqueue after Close = true, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake the producer")
	}

	out := make([]float32, 2)
	if !r.Dequeue(out, 2) {
		t.Error("Dequeue after Close = false, want buffered frames")
	}
}

func TestRing_Reset(t *testing.T) {
	t.Parallel()

	r := New(4, 1)
	r.Enqueue([]float32{1, 2, 3}, 3)
	r.Reset()

	if r.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", r.Len())
	}
}

func TestRing_ConcurrentConservation(t *testing.T) {
	t.Parallel()

	const total = 10000
	r := New(64, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i += 10 {
			chunk := make([]float32, 10)
			for j := range chunk {
				chunk[j] = float32(i + j)
			}
			r.Enqueue(chunk, 10)
		}
	}()

	out := make([]float32, 7)
	next := 0
	deadline := time.Now().Add(5 * time.Second)
	for next < total-total%7 && time.Now().Before(deadline) {
		if !r.Dequeue(out, 7) {
			time.Sleep(time.Millisecond)
			continue
		}
		for _, v := range out {
			if int(v) != next {
				t.Fatalf("got frame %v, want %d", v, next)
			}
			next++
		}
	}
	r.Close()
	wg.Wait()

	if next+r.Len() != total {
		t.Errorf("consumed %d + buffered %d, want %d", next, r.Len(), total)
	}
}
