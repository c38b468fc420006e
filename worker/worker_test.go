package worker

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/atomic"
)

func TestSubmitRunsTasks(t *testing.T) {
	var wg sync.WaitGroup
	var n atomic.Int64
	for i := 0; i < 32; i++ {
		wg.Add(1)
		Submit(func() {
			n.Inc()
			wg.Done()
		})
	}
	wg.Wait()

	if n.Load() != 32 {
		t.Fatalf("ran %d tasks, want 32", n.Load())
	}
}

func TestSubmitSurvivesPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	Submit(func() {
		defer wg.Done()
		panic("sweep failure")
	})
	wg.Wait()

	done := make(chan struct{})
	Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped running tasks after a panic")
	}
}
