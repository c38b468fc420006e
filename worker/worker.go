// Package worker runs the engine's background maintenance: eviction sweeps
// and other tasks that must not stall a validation.
package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var (
	once  sync.Once
	tasks chan func()
)

// Submit queues fn on the maintenance pool. The pool is sized to the machine
// and started on first use.
func Submit(fn func()) {
	once.Do(start)
	tasks <- fn
}

func start() {
	n := runtime.NumCPU()
	tasks = make(chan func(), n*4)
	for i := 0; i < n; i++ {
		go func() {
			for fn := range tasks {
				run(fn)
			}
		}()
	}
}

// run executes one task under its own recover, so a panicking sweep is
// reported without taking the worker down with it.
func run(fn func()) {
	defer sentry.Recover()
	fn()
}
