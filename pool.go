package zakki

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps workers; past it, file I/O dominates.
	MaxPoolSize = 16
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	return min(max(runtime.GOMAXPROCS(0), MinPoolSize), MaxPoolSize)
}

// runJobs calls fn for every index in [0, n) on at most workers goroutines
// and returns once all calls finished. Jobs picked up after ctx is done are
// handed to skip instead. Every index is visited exactly once.
func runJobs(ctx context.Context, workers, n int, fn func(i int), skip func(i int, err error)) {
	if n == 0 {
		return
	}
	workers = min(max(workers, MinPoolSize), n)

	jobs := make(chan int, n)
	for i := range n {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					skip(i, err)
					continue
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}
