// Package batch runs report rendering over multiple exports with a
// bounded worker pool.
package batch

import (
	"context"
	"sync"
)

// DefaultWorkers is used when the configured worker count is not positive.
const DefaultWorkers = 4

// Result is the outcome of processing one export.
type Result struct {
	Path string
	Err  error
}

// Failed reports how many results carry an error.
func Failed(results []Result) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// Run processes every path with at most workers goroutines. Results come
// back in input order. Partial success: a failing path never stops the
// others, but a canceled context fails the remaining paths with ctx.Err().
func Run(ctx context.Context, workers int, paths []string, fn func(ctx context.Context, path string) error) []Result {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = Result{Path: paths[i], Err: err}
					continue
				}
				results[i] = Result{Path: paths[i], Err: fn(ctx, paths[i])}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
