package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunKeepsInputOrder(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("scan-%02d.nessus", i)
	}

	results := Run(context.Background(), 5, paths, func(ctx context.Context, path string) error {
		return nil
	})

	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
}

func TestRunPartialFailure(t *testing.T) {
	boom := errors.New("unreadable")
	paths := []string{"a.nessus", "b.nessus", "c.nessus"}

	results := Run(context.Background(), 2, paths, func(ctx context.Context, path string) error {
		if path == "b.nessus" {
			return boom
		}
		return nil
	})

	if Failed(results) != 1 {
		t.Fatalf("Failed = %d, want 1", Failed(results))
	}
	if !errors.Is(results[1].Err, boom) {
		t.Errorf("results[1].Err = %v, want wrapped boom", results[1].Err)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("other paths must still succeed")
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak int32
	var mu sync.Mutex

	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("%d", i)
	}

	Run(context.Background(), 3, paths, func(ctx context.Context, path string) error {
		n := atomic.AddInt32(&active, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		atomic.AddInt32(&active, -1)
		return nil
	})

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, 2, []string{"a", "b"}, func(ctx context.Context, path string) error {
		return nil
	})

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestRunZeroWorkersFallsBack(t *testing.T) {
	results := Run(context.Background(), 0, []string{"a"}, func(ctx context.Context, path string) error {
		return nil
	})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}
}

func TestRunEmptyInput(t *testing.T) {
	results := Run(context.Background(), 4, nil, func(ctx context.Context, path string) error {
		t.Fatal("fn must not be called")
		return nil
	})
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}
}
