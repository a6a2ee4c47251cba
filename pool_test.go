package chordgen

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit one for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: 16, want: 16},
		{name: "zero auto-calculates", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSize_NegativeAutoCalculates(t *testing.T) {
	t.Parallel()

	got := ResolvePoolSize(-5)
	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(-5) = %d, want between %d and %d", got, MinPoolSize, MaxPoolSize)
	}
}

func TestServicePool_AcquireRelease(t *testing.T) {
	t.Parallel()

	var built int
	pool := NewServicePool(2, func() (*Service, error) {
		built++
		return New(), nil
	})
	defer pool.Close()

	svc1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire error = %v", err)
	}
	svc2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire error = %v", err)
	}
	if svc1 == svc2 {
		t.Error("expected distinct service instances")
	}
	if built != 2 {
		t.Errorf("built = %d services, want 2", built)
	}

	// A released service comes back instead of a new build.
	pool.Release(svc1)
	svc3, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire error = %v", err)
	}
	if svc3 != svc1 {
		t.Error("expected to get back the released service")
	}
	if built != 2 {
		t.Errorf("built = %d services after reuse, want 2", built)
	}

	pool.Release(svc2)
	pool.Release(svc3)
}

func TestServicePool_BuildFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fail := true
	pool := NewServicePool(1, func() (*Service, error) {
		if fail {
			return nil, boom
		}
		return New(), nil
	})
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, boom) {
		t.Fatalf("Acquire error = %v, want build failure", err)
	}

	// A failed build gives its slot back, so the next acquire retries.
	fail = false
	svc, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire after failed build error = %v", err)
	}
	pool.Release(svc)
}

func TestServicePool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewServicePool(tt.size, nil)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServicePool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2, nil)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc, err := pool.Acquire()
			if err != nil {
				t.Error(err)
				return
			}
			time.Sleep(time.Millisecond)
			pool.Release(svc)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent acquire/release timed out")
	}
}

func TestServicePool_ReleaseAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(2, nil)

	svc, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("Close error = %v", err)
	}

	// Must not panic or block.
	pool.Release(svc)
}

func TestServicePool_DoubleClose(t *testing.T) {
	t.Parallel()

	pool := NewServicePool(1, nil)
	if err := pool.Close(); err != nil {
		t.Errorf("first Close error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
}
