package chordgen

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent pdflatex runs to limit memory use.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the compilers' child processes.
	cpuDivisor = 2
)

// ServiceFactory builds one Service instance for a pool.
type ServiceFactory func() (*Service, error)

// ServicePool hands out Service instances for parallel song generation.
// Instances are built lazily on first acquire, so a pool sized for a
// large batch costs nothing when only one song is processed.
type ServicePool struct {
	size    int
	build   ServiceFactory
	idle    chan *Service
	mu      sync.Mutex
	built   []*Service
	created int
	closed  bool
}

// NewServicePool creates a pool with capacity for n Service instances
// produced by build. A nil build falls back to New().
func NewServicePool(n int, build ServiceFactory) *ServicePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	if build == nil {
		build = func() (*Service, error) { return New(), nil }
	}
	return &ServicePool{
		size:  n,
		build: build,
		idle:  make(chan *Service, n),
		built: make([]*Service, 0, n),
	}
}

// Acquire returns an idle service, building a new one while the pool is
// below capacity. Blocks once every instance is in use.
func (p *ServicePool) Acquire() (*Service, error) {
	select {
	case svc := <-p.idle:
		return svc, nil
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		svc, err := p.build()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.built = append(p.built, svc)
		p.mu.Unlock()
		return svc, nil
	}
	p.mu.Unlock()

	// All instances built, wait for one to come back.
	return <-p.idle, nil
}

// Release returns a service to the pool. A no-op after Close.
func (p *ServicePool) Release(svc *Service) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.idle <- svc
}

// Close closes every service the pool built, aggregating any errors.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	built := p.built
	p.mu.Unlock()

	var errs []error
	for _, svc := range built {
		if err := svc.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int { return p.size }

// ResolvePoolSize picks the worker count: an explicit positive value
// wins, otherwise half of GOMAXPROCS clamped to [MinPoolSize,
// MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
