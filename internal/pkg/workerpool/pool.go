package workerpool

import (
	"errors"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Config configures the worker pool
type Config struct {
	// Workers is the number of concurrent workers
	Workers int

	// Nonblocking makes Submit fail instead of waiting when all
	// workers are busy
	Nonblocking bool
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:     32,
		Nonblocking: false,
	}
}

// Statistics is a snapshot of pool counters
type Statistics struct {
	Submitted int64
	Completed int64
	Failed    int64
	Running   int
}

// Pool is a fixed-size worker pool built on ants
type Pool struct {
	pool   *ants.Pool
	logger *zap.Logger

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	closed    atomic.Bool
}

// New creates a worker pool with the given configuration
func New(cfg *Config, logger *zap.Logger) (*Pool, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	antsPool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(cfg.Nonblocking))
	if err != nil {
		return nil, err
	}

	logger.Info("worker pool created", zap.Int("workers", cfg.Workers))

	return &Pool{
		pool:   antsPool,
		logger: logger,
	}, nil
}

// Submit schedules fn on a worker. Panics inside fn are recovered and
// counted as failures.
func (p *Pool) Submit(fn func() error) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.submitted.Add(1)

	err := p.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				p.failed.Add(1)
				p.logger.Error("task panicked", zap.Any("panic", r))
			}
		}()

		if err := fn(); err != nil {
			p.failed.Add(1)
			return
		}
		p.completed.Add(1)
	})
	if err != nil {
		p.submitted.Add(-1)
		return err
	}
	return nil
}

// Running returns the number of workers currently executing tasks
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Free returns the number of idle workers
func (p *Pool) Free() int {
	return p.pool.Free()
}

// Cap returns the pool capacity
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats returns a snapshot of the pool counters
func (p *Pool) Stats() Statistics {
	return Statistics{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Running:   p.pool.Running(),
	}
}

// Release shuts the pool down and rejects further submissions
func (p *Pool) Release() {
	if p.closed.CompareAndSwap(false, true) {
		p.pool.Release()
		p.logger.Info("worker pool released")
	}
}
