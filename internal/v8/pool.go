package v8

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/v8goja/internal/logging"
)

// PoolConfig defines isolate pool configuration
type PoolConfig struct {
	Size           int
	AcquireTimeout time.Duration // 0 waits for ctx only
	Params         CreateParams
}

// PoolStats is a snapshot of pool usage
type PoolStats struct {
	Size      int  `json:"size"`
	Available int  `json:"available"`
	InUse     int  `json:"in_use"`
	Closed    bool `json:"closed"`
}

// IsolatePool hands out isolates for exclusive use by one goroutine
type IsolatePool struct {
	config   PoolConfig
	isolates chan *Isolate
	size     int
	logger   *zap.Logger
	mu       sync.RWMutex
	closed   bool
}

// NewIsolatePool creates a pool and all of its isolates
func NewIsolatePool(config PoolConfig) (*IsolatePool, error) {
	size := config.Size
	if size <= 0 {
		size = 4
	}
	logger := config.Params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pool := &IsolatePool{
		config:   config,
		isolates: make(chan *Isolate, size),
		size:     size,
		logger:   logger,
	}

	for i := 0; i < size; i++ {
		iso, err := NewIsolate(config.Params)
		if err != nil {
			pool.Close()
			return nil, err
		}
		pool.isolates <- iso
	}

	pool.logger.Info("isolate pool ready", zap.Int("size", size))
	return pool, nil
}

// Acquire takes an isolate from the pool, waiting until one is released,
// ctx is done or the acquire timeout elapses
func (p *IsolatePool) Acquire(ctx context.Context) (*Isolate, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	if closed {
		return nil, ErrPoolClosed
	}

	var timeout <-chan time.Time
	if p.config.AcquireTimeout > 0 {
		timer := time.NewTimer(p.config.AcquireTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case iso, ok := <-p.isolates:
		if !ok {
			return nil, ErrPoolClosed
		}
		return iso, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		return nil, ErrPoolTimeout
	}
}

// Release resets iso and returns it to the pool
func (p *IsolatePool) Release(iso *Isolate) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		iso.Dispose()
		return
	}

	if err := iso.Reset(); err != nil {
		p.logger.Warn("replacing isolate", logging.Isolate(iso.ID()), zap.Error(err))
		iso.Dispose()
		fresh, err := NewIsolate(p.config.Params)
		if err != nil {
			p.logger.Error("isolate replacement failed", zap.Error(err))
			return
		}
		iso = fresh
	}

	select {
	case p.isolates <- iso:
	default:
		iso.Dispose()
	}
}

// Run acquires an isolate, runs fn with a fresh context and releases it
func (p *IsolatePool) Run(ctx context.Context, fn func(*Context) error) error {
	iso, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(iso)

	c, err := NewContext(iso)
	if err != nil {
		return err
	}
	c.Enter()
	defer c.Exit()

	return fn(c)
}

// Close disposes every pooled isolate. Isolates still acquired are
// disposed when released.
func (p *IsolatePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	close(p.isolates)

	for iso := range p.isolates {
		iso.Dispose()
	}
	p.logger.Info("isolate pool closed")
	return nil
}

// Stats returns pool statistics
func (p *IsolatePool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PoolStats{
		Size:      p.size,
		Available: len(p.isolates),
		InUse:     p.size - len(p.isolates),
		Closed:    p.closed,
	}
}
