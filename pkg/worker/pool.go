package worker

import (
	"context"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
)

// Pool runs independent workers sharing the same collaborators
type Pool struct {
	workers []*Worker
}

// NewPool makes n workers with ids host-pid-i
func NewPool(n int, params Params) *Pool {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return newPool(n, fmt.Sprintf("%s-%d", host, os.Getpid()), params)
}

func newPool(n int, prefix string, params Params) *Pool {
	n = max(n, 1)
	p := &Pool{workers: make([]*Worker, n)}
	for i := range n {
		p.workers[i] = New(fmt.Sprintf("%s-%d", prefix, i+1), params)
	}
	return p
}

// Workers returns the workers of the pool
func (p *Pool) Workers() []*Worker { return p.workers }

// Run runs all workers until ctx is canceled or Stop is called
func (p *Pool) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting %d workers", len(p.workers))
	g, ctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		g.Go(func() error { return w.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	return nil
}

// Stop stops all workers and waits for them to drain
func (p *Pool) Stop() {
	g := errgroup.Group{}
	for _, w := range p.workers {
		g.Go(func() error { w.Stop(); return nil })
	}
	_ = g.Wait()
}
