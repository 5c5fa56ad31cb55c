// Package poller runs a fetch function on a fixed interval until stopped.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Default refresh intervals.
const (
	ChatInterval          = 2 * time.Second
	ConversationsInterval = 5 * time.Second
)

type options struct {
	logger *slog.Logger
	name   string
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName labels log lines of this poller.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Poller calls fetch immediately on Start and then every interval, handing
// each successful result to deliver. Nothing is delivered once Stop returns.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(ctx context.Context) (T, error)
	deliver  func(T)
	opts     options
	trigger  chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New[T any](interval time.Duration, fetch func(ctx context.Context) (T, error), deliver func(T), opts ...Option) *Poller[T] {
	o := options{logger: slog.Default(), name: "poller"}
	for _, opt := range opts {
		opt(&o)
	}
	if interval <= 0 {
		interval = ChatInterval
	}
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		deliver:  deliver,
		opts:     o,
		trigger:  make(chan struct{}, 1),
	}
}

// Start begins polling. Calling Start on a running poller does nothing.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.run(ctx, done)
}

// Stop cancels polling and waits for an in-flight fetch to finish.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Trigger requests a refresh without waiting for the next tick.
func (p *Poller[T]) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

func (p *Poller[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		case <-p.trigger:
			p.poll(ctx)
			ticker.Reset(p.interval)
		}
	}
}

func (p *Poller[T]) poll(ctx context.Context) {
	v, err := p.fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.opts.logger.Warn("refresh failed", "poller", p.opts.name, "error", err)
		return
	}
	p.deliver(v)
}
