// Package poller runs a fetch on a fixed interval until its context ends.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FetchFunc loads fresh data. A returned error is logged and the loop keeps
// going; the caller decides what to show in the meantime.
type FetchFunc func(ctx context.Context) error

type Poller struct {
	name     string
	interval time.Duration
	fetch    FetchFunc
	enabled  atomic.Bool
	refresh  chan struct{}
	resume   chan struct{}
	logger   *zap.Logger
}

func New(name string, interval time.Duration, fetch FetchFunc, logger *zap.Logger) *Poller {
	p := &Poller{
		name:     name,
		interval: interval,
		fetch:    fetch,
		refresh:  make(chan struct{}, 1),
		resume:   make(chan struct{}, 1),
		logger:   logger.With(zap.String("poller", name)),
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled toggles the periodic fetch. Manual refreshes run either way.
// Turning it back on starts a full interval from now.
func (p *Poller) SetEnabled(on bool) {
	was := p.enabled.Swap(on)
	if on && !was {
		select {
		case p.resume <- struct{}{}:
		default:
		}
	}
	p.logger.Info("auto refresh toggled", zap.Bool("enabled", on))
}

func (p *Poller) Enabled() bool {
	return p.enabled.Load()
}

// Refresh asks for a fetch as soon as the loop is free. Requests made while
// one is already queued collapse into it.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run fetches once, then on every tick while enabled and on every Refresh.
// It returns when ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.run(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("poller stopped")
			return
		case <-p.resume:
			ticker.Reset(p.interval)
		case <-ticker.C:
			select {
			case <-p.resume:
				ticker.Reset(p.interval)
				continue
			default:
			}
			if p.enabled.Load() {
				p.run(ctx)
			}
		case <-p.refresh:
			p.run(ctx)
		}
	}
}

func (p *Poller) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := p.fetch(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("fetch failed, keeping previous data", zap.Error(err))
		return
	}
	p.logger.Debug("fetch done", zap.Duration("took", time.Since(start)))
}
