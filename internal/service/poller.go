// internal/service/poller.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/reviewlens/reviewlens/internal/utils"
)

// Poller re-scrapes a fixed URL set on an interval, feeding the configured
// outputs with fresh snapshots. Set OnResult before Start to also receive
// each successful result in-process.
type Poller struct {
	service  *Service
	urls     []string
	interval time.Duration
	logger   utils.Logger

	// OnResult, when set, is called with every successful scrape result.
	// It runs on the polling goroutine; a slow callback delays the pass.
	OnResult func(*Result)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller creates a poller over the given URLs.
func NewPoller(svc *Service, urls []string, interval time.Duration, logger utils.Logger) *Poller {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &Poller{
		service:  svc,
		urls:     urls,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called or the context ends.
// The first pass runs immediately rather than one interval in.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	for _, url := range p.urls {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		default:
		}

		result, err := p.service.ScrapeURL(ctx, URLRequest{URL: url})
		if err != nil {
			p.logger.WithField("url", url).Warnf("poll failed: %v", err)
			continue
		}
		if p.OnResult != nil {
			p.OnResult(result)
		}
	}
}

// Stop halts the loop and waits for the current pass to finish.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}
