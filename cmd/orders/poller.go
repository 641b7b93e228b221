package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/metrics"
	"github.com/dipdup-io/order-tracker/internal/storage"
	"github.com/dipdup-io/workerpool"
	"github.com/karlseguin/ccache/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	defaultPollInterval = 3
	defaultWorkersCount = 4
	inflightTTL         = time.Minute
	queueWait           = time.Millisecond * 10
)

type pollTask struct {
	id       string
	wg       *sync.WaitGroup
	resolved *atomic.Int64
}

// Poller - periodically asks the order service about orders awaiting processing
// and writes terminal outcomes to the store
type Poller struct {
	caller   caller.Caller
	store    storage.IOrderStatus
	renderer Renderer
	metrics  *metrics.Metrics
	pool     *workerpool.Pool[pollTask]
	inflight *ccache.Cache
	interval time.Duration
	workers  int

	// serializes dispatch of overlapping cycles
	dispatchMx sync.Mutex
	wg         *sync.WaitGroup
}

// NewPoller -
func NewPoller(cfg OrdersConfig, c caller.Caller, store storage.IOrderStatus, renderer Renderer, m *metrics.Metrics) *Poller {
	var (
		interval     uint64 = defaultPollInterval
		workersCount        = defaultWorkersCount
	)

	if cfg.PollInterval > 0 {
		interval = cfg.PollInterval
	}
	if cfg.WorkersCount > 0 {
		workersCount = cfg.WorkersCount
	}
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if m == nil {
		m = metrics.New()
	}

	p := &Poller{
		caller:   c,
		store:    store,
		renderer: renderer,
		metrics:  m,
		inflight: ccache.New(ccache.Configure().MaxSize(100000)),
		interval: time.Second * time.Duration(interval),
		workers:  workersCount,
		wg:       new(sync.WaitGroup),
	}
	p.pool = workerpool.NewPool(p.worker, workersCount)
	return p
}

// Start -
func (p *Poller) Start(ctx context.Context) {
	p.pool.Start(ctx)

	p.wg.Add(1)
	go p.work(ctx)
}

func (p *Poller) work(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cycle(ctx)
		}
	}
}

// Cycle - queries every order awaiting processing once and returns count of orders moved to terminal status.
// Orders registered while the cycle runs are picked up by the next one.
func (p *Poller) Cycle(ctx context.Context) int {
	start := time.Now()
	pending := p.store.Pending()
	if len(pending) == 0 {
		p.metrics.Cycle(0, time.Since(start))
		return 0
	}

	var (
		wg       sync.WaitGroup
		resolved atomic.Int64
	)
	p.dispatch(ctx, pending, &wg, &resolved)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}

	count := int(resolved.Load())
	p.metrics.Cycle(len(pending), time.Since(start))
	log.Debug().
		Int("pending", len(pending)).
		Int("resolved", count).
		Dur("duration", time.Since(start)).
		Msg("poll cycle")

	if count > 0 {
		p.renderer.Render(p.store.Snapshot())
	}
	return count
}

// dispatch - sends ids which are not in flight to the pool. Stops when ctx is done:
// workers exit on cancellation, so adding to a full queue would block forever.
func (p *Poller) dispatch(ctx context.Context, ids []string, wg *sync.WaitGroup, resolved *atomic.Int64) {
	p.dispatchMx.Lock()
	defer p.dispatchMx.Unlock()

	for _, id := range ids {
		if item := p.inflight.Get(id); item != nil && !item.Expired() {
			continue
		}

		for p.pool.QueueSize() >= p.workers {
			select {
			case <-ctx.Done():
				return
			case <-time.After(queueWait):
			}
		}
		if ctx.Err() != nil {
			return
		}

		p.inflight.Set(id, struct{}{}, inflightTTL)
		wg.Add(1)
		p.pool.AddTask(pollTask{
			id:       id,
			wg:       wg,
			resolved: resolved,
		})
	}
}

func (p *Poller) worker(ctx context.Context, task pollTask) {
	defer task.wg.Done()
	defer p.inflight.Delete(task.id)
	defer func() {
		if r := recover(); r != nil {
			p.metrics.Polled(metrics.PollError)
			log.Error().Str("id", task.id).Msgf("status polling panic: %v", r)
		}
	}()

	resolved, err := p.poll(ctx, task.id)
	if err != nil {
		p.metrics.Polled(metrics.PollError)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Str("id", task.id).Msg("status polling")
		return
	}
	if resolved {
		task.resolved.Add(1)
	}
}

func (p *Poller) poll(ctx context.Context, id string) (bool, error) {
	label, err := p.caller.Status(ctx, id)
	if err != nil {
		return false, err
	}

	status, ok := storage.ParseRemote(label)
	if !ok {
		p.metrics.Polled(metrics.PollPending)
		log.Debug().Str("id", id).Str("label", label).Msg("order is not processed yet")
		return false, nil
	}

	changed, err := p.store.Resolve(id, status)
	if err != nil {
		return false, errors.Wrapf(err, "resolve to %s", status)
	}
	if changed {
		p.metrics.Polled(metrics.PollResolved)
		p.metrics.Resolved(status.String())
		log.Info().Str("id", id).Str("status", status.String()).Msg("order processed")
	}
	return changed, nil
}

// Close -
func (p *Poller) Close() error {
	p.wg.Wait()
	p.inflight.Stop()

	if err := p.pool.Close(); err != nil {
		return err
	}

	return nil
}
