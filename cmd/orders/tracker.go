package main

import (
	"context"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/metrics"
	"github.com/dipdup-io/order-tracker/internal/storage"
	"github.com/dipdup-io/order-tracker/internal/storage/memory"
)

// Tracker - owns the order status store and background work around it
type Tracker struct {
	store     storage.IOrderStatus
	submitter *Submitter
	poller    *Poller

	cancel context.CancelFunc
}

// NewTracker -
func NewTracker(cfg OrdersConfig, c caller.Caller, renderer Renderer, m *metrics.Metrics) *Tracker {
	if m == nil {
		m = metrics.New()
	}
	store := memory.NewOrderStatus()
	return &Tracker{
		store:     store,
		submitter: NewSubmitter(c, store, renderer, m),
		poller:    NewPoller(cfg, c, store, renderer, m),
	}
}

// Start - starts the polling loop. It runs until Close is called or ctx is done.
func (t *Tracker) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	t.poller.Start(ctx)
}

// Submit -
func (t *Tracker) Submit(ctx context.Context, product, quantity string) <-chan SubmitResult {
	return t.submitter.SubmitForm(ctx, product, quantity)
}

// Refresh - runs poll cycle immediately
func (t *Tracker) Refresh(ctx context.Context) int {
	return t.poller.Cycle(ctx)
}

// Snapshot -
func (t *Tracker) Snapshot() []storage.Entry {
	return t.store.Snapshot()
}

// Store -
func (t *Tracker) Store() storage.IOrderStatus {
	return t.store
}

// Close - gracefully stops background work
func (t *Tracker) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	t.submitter.Wait()

	return t.poller.Close()
}
