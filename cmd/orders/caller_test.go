package main

import (
	"context"
	"sync"
	"time"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/order"
)

// fakeCaller - configurable caller which records every request
type fakeCaller struct {
	mx        sync.Mutex
	created   []order.Order
	queries   map[string]int
	createErr error
	labels    map[string]string
	errs      map[string]error
	panics    map[string]bool
	delay     time.Duration
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		queries: make(map[string]int),
		labels:  make(map[string]string),
		errs:    make(map[string]error),
		panics:  make(map[string]bool),
	}
}

var _ caller.Caller = (*fakeCaller)(nil)

func (f *fakeCaller) CreateOrder(ctx context.Context, o order.Order) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, o)
	return nil
}

func (f *fakeCaller) Status(ctx context.Context, id string) (string, error) {
	f.mx.Lock()
	f.queries[id]++
	label, err, panics, delay := f.labels[id], f.errs[id], f.panics[id], f.delay
	f.mx.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if panics {
		panic("unexpected response")
	}
	if err != nil {
		return "", err
	}
	if label == "" {
		label = "SENT_AWAITING_PROCESSING"
	}
	return label, nil
}

func (f *fakeCaller) setLabel(id, label string) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.labels[id] = label
}

func (f *fakeCaller) setError(id string, err error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.errs[id] = err
}

func (f *fakeCaller) setPanic(id string) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.panics[id] = true
}

func (f *fakeCaller) setDelay(delay time.Duration) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.delay = delay
}

func (f *fakeCaller) setCreateError(err error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.createErr = err
}

func (f *fakeCaller) createdCount() int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.created)
}

func (f *fakeCaller) queryCount(id string) int {
	f.mx.Lock()
	defer f.mx.Unlock()
	return f.queries[id]
}
