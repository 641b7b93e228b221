package main

import (
	"context"
	"sync"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/metrics"
	"github.com/dipdup-io/order-tracker/internal/order"
	"github.com/dipdup-io/order-tracker/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SubmitResult - outcome of the asynchronous submission. ID is empty if Err is not nil.
type SubmitResult struct {
	ID  string
	Err error
}

// Submitter - sends new orders to the order service and registers them in the store
type Submitter struct {
	caller   caller.Caller
	store    storage.IOrderStatus
	renderer Renderer
	metrics  *metrics.Metrics

	wg *sync.WaitGroup
}

// NewSubmitter -
func NewSubmitter(c caller.Caller, store storage.IOrderStatus, renderer Renderer, m *metrics.Metrics) *Submitter {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Submitter{
		caller:   c,
		store:    store,
		renderer: renderer,
		metrics:  m,
		wg:       new(sync.WaitGroup),
	}
}

// Submit - validates input and sends the order in background. The returned channel receives exactly one result.
func (s *Submitter) Submit(ctx context.Context, product string, quantity int) <-chan SubmitResult {
	o, err := order.New(product, quantity)
	return s.dispatch(ctx, o, err)
}

// SubmitForm - same as Submit but takes raw form values
func (s *Submitter) SubmitForm(ctx context.Context, product, quantity string) <-chan SubmitResult {
	o, err := order.FromForm(product, quantity)
	return s.dispatch(ctx, o, err)
}

func (s *Submitter) dispatch(ctx context.Context, o order.Order, err error) <-chan SubmitResult {
	result := make(chan SubmitResult, 1)
	if err != nil {
		s.metrics.Submitted(metrics.SubmitValidation)
		result <- SubmitResult{Err: err}
		close(result)
		return result
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(result)

		if err := s.Create(ctx, o); err != nil {
			result <- SubmitResult{Err: err}
			return
		}
		result <- SubmitResult{ID: o.ID}
	}()
	return result
}

// Create - sends the order and registers it after acknowledgment
func (s *Submitter) Create(ctx context.Context, o order.Order) error {
	log.Debug().
		Str("id", o.ID).
		Str("product", o.Product).
		Int("quantity", o.Quantity).
		Msg("sending order")

	if err := s.caller.CreateOrder(ctx, o); err != nil {
		var serverErr *caller.ServerError
		switch {
		case errors.As(err, &serverErr):
			s.metrics.Submitted(metrics.SubmitServer)
		case errors.Is(err, caller.ErrNetwork):
			s.metrics.Submitted(metrics.SubmitNetwork)
		default:
			s.metrics.Submitted(metrics.SubmitInternal)
		}
		log.Err(err).Str("id", o.ID).Msg("order sending")
		return err
	}

	if err := s.store.Add(o.ID); err != nil {
		s.metrics.Submitted(metrics.SubmitInternal)
		return errors.Wrap(err, "order registration")
	}
	s.metrics.Submitted(metrics.SubmitSuccess)

	log.Info().Str("id", o.ID).Msg("order sent, awaiting processing")
	s.renderer.Render(s.store.Snapshot())
	return nil
}

// Wait - waits until all in-flight submissions are completed
func (s *Submitter) Wait() {
	s.wg.Wait()
}
