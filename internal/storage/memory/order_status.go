package memory

import (
	"sync"
	"time"

	"github.com/dipdup-io/order-tracker/internal/storage"
	"github.com/pkg/errors"
)

// OrderStatus - in-memory implementation of storage.IOrderStatus.
// Records are kept in insertion order and never removed.
type OrderStatus struct {
	mx      sync.RWMutex
	records map[string]*storage.Entry
	order   []string
	now     func() time.Time
}

// NewOrderStatus -
func NewOrderStatus() *OrderStatus {
	return &OrderStatus{
		records: make(map[string]*storage.Entry),
		order:   make([]string, 0),
		now:     time.Now,
	}
}

// Get -
func (s *OrderStatus) Get(id string) (storage.Entry, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return storage.Entry{}, false
	}
	return *r, true
}

// Set - inserts or overwrites status of the order
func (s *OrderStatus) Set(id string, status storage.Status) {
	s.mx.Lock()
	defer s.mx.Unlock()

	now := s.now()
	if r, ok := s.records[id]; ok {
		r.Status = status
		r.UpdatedAt = now
		return
	}
	s.insert(id, status, now)
}

// Add - registers a new order in the initial status
func (s *OrderStatus) Add(id string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.records[id]; ok {
		return errors.Wrap(storage.ErrDuplicate, id)
	}
	s.insert(id, storage.StatusAwaiting, s.now())
	return nil
}

// Resolve - moves pending order to the terminal status. Returns false if the order was already resolved.
func (s *OrderStatus) Resolve(id string, status storage.Status) (bool, error) {
	if !status.IsTerminal() {
		return false, errors.Wrap(storage.ErrNotTerminal, status.String())
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	r, ok := s.records[id]
	if !ok {
		return false, errors.Wrap(storage.ErrUnknownOrder, id)
	}
	if !r.IsPending() {
		return false, nil
	}
	r.Status = status
	r.UpdatedAt = s.now()
	return true, nil
}

// Snapshot - copy of all entries in submission order
func (s *OrderStatus) Snapshot() []storage.Entry {
	s.mx.RLock()
	defer s.mx.RUnlock()

	result := make([]storage.Entry, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.records[id])
	}
	return result
}

// Pending - identities of orders in the initial status in submission order
func (s *OrderStatus) Pending() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	result := make([]string, 0)
	for _, id := range s.order {
		if s.records[id].IsPending() {
			result = append(result, id)
		}
	}
	return result
}

// Len -
func (s *OrderStatus) Len() int {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.records)
}

func (s *OrderStatus) insert(id string, status storage.Status, now time.Time) {
	s.records[id] = &storage.Entry{
		ID:        id,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.order = append(s.order, id)
}
