package storage

import (
	"time"

	"github.com/pkg/errors"
)

// errors
var (
	ErrDuplicate    = errors.New("order is already registered")
	ErrUnknownOrder = errors.New("unknown order")
	ErrNotTerminal  = errors.New("status is not terminal")
)

// IOrderStatus - source of truth for order statuses during the session.
// All methods are safe for concurrent use.
type IOrderStatus interface {
	Get(id string) (Entry, bool)
	Set(id string, status Status)
	Add(id string) error
	Resolve(id string, status Status) (bool, error)
	Snapshot() []Entry
	Pending() []string
	Len() int
}

// Entry -
type Entry struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending -
func (e Entry) IsPending() bool {
	return e.Status == StatusAwaiting
}
