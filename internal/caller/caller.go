package caller

import (
	"context"
	"fmt"

	"github.com/dipdup-io/order-tracker/internal/order"
	"github.com/pkg/errors"
)

// errors
var (
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid response")
)

// Caller - client of the remote order service
type Caller interface {
	CreateOrder(ctx context.Context, o order.Order) error
	Status(ctx context.Context, id string) (string, error)
}

// ServerError - order service answered with a non-success status code
type ServerError struct {
	StatusCode int
	Message    string
}

// Error -
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}
