package order

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrValidation - order input is rejected before any network interaction
var ErrValidation = errors.New("invalid order")

var validate = validator.New()

// Order - order submitted to the order service
type Order struct {
	ID       string `json:"id" validate:"required,uuid4"`
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// New - creates order with a fresh random identity. Invalid orders are never constructed.
func New(product string, quantity int) (Order, error) {
	o := Order{
		ID:       uuid.NewString(),
		Product:  strings.TrimSpace(product),
		Quantity: quantity,
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// FromForm - creates order from raw text fields
func FromForm(product, quantity string) (Order, error) {
	product = strings.TrimSpace(product)
	quantity = strings.TrimSpace(quantity)
	if product == "" || quantity == "" {
		return Order{}, errors.Wrap(ErrValidation, "product and quantity are required")
	}

	q, err := strconv.Atoi(quantity)
	if err != nil || q <= 0 {
		return Order{}, errors.Wrap(ErrValidation, "quantity must be a positive integer")
	}
	return New(product, q)
}

// Validate -
func (o Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.Wrapf(ErrValidation, "field %s failed on '%s'", fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return errors.Wrap(ErrValidation, err.Error())
	}
	return nil
}
