package orders

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoRecipient       = errors.New("shipping address needs a full name")
	ErrInvalidQuantity   = errors.New("item quantity must be at least 1")
	ErrInvalidMethod     = errors.New("payment method must be cash or qris")
	ErrAlreadyPaid       = errors.New("order is already paid")
	ErrOrderRejected     = errors.New("rejected order cannot take payment")
	ErrCreateOrder       = errors.New("order creation failed")
	ErrVersionConflict   = errors.New("order was modified concurrently")
	ErrInvalidTransition = errors.New("illegal status transition")
)

func transitionErr(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
