package domain

import (
	"errors"
	"fmt"
)

// Business errors surfaced directly to callers. They are never swallowed or
// retried; persistence failures roll the whole operation back and come out
// wrapped from the repository instead.
var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to order")
	ErrPermissionDenied  = errors.New("actor has no rights over this resource")
	ErrAlreadyReviewed   = errors.New("a review already exists for this order item")
	ErrInvalidTransition = errors.New("illegal order status transition")
)

// ValidationError names the offending field so callers can fix their input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
