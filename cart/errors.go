package cart

import "errors"

var (
	// ErrInvalidQuantity is a validation error: quantities below one are never stored.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrQuantityLimitExceeded is returned when a line would exceed the configured ceiling.
	ErrQuantityLimitExceeded = errors.New("quantity limit exceeded")
	// ErrInvalidItem is returned for catalog items without an id.
	ErrInvalidItem = errors.New("catalog item has no id")
	// ErrNotFound is returned by UpdateQuantity for an id not in the cart.
	ErrNotFound = errors.New("cart line not found")
	// ErrStorage wraps persistence failures. The in-memory cart is left unchanged.
	ErrStorage = errors.New("cart storage unavailable")
)
