package services

import (
	"errors"
	"net/http"

	"github.com/devmazaharul/fcommerce/cart"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAuthInvalid        = errors.New("invalid credentials")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ServiceError represents a typed error with an HTTP status code.
// Err carries the sentinel so callers can use errors.Is.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func validationError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg, Err: ErrValidation}
}

func notFoundError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: msg, Err: ErrNotFound}
}

func unavailableError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: msg, Err: ErrBackendUnavailable}
}

func authError() *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password", Err: ErrAuthInvalid}
}

// CartError maps a cart store error to a ServiceError. It returns nil for nil.
func CartError(err error) *ServiceError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cart.ErrInvalidQuantity):
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Quantity must be at least 1", Err: err}
	case errors.Is(err, cart.ErrInvalidItem):
		return &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid product", Err: err}
	case errors.Is(err, cart.ErrQuantityLimitExceeded):
		return &ServiceError{StatusCode: http.StatusUnprocessableEntity, Message: "Quantity limit exceeded", Err: err}
	case errors.Is(err, cart.ErrNotFound):
		return &ServiceError{StatusCode: http.StatusNotFound, Message: "Item not in cart", Err: err}
	default:
		return &ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "Cart is temporarily unavailable", Err: errors.Join(ErrBackendUnavailable, err)}
	}
}
