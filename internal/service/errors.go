package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error taxonomy surfaced to callers. Handlers translate these to HTTP
// status codes; everything else is an internal error.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrInvalidArgument = errors.New("invalid argument")
)

// InsufficientStockError is returned when a decrement would take stock
// negative. The mutation does not happen; current and requested quantities
// are carried for caller diagnostics.
type InsufficientStockError struct {
	ProductID uint
	Current   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: current %s, requested %s",
		e.ProductID, e.Current.StringFixed(2), e.Requested.StringFixed(2))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
