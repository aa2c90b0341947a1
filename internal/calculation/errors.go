package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrDivideByZero is returned by the amortization helpers for a zero term
	// on the flat (rate-free) path. Callers are expected to guard against it.
	ErrDivideByZero = errors.New("division by zero term")

	// ErrDataInconsistency marks a broken internal invariant. It is a defect,
	// never a condition the caller can recover from by changing input.
	ErrDataInconsistency = errors.New("projection data inconsistency")
)

// ConfigurationError reports a profile that cannot be projected at all
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid profile: %s %s", e.Field, e.Reason)
}

// InsufficientFundsError reports a month whose required loan service exceeds
// the monthly repayment budget. The run stops at that month.
type InsufficientFundsError struct {
	Year      int
	Month     int
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("monthly repayment %s cannot cover required loan payments of %s in %04d-%02d",
		e.Available.StringFixed(2), e.Required.StringFixed(2), e.Year, e.Month)
}

// Shortfall is how much more budget the month would have needed.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available)
}

func configError(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
