package eventmodels

import "fmt"

// Error kinds shared by the pricing, volatility and backtester packages.
// Callers match with errors.As; each public entry point documents which
// kinds it can return.

// DataValidationError reports a malformed input rejected at the call
// boundary, before any computation.
type DataValidationError struct {
	Func   string
	Reason string
}

func (e *DataValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Func, e.Reason)
}

// ConvergenceError reports a numerical root-finding failure: either the root
// could not be bracketed, or the iteration budget was exhausted.
type ConvergenceError struct {
	Func       string
	Iterations int
	LastValue  float64
	Err        error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: failed to converge after %d iterations (last value %v): %v", e.Func, e.Iterations, e.LastValue, e.Err)
}

func (e *ConvergenceError) Unwrap() error {
	return e.Err
}

// InsufficientDataError reports a calculation that requires more history
// than was supplied.
type InsufficientDataError struct {
	Func string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d observations, have %d", e.Func, e.Need, e.Have)
}

// StrategyValidationError reports a strategy that violates its structural
// rules, e.g. wrong leg count for its declared type.
type StrategyValidationError struct {
	Strategy string
	Reason   string
}

func (e *StrategyValidationError) Error() string {
	return fmt.Sprintf("strategy %q failed validation: %s", e.Strategy, e.Reason)
}

// PricingModelError wraps an unexpected arithmetic failure inside a specific
// valuation method.
type PricingModelError struct {
	Method string
	Err    error
}

func (e *PricingModelError) Error() string {
	return fmt.Sprintf("%s: pricing model failure: %v", e.Method, e.Err)
}

func (e *PricingModelError) Unwrap() error {
	return e.Err
}
