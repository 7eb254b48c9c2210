package stockfolio

import "errors"

// The engine classifies every failure into one of a few recoverable kinds.
// Errors are wrapped with %w and matched with errors.Is; the engine itself
// never logs or prompts, callers decide how to react.
var (
	// ErrInvalidArgument reports malformed or out-of-domain input: a blank
	// symbol, a non-positive volume, a transaction date outside the
	// instrument's tradeable window, allocation weights that do not sum to 100.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports a well-formed operation that would violate the
	// ledger invariant, e.g. selling more than is held as of that date.
	ErrInvalidState = errors.New("invalid state")

	// ErrFutureDate reports a valuation requested strictly beyond the current date.
	ErrFutureDate = errors.New("future date")

	// ErrPriceSource reports that the external price data is unavailable.
	ErrPriceSource = errors.New("price source failure")

	// ErrUnknownSymbol reports a symbol the price source does not support.
	ErrUnknownSymbol = errors.New("unknown symbol")
)
