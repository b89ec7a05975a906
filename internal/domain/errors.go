package domain

import "errors"

var (
	// ErrNetwork marks transport level failures (connection refused, timeout).
	ErrNetwork = errors.New("network error")
	// ErrProtocol marks non-2xx responses from the remote service.
	ErrProtocol = errors.New("protocol error")
	// ErrData marks malformed or incomplete payloads.
	ErrData = errors.New("data error")
	// ErrValidation marks user input that fails a business rule. Always field
	// scoped, never raised past the handler layer.
	ErrValidation = errors.New("validation error")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoRates             = errors.New("no rates available")
	ErrSubmitInFlight      = errors.New("submission already in flight")
	ErrCodeUnavailable     = errors.New("payment code not available")
)
