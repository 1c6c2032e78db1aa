package models

import "errors"

// Error kinds surfaced by the ledger. Callers match them with errors.Is;
// the wrapped message carries the details.
var (
	// ErrNotFound means the referenced group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid means a business rule was violated (bad amount, unknown payer
	// or participant, malformed identifier).
	ErrInvalid = errors.New("invalid request")
)
