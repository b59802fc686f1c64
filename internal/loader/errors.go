package loader

import "errors"

// Loader errors.
var (
	// ErrMissingSymbol is returned when a contract entry point is not exported.
	ErrMissingSymbol = errors.New("missing contract symbol")

	// ErrSignature is returned when an entry point has the wrong signature.
	ErrSignature = errors.New("contract symbol has wrong signature")

	// ErrNotAllowed is returned when a plugin is not on the allow-list.
	ErrNotAllowed = errors.New("plugin not allow-listed")

	// ErrNotFound is returned when an allow-listed plugin exists neither on
	// disk nor as a built-in.
	ErrNotFound = errors.New("plugin not found")
)
