package port

import "errors"

// Sentinel errors used across ports. All of them are recoverable at the
// hook boundary: the pipeline degrades to an empty injection result.
var (
	ErrInputTooShort     = errors.New("input too short to embed")
	ErrStoreUnavailable  = errors.New("vector store unavailable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
