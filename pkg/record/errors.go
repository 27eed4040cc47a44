package record

import "errors"

// Sentinel errors for the recoverable failure kinds surfaced by the record
// core. All of them are returned, never panicked, and a failed mutation
// commits nothing. Callers match with errors.Is; the wrapped detail carries
// the human-readable reason also retained in ValidationError.
var (
	// ErrSchemaMissing indicates the family declares no schema; every
	// validation fails until one is attached.
	ErrSchemaMissing = errors.New("record: missing schema")
	// ErrUndeclaredAttribute indicates a read or write referenced an
	// attribute name absent from the family schema.
	ErrUndeclaredAttribute = errors.New("record: undeclared attribute")
	// ErrSchemaViolation indicates proposed values failed structural
	// validation against the declared schema.
	ErrSchemaViolation = errors.New("record: schema violation")
	// ErrFormatterNotFound indicates a formatting pass-through referenced a
	// transform that exists neither on the family nor in the registry.
	ErrFormatterNotFound = errors.New("record: formatter not found")
	// ErrMethodNotFound indicates a family method invocation could not be
	// resolved anywhere along the family chain.
	ErrMethodNotFound = errors.New("record: method not found")
)
