package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors: transport and API
// failures from the Search Console client are propagated verbatim and
// never wrapped in one of these sentinels.
var (
	// ErrInvalidConfiguration indicates conflicting, missing, or malformed
	// configuration: mutually exclusive credential inputs supplied together,
	// an unparseable client-secrets document, a stop date combined with a
	// day/month offset, or a malformed query parameter.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDateParse indicates a date string could not be interpreted.
	// The wrapping error carries the offending input.
	ErrDateParse = errors.New("unparseable date")

	// ErrSerializationUnsupported indicates the credential kind cannot be
	// serialized. Service-account credentials are loaded from keys managed
	// outside this tool and never round-trip through the credential store.
	ErrSerializationUnsupported = errors.New("credential serialization unsupported")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired indicates an operation needs credentials but none are
	// configured.
	ErrAuthRequired = errors.New("authentication required")
)
