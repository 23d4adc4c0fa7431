package apperr

import "fmt"

// NotFoundError indicates that a requested resource does not exist,
// such as an unconfigured halving index or an unknown provider id.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ValidationError indicates malformed or out-of-policy input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError indicates a historical-store access failure. It is always
// fatal to the call that produced it: no partial historical result is
// returned alongside one.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ProviderErrorKind classifies why a provider fetch failed.
type ProviderErrorKind string

const (
	// ProviderErrNetwork covers transport failures and timeouts.
	ProviderErrNetwork ProviderErrorKind = "network"
	// ProviderErrUpstream covers non-2xx responses and malformed envelopes.
	ProviderErrUpstream ProviderErrorKind = "upstream"
	// ProviderErrSchema covers well-formed responses missing expected
	// fields or carrying values of the wrong type.
	ProviderErrSchema ProviderErrorKind = "schema"
)

// ProviderError is a typed failure from a single quote provider. The
// aggregator treats all kinds uniformly as "this provider failed".
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewNetworkError wraps a transport or timeout failure for a provider.
func NewNetworkError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ProviderErrNetwork, Err: err}
}

// NewUpstreamError wraps a non-2xx or undecodable upstream response.
func NewUpstreamError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ProviderErrUpstream, Err: err}
}

// NewSchemaError wraps a missing or mistyped field in an otherwise
// well-formed upstream response.
func NewSchemaError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: ProviderErrSchema, Err: err}
}
