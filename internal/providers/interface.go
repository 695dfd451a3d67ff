package providers

import (
	"context"
	"errors"
	"fmt"

	"jobscout/pkg/models"
)

// Provider defines the contract every job board adapter implements. An
// adapter owns its own request construction and normalization; a single
// malformed record is skipped, never fatal to the batch.
type Provider interface {
	// Search runs one query against the provider and returns normalized listings
	Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Listing, error)

	// Name returns the stable provider identifier used in events and statuses
	Name() string

	// Configured reports whether the provider has usable credentials
	Configured() bool
}

// ErrorKind classifies a provider failure at its point of origin
type ErrorKind string

const (
	ErrKindTimeout      ErrorKind = "timeout"
	ErrKindHTTP         ErrorKind = "http"
	ErrKindParse        ErrorKind = "parse"
	ErrKindUnauthorized ErrorKind = "unauthorized"
)

// ProviderError is the non-fatal failure type returned by adapters. The
// orchestrator reports it as a status event and continues the session.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with its provider and failure kind
func NewProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// KindOf extracts the failure kind from an error, defaulting to http
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	return ErrKindHTTP
}
