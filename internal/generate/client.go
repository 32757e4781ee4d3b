// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate builds prompts, calls the language model, and parses
// its loosely-structured responses into pipeline values.
package generate

import (
	"context"
	"errors"
	"fmt"
)

// Prompt is one request to the language model.
type Prompt struct {
	System string
	User   string
}

// Client abstracts the language model provider so tests can supply a mock.
// Complete returns free text; CompleteJSON asks the provider for a JSON
// object response.
type Client interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	CompleteJSON(ctx context.Context, p Prompt) (string, error)
}

// ProviderError wraps a failure calling the model provider: network, auth,
// or quota. Distinct from ParseError so callers can tell a dead provider
// from a malformed response.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generation %s: provider call: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError wraps a failure to parse the model response into the declared
// fields.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generation %s: parsing response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is a provider or parse failure
// from this package.
func IsGenerationError(err error) bool {
	var pe *ProviderError
	var se *ParseError
	return errors.As(err, &pe) || errors.As(err, &se)
}
