// Package oracle wraps the language-model services used for scoring and
// extraction. Callers treat every response as untrusted text.
package oracle

import (
	"context"
	"errors"
)

var (
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("oracle returned an empty response")
	// ErrMalformed means the response did not contain the requested JSON shape.
	ErrMalformed = errors.New("oracle response is malformed")
)

// Request is one completion request.
type Request struct {
	System string
	Prompt string
	// Model overrides the client's default model when set.
	Model string
	// JSON asks the service to answer with JSON only, where supported.
	JSON bool
}

// Oracle completes prompts.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ModelAliases maps the operator-facing tiers to concrete model names.
var ModelAliases = map[string]string{
	"deep":     "gemini-3-pro-preview",
	"advanced": "gemini-2.5-pro",
	"fast":     "gemini-2.5-flash",
}

// ResolveModel returns the concrete model for an alias, or name unchanged.
func ResolveModel(name string) string {
	if model, ok := ModelAliases[name]; ok {
		return model
	}
	return name
}
