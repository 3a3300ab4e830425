// Package generator provides language-model example generation for
// JSGenerator, backed by the Anthropic API.
package generator

import (
	"context"
)

// Generator is the single-method contract the pipeline consumes: one
// blocking prompt-in/text-out call with no retry logic. The response is
// opaque free-form text expected to contain zero or more fenced code
// blocks.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
