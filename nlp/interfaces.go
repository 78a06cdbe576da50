package nlp

import (
	"context"

	"github.com/hangraph/hangraph/core"
)

// Tokenizer turns text into an ordered sequence of (surface form, POS tag)
// tokens. Implementations must be thread-safe for concurrent use.
type Tokenizer interface {
	// Tokenize analyzes text and returns its tokens in original order.
	// Returns an error if the analyzer is unreachable or rejects the input.
	Tokenize(ctx context.Context, text string) ([]core.Token, error)
}
