package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/nlp"
)

// MockTokenizer is a test double for nlp.Tokenizer.
// It allows custom behavior injection via function fields.
type MockTokenizer struct {
	// TokenizeFunc is called by Tokenize if set.
	// If nil, uses default whitespace-splitting behavior.
	TokenizeFunc func(ctx context.Context, text string) ([]core.Token, error)

	// Responses maps input text to scripted token sequences.
	// Checked before falling back to the default behavior.
	Responses map[string][]core.Token

	mu        sync.Mutex
	callCount int
}

var _ nlp.Tokenizer = (*MockTokenizer)(nil)

// NewMockTokenizer creates a mock tokenizer with default behavior:
// whitespace-split words tagged as common nouns.
// Note: Returns concrete type to allow test assertions.
func NewMockTokenizer() *MockTokenizer {
	return &MockTokenizer{Responses: make(map[string][]core.Token)}
}

// Tokenize returns scripted tokens when available, otherwise splits the text
// on whitespace and tags every word NNG.
func (m *MockTokenizer) Tokenize(ctx context.Context, text string) ([]core.Token, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.TokenizeFunc != nil {
		return m.TokenizeFunc(ctx, text)
	}

	if tokens, ok := m.Responses[text]; ok {
		return tokens, nil
	}

	fields := strings.Fields(text)
	tokens := make([]core.Token, len(fields))
	for i, field := range fields {
		tokens[i] = core.Token{Form: field, Tag: nlp.TagNNG}
	}
	return tokens, nil
}

// CallCount returns the number of times Tokenize was called.
func (m *MockTokenizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockTokenizer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.TokenizeFunc = nil
	m.Responses = make(map[string][]core.Token)
}
