package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic identifier derived from content.
// It is used for embedding cache keys and content-addressed lookups.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Tag is a raw part-of-speech tag code emitted by the morphological analyzer.
// It is opaque everywhere except the classifier's lookup table.
type Tag string

// Category is the coarse grammatical category a token is reduced to.
// Categories act as namespaces for graph nodes, so identical surface forms
// with different grammatical roles remain distinct nodes.
type Category int

const (
	// CategoryNoun covers common nouns, proper nouns, numerals and pronouns.
	CategoryNoun Category = iota + 1
	// CategoryVerb covers verb and adjective stems.
	CategoryVerb
	// CategoryModifier covers determiners and modifiers.
	CategoryModifier
	// CategoryBoundary covers sentence/clause endings and punctuation.
	// A boundary token never originates a graph relation.
	CategoryBoundary
	// CategoryDiscard marks tokens excluded from graph construction.
	CategoryDiscard
)

// Label returns the category name used as a graph node namespace.
func (c Category) Label() string {
	switch c {
	case CategoryNoun:
		return "Noun"
	case CategoryVerb:
		return "Verb"
	case CategoryModifier:
		return "Modifier"
	case CategoryBoundary:
		return "Boundary"
	case CategoryDiscard:
		return "Discard"
	}
	return "Unknown"
}

func (c Category) String() string {
	return c.Label()
}

// CategoryFromLabel is the inverse of Label, used when reading categories
// back from graph node labels.
func CategoryFromLabel(label string) (Category, error) {
	switch label {
	case "Noun":
		return CategoryNoun, nil
	case "Verb":
		return CategoryVerb, nil
	case "Modifier":
		return CategoryModifier, nil
	case "Boundary":
		return CategoryBoundary, nil
	case "Discard":
		return CategoryDiscard, nil
	}
	return 0, fmt.Errorf("%w: unknown label %q", ErrInvalidCategory, label)
}

// Event is one inbound ingestion event: a user's query text and the generated
// response text, tagged with the originating user. Constructed once per
// inbound message and never mutated.
type Event struct {
	UserID       string
	QueryText    string
	ResponseText string
}

// Token is a raw tokenizer output unit: a surface form with its POS tag.
type Token struct {
	Form string
	Tag  Tag
}

// ClassifiedToken is a token reduced to a coarse category.
// Tokens classified as Discard are dropped before relationship construction
// and never appear in a classified sequence.
type ClassifiedToken struct {
	Form     string
	Category Category
	Tag      Tag
}

// ArchiveEntry is one stored question/answer exchange with its embeddings.
// Entries are created on novelty-gate approval and never mutated by the
// ingestion path; reembedding may refresh vectors and the model version.
type ArchiveEntry struct {
	Id             string // UUID
	UserID         string
	QueryText      string
	ResponseText   string
	QueryVector    []float32
	ResponseVector []float32
	ModelVersion   string // Embedding model that produced the vectors
	CreatedAt      time.Time
}

// ArchiveMatch is an archive entry returned from similarity search.
type ArchiveMatch struct {
	Entry *ArchiveEntry
	Score float32
}

// Association is a directed word association observed for a user,
// with the number of times it has been seen.
type Association struct {
	Source    ClassifiedToken
	Target    ClassifiedToken
	Frequency int64
}
