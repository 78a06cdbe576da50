package ingestion

import "errors"

var (
	// ErrArchiveRequired is returned when an archive repository is not provided.
	ErrArchiveRequired = errors.New("archive repository required")

	// ErrGraphRequired is returned when a graph store is not provided.
	ErrGraphRequired = errors.New("graph store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrTokenizerRequired is returned when a tokenizer is not provided.
	ErrTokenizerRequired = errors.New("tokenizer required")
)
