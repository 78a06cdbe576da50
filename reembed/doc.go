// Package reembed provides functionality for reembedding archived
// exchanges with new or updated embedding models.
//
// Both the query and response vectors of every entry are regenerated and
// the entry is stamped with the new model version, keeping the archive's
// model-version guard consistent. The package supports batch processing,
// progress tracking, retry with exponential backoff, and vector
// normalization for cosine similarity search.
package reembed
