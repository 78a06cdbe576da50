// Package ingestion turns inbound query/response events into archive
// entries and word-association graph updates.
//
// The Pipeline type runs the full workflow for one event:
//   - Validating the event
//   - Embedding the query and response texts
//   - Gating on novelty against the user's nearest archived exchange
//   - Archiving the exchange when novel
//   - Tokenizing and classifying the response text
//   - Recording adjacent-word associations in the graph
//
// The pipeline is deliberately retry-free: under at-least-once delivery the
// caller redelivers failed events, the novelty gate absorbs duplicate
// archive writes, and graph frequencies accumulate every observation,
// replays included.
package ingestion
