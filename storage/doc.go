// Copyright 2026 Hangraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for hangraph.
//
// Two stores back the ingestion pipeline:
//
//   - ArchiveRepository: the per-user vector archive of question/answer
//     exchanges, addressable by embedding similarity
//   - GraphStore: the per-user directed, frequency-weighted word-association
//     graph
//
// # Implementation Packages
//
//   - storage/badger: BadgerDB archive with brute-force cosine scan
//   - storage/neo4j: Neo4j property-graph store
//   - storage/memory: in-memory graph store for tests and local runs
//
// Public constructors return interface types to enforce abstraction and keep
// backends swappable; internal constructors may return concrete types.
//
// # Model Version Guarding
//
// Every archived vector carries the embedding model version that produced it.
// Similarity queries pass the caller's model version and fail with
// core.ErrModelVersionMismatch when a stored entry was embedded by a
// different model, rather than computing a meaningless distance.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access from
// multiple goroutines. Graph edge increments must be atomic at the storage
// layer so concurrent events never lose updates.
package storage
