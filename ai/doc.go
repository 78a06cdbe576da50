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


// Package ai provides the embedding abstraction used by the ingestion
// pipeline and its read paths.
//
// The Embedder interface turns text into fixed-length vectors. Every embedder
// reports a ModelVersion: vectors from different model versions must never be
// compared, and the version tag travels with each stored vector so the
// storage layer can reject cross-version similarity queries.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//   - ai/mock: deterministic test double
//
// CachingEmbedder wraps any Embedder with an in-process LRU cache keyed by
// content hash, so repeated ingestion of identical text does not re-invoke
// the provider.
//
// Public constructors return interface types to enforce abstraction; mock
// constructors return concrete types so tests can inject behavior and assert
// call counts.
package ai
