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


// Package nlp provides morphological analysis abstractions and token
// classification for graph construction.
//
// The Tokenizer interface wraps an external morphological analyzer that turns
// text into an ordered sequence of (surface form, POS tag) tokens. The
// classifier reduces each POS tag to a coarse category (noun, verb, modifier,
// sentence boundary, or discard) using a static lookup table. The table is
// total: any tag not present maps to discard.
//
// # Implementation Packages
//
//   - nlp/kiwi: HTTP client for a Kiwi-compatible Korean analysis server
//   - nlp/mock: test double with scripted token output
//
// Tokenizer implementations must be safe for concurrent use. The kiwi client
// loads its custom vocabulary once at construction and performs no shared
// mutable state during tokenization, so it needs no locking on the hot path.
package nlp
