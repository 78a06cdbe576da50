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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidEvent indicates an ingestion event failed validation.
	ErrInvalidEvent = errors.New("invalid ingestion event")

	// ErrInvalidArchiveEntry indicates an archive entry failed validation.
	ErrInvalidArchiveEntry = errors.New("invalid archive entry")

	// ErrEmptyUserID indicates the UserID field is empty.
	ErrEmptyUserID = errors.New("user id cannot be empty")

	// ErrEmptyQueryText indicates the QueryText field is empty.
	ErrEmptyQueryText = errors.New("query text cannot be empty")

	// ErrEmptyResponseText indicates the ResponseText field is empty.
	ErrEmptyResponseText = errors.New("response text cannot be empty")

	// ErrEmptyVector indicates a required embedding vector is missing.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")

	// ErrEmptyModelVersion indicates the embedding model version tag is missing.
	ErrEmptyModelVersion = errors.New("embedding model version cannot be empty")

	// ErrModelVersionMismatch indicates vectors from different embedding model
	// versions were about to be compared. Similarity across model versions is
	// meaningless and must be surfaced, never silently computed.
	ErrModelVersionMismatch = errors.New("embedding model version mismatch")

	// ErrInvalidCategory indicates an invalid Category value.
	ErrInvalidCategory = errors.New("invalid token category")
)
