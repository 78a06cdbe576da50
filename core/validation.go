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

import "fmt"

// ValidateEvent validates an ingestion event according to domain rules.
//
// Validation rules:
//   - UserID must not be empty
//   - QueryText must not be empty
//   - ResponseText must not be empty
//
// Invalid events are rejected before any side effect occurs: no adapter may
// be invoked with an event that fails validation.
func ValidateEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}

	if event.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyUserID)
	}

	if event.QueryText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyQueryText)
	}

	if event.ResponseText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvent, ErrEmptyResponseText)
	}

	return nil
}

// ValidateArchiveEntry validates an archive entry before it is persisted.
//
// Validation rules:
//   - UserID, QueryText and ResponseText must not be empty
//   - QueryVector must not be empty
//   - ModelVersion must not be empty
//
// NOT validated:
//   - Id (the archive assigns one when empty)
//   - ResponseVector (kept for future use; may be absent on old entries)
//   - CreatedAt (set by the archive on insert)
func ValidateArchiveEntry(entry *ArchiveEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidArchiveEntry)
	}

	if entry.UserID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArchiveEntry, ErrEmptyUserID)
	}

	if entry.QueryText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArchiveEntry, ErrEmptyQueryText)
	}

	if entry.ResponseText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArchiveEntry, ErrEmptyResponseText)
	}

	if len(entry.QueryVector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidArchiveEntry, ErrEmptyVector)
	}

	if entry.ModelVersion == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArchiveEntry, ErrEmptyModelVersion)
	}

	return nil
}

// ValidateCategory validates that a Category has a valid value.
func ValidateCategory(category Category) error {
	switch category {
	case CategoryNoun, CategoryVerb, CategoryModifier, CategoryBoundary, CategoryDiscard:
		return nil
	}
	return fmt.Errorf("%w: value %d", ErrInvalidCategory, category)
}
