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


package storage

import (
	"github.com/hangraph/hangraph/core"
)

// MarshalArchiveEntry serializes an ArchiveEntry to bytes.
func MarshalArchiveEntry(entry *core.ArchiveEntry) []byte {
	buf := make([]byte, core.ArchiveEntryMUS.Size(*entry))
	core.ArchiveEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalArchiveEntry deserializes an ArchiveEntry from bytes.
func UnmarshalArchiveEntry(data []byte) (*core.ArchiveEntry, error) {
	entry, _, err := core.ArchiveEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
