package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/hangraph/hangraph/core"
)

// Key prefixes for different data types
const (
	archiveEntryPrefix = "arcent"
	archiveUserPrefix  = "arcusr"
)

// makeEntryKey generates a key for an archive entry by ID.
func makeEntryKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", archiveEntryPrefix, id))
}

// userSegment renders the user ID as a fixed-width hash so that a user ID
// containing the key delimiter cannot extend into another user's scan range.
// Scans verify entry ownership, so a hash collision widens a scan but never
// leaks results.
func userSegment(userID string) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(core.IDFromContent(userID)))
	return buf
}

// makeUserEntryKey generates a composite key for the per-user index.
// Format: prefix:userHash:entryID
func makeUserEntryKey(userID, id string) []byte {
	return append(makeUserPrefix(userID), id...)
}

// makeUserPrefix generates the scan prefix for all of a user's entries.
func makeUserPrefix(userID string) []byte {
	buf := make([]byte, 0, len(archiveUserPrefix)+10)
	buf = append(buf, archiveUserPrefix...)
	buf = append(buf, ':')
	buf = append(buf, userSegment(userID)...)
	buf = append(buf, ':')
	return buf
}
