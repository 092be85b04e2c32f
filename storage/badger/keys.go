package badger

import (
	"fmt"

	"github.com/poiesic/archivist/core"
)

// Key prefixes for different data types
const (
	recordPrefix     = "docrec"
	ambiguityPrefix  = "ambig"
	entityPrefix     = "entity"
	checkpointSuffix = "chkpt"
)

// makeRecordKey generates a key for a document record.
// Format: prefix:documentID
func makeRecordKey(documentID string) []byte {
	return []byte(recordPrefix + ":" + documentID)
}

// makeAmbiguityKey generates a key for a review item. The content ID makes
// identical ambiguities from a rerun collapse onto one key.
// Format: prefix:documentID:contentID
func makeAmbiguityKey(a *core.Ambiguity) []byte {
	id := core.IDFromContent(fmt.Sprintf("%s\x00%s\x00%s\x00%v", a.Field, a.Raw, a.Kind, a.CandidateIDs))
	return []byte(fmt.Sprintf("%s:%s:%016x", ambiguityPrefix, a.DocumentID, uint64(id)))
}

// makeEntityKey generates a key for a canonical entity.
func makeEntityKey(id string) []byte {
	return []byte(entityPrefix + ":" + id)
}

// makeCheckpointKey generates a key for a run's checkpoint.
func makeCheckpointKey(run string) []byte {
	return []byte(fmt.Sprintf("%s:%s", run, checkpointSuffix))
}

func prefixOf(prefix string) []byte {
	return []byte(prefix + ":")
}
