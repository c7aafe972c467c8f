package artifact

import (
	"encoding/binary"

	"github.com/poiesic/papervec/core"
)

// Key prefix for document vectors
const sectionVectorPrefix = "secvec:"

// makeSectionVectorKey generates a key for a section's document vector.
// Format: prefix:id, id in BigEndian order so iteration follows ascending ids.
func makeSectionVectorKey(id core.ID) []byte {
	buf := make([]byte, len(sectionVectorPrefix)+8)
	offset := copy(buf, sectionVectorPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// parseSectionVectorKey extracts the section id from a vector key.
func parseSectionVectorKey(key []byte) (core.ID, bool) {
	if len(key) != len(sectionVectorPrefix)+8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(sectionVectorPrefix):])), true
}
