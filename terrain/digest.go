package terrain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Digest returns a stable content hash of the terrain's shape and fuel
// layout, used by the replay format to detect a replay recorded against a
// different terrain than the one it's being checked against. crypto/sha256
// is stdlib rather than an ecosystem hashing library because no example
// repo in the corpus imports one for this kind of one-shot content digest;
// every pack repo that hashes anything (config checksums, cache keys) also
// reaches for crypto/sha256 or crypto/fnv-equivalent stdlib hashing.
func (t *Terrain) Digest() string {
	h := sha256.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(t.nx))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(t.ny))
	h.Write(buf[:])

	for _, e := range t.elevations {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(e))
		h.Write(buf[:])
	}
	if len(t.fuelCodes) > 0 {
		h.Write(t.fuelCodes)
	}
	return hex.EncodeToString(h.Sum(nil))
}
