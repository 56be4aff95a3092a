// Package plumbing holds the small types shared by every layer of the
// analyzer: the opaque commit identifier, the sentinel errors raised while
// walking a commit graph, and the FIFO frontier queue the walkers use.
package plumbing

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/zeebo/blake3"
)

// HashSize is the width of a commit identifier. The analyzer never
// interprets the bytes of a Hash — only equality and ordering matter — but
// fixing the width lets callers pass 20-byte (SHA-1) or 32-byte (SHA-256 /
// BLAKE3) digests by zero-padding into the same array type.
const HashSize = 32

// Hash is an opaque commit identifier. The analyzer treats it as a plain
// value: comparable, hashable (usable as a map key), orderable for stable
// serialization.
type Hash [HashSize]byte

// ZeroHash is the identifier of no commit.
var ZeroHash Hash

// NewHash decodes a hex string into a Hash, left-padding with zero bytes if
// the input is shorter than HashSize*2 (e.g. a 20-byte SHA-1 hex digest).
// Malformed input decodes to a partially, or entirely, zero Hash.
func NewHash(s string) Hash {
	b, _ := hex.DecodeString(s)
	var h Hash
	if len(b) > HashSize {
		b = b[len(b)-HashSize:]
	}
	copy(h[HashSize-len(b):], b)
	return h
}

// IsZero reports whether h is the zero value.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(trimLeadingZeros(h[:]))
}

// trimLeadingZeros drops leading zero bytes (keeping at least one byte) so a
// 20-byte hash padded into a 32-byte array prints in its shorter hex form.
// Leading zero bytes of the original digest are dropped as well, so such a
// digest prints shorter than its original hex; NewHash still decodes the
// printed form back to the same Hash.
func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	*h = NewHash(string(text))
	return nil
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*h = NewHash(s)
	return nil
}

// SortHashes sorts a slice of Hash in increasing byte order, giving callers
// a canonical serialization of an otherwise-unordered result set (spec §5:
// "any canonical serialization is the caller's responsibility").
func SortHashes(hs []Hash) {
	sort.Slice(hs, func(i, j int) bool {
		return bytes.Compare(hs[i][:], hs[j][:]) < 0
	})
}

// HashContent hashes an arbitrary byte stream with the same digest family
// used for commit identifiers, for callers (e.g. patchid) that need a
// Hash-shaped value derived from content rather than assigned by a VCS.
func HashContent(b []byte) Hash {
	sum := blake3.Sum256(b)
	var h Hash
	copy(h[:], sum[:])
	return h
}
