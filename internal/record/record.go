// Package record implements the HashRecord tuple: its ordering,
// equality, and the merge rule that combines provenance across a
// build's append cycle. Grounded on the teacher's small value-type
// packages (indexes/offset-and-size.go) for the "plain struct with a
// Bytes/FromBytes pair" shape, generalized to a variable-length,
// multi-field record.
package record

import (
	"bytes"
	"fmt"

	"github.com/oritwoen/shaha-go/internal/shahaerr"
)

// Algorithm is one of the fixed, lowercase canonical hash tags.
type Algorithm string

const (
	MD5       Algorithm = "md5"
	SHA1      Algorithm = "sha1"
	SHA256    Algorithm = "sha256"
	SHA512    Algorithm = "sha512"
	Hash160   Algorithm = "hash160"
	Hash256   Algorithm = "hash256"
	Keccak256 Algorithm = "keccak256"
	Blake3    Algorithm = "blake3"
	Ripemd160 Algorithm = "ripemd160"
)

// Lengths is the digest length in bytes of each Algorithm (spec.md
// §9 open question on Hash160/256). Bloom-filter probes are gated by
// FullHashLengths, not by this map.
var Lengths = map[Algorithm]int{
	MD5:       16,
	SHA1:      20,
	SHA256:    32,
	SHA512:    64,
	Hash160:   20,
	Hash256:   32,
	Keccak256: 32,
	Blake3:    32,
	Ripemd160: 20,
}

// FullHashLengths is the set of byte lengths {16,20,32,64} a bloom
// filter probe is valid for. 20 and 32 are each shared by several
// algorithms, so a length does not in general identify which
// algorithm a query prefix belongs to.
var FullHashLengths = map[int]bool{16: true, 20: true, 32: true, 64: true}

// Record is the HashRecord entity (spec.md §3).
type Record struct {
	Hash      []byte
	Preimage  string
	Algorithm Algorithm
	Sources   []string
}

// Equal reports whether two records have identical contents,
// including Sources order (order is observable per spec.md I3).
func (r Record) Equal(o Record) bool {
	if !bytes.Equal(r.Hash, o.Hash) || r.Preimage != o.Preimage || r.Algorithm != o.Algorithm {
		return false
	}
	if len(r.Sources) != len(o.Sources) {
		return false
	}
	for i := range r.Sources {
		if r.Sources[i] != o.Sources[i] {
			return false
		}
	}
	return true
}

// Less orders records by hash ascending, then algorithm, matching I1.
func (r Record) Less(o Record) bool {
	c := bytes.Compare(r.Hash, o.Hash)
	if c != 0 {
		return c < 0
	}
	return r.Algorithm < o.Algorithm
}

// ValidateSources reports whether sources is non-empty and contains
// no duplicates (I3).
func ValidateSources(sources []string) error {
	if len(sources) == 0 {
		return fmt.Errorf("sources must be non-empty")
	}
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if s == "" {
			return fmt.Errorf("source tag must be non-empty")
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("duplicate source tag %q", s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Merge combines a and b into a record whose Sources is a's list
// followed by any of b's sources not already present, preserving each
// side's original ordering (spec.md §4.1). a and b must agree on
// hash, algorithm and preimage; disagreement on preimage indicates a
// collision and is never silently resolved.
func Merge(a, b Record) (Record, error) {
	if !bytes.Equal(a.Hash, b.Hash) || a.Algorithm != b.Algorithm {
		return Record{}, fmt.Errorf("merge requires matching (hash, algorithm)")
	}
	if a.Preimage != b.Preimage {
		return Record{}, shahaerr.New(shahaerr.KindInconsistentMerge,
			fmt.Sprintf("hash=%x algorithm=%s", a.Hash, a.Algorithm), nil)
	}

	merged := Record{
		Hash:      a.Hash,
		Preimage:  a.Preimage,
		Algorithm: a.Algorithm,
		Sources:   append([]string{}, a.Sources...),
	}
	present := make(map[string]struct{}, len(a.Sources))
	for _, s := range a.Sources {
		present[s] = struct{}{}
	}
	for _, s := range b.Sources {
		if _, ok := present[s]; !ok {
			merged.Sources = append(merged.Sources, s)
			present[s] = struct{}{}
		}
	}
	return merged, nil
}

// Key is the unique (hash, algorithm) identity of a row (I2).
type Key struct {
	Hash      string // string(Hash) so it can key a map
	Algorithm Algorithm
}

func (r Record) Key() Key {
	return Key{Hash: string(r.Hash), Algorithm: r.Algorithm}
}
