// Package bloomfilter implements the probabilistic membership filter
// over the hash column (spec.md §4.2): a fixed-false-positive-rate
// set that the query path probes before touching row groups.
//
// Grounded on bucketteer's Writer/Reader split (prefix-bucketed
// exact-match file format) generalized from its ad-hoc uint64 XOR
// digest to a real keyed bloom filter: two independent siphash keys
// (each a 128-bit seed, matching spec.md's "two 128-bit seeds")
// combined via Kirsch-Mitzenmacher double hashing to derive as many
// hash functions as the target false-positive rate needs.
package bloomfilter

import (
	"crypto/rand"
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

func cryptoRandRead(b []byte) (int, error) { return rand.Read(b) }

// DefaultFPRate is the target false-positive rate used when a caller
// doesn't override it (spec.md §4.2).
const DefaultFPRate = 0.01

// MinExpectedItems floors the bit budget for small databases so a
// tiny artifact doesn't get a false-positive rate that degrades badly
// the moment it's appended to (spec.md §4.2).
const MinExpectedItems = 1_000_000

// Filter is a keyed bloom filter serializable as (bitmap, item count,
// two 128-bit seeds).
type Filter struct {
	bits      []byte
	numBits   uint64
	numHashes uint
	items     uint64
	seed0     [2]uint64
	seed1     [2]uint64
}

// New constructs a filter sized for expectedItems at targetFPRate. If
// targetFPRate <= 0, DefaultFPRate is used. expectedItems is floored
// at MinExpectedItems.
func New(expectedItems uint64, targetFPRate float64) *Filter {
	return NewSeeded(expectedItems, targetFPRate, randomSeedPair(), randomSeedPair())
}

// NewSeeded is New with caller-supplied seeds, used by Deserialize to
// reconstruct a functionally identical filter and by tests that need
// determinism.
func NewSeeded(expectedItems uint64, targetFPRate float64, seed0, seed1 [2]uint64) *Filter {
	if targetFPRate <= 0 {
		targetFPRate = DefaultFPRate
	}
	n := expectedItems
	if n < MinExpectedItems {
		n = MinExpectedItems
	}

	numBits := optimalNumBits(n, targetFPRate)
	numHashes := optimalNumHashes(numBits, n)

	return &Filter{
		bits:      make([]byte, (numBits+7)/8),
		numBits:   numBits,
		numHashes: numHashes,
		seed0:     seed0,
		seed1:     seed1,
	}
}

// optimalNumBits rounds up to a whole number of bytes so that
// Deserialize, which only sees the bitmap, recovers the same bit count.
func optimalNumBits(n uint64, p float64) uint64 {
	m := -float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)
	if m < 8 {
		m = 8
	}
	return (uint64(math.Ceil(m)) + 7) / 8 * 8
}

func optimalNumHashes(numBits, n uint64) uint {
	if n == 0 {
		return 1
	}
	k := float64(numBits) / float64(n) * math.Ln2
	if k < 1 {
		k = 1
	}
	return uint(math.Round(k))
}

func randomSeedPair() [2]uint64 {
	// Deterministic per-process randomness is not required here: the
	// seeds are persisted when the store finishes and reloaded by
	// Deserialize, so two filters never need to agree out of band.
	var b [16]byte
	_, _ = cryptoRandRead(b[:])
	return [2]uint64{binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])}
}

func (f *Filter) hashes(b []byte) (uint64, uint64) {
	h1 := siphash.Hash(f.seed0[0], f.seed0[1], b)
	h2 := siphash.Hash(f.seed1[0], f.seed1[1], b)
	return h1, h2
}

// Insert adds b to the filter.
func (f *Filter) Insert(b []byte) {
	h1, h2 := f.hashes(b)
	for i := uint(0); i < f.numHashes; i++ {
		bit := (h1 + uint64(i)*h2) % f.numBits
		f.bits[bit/8] |= 1 << (bit % 8)
	}
	f.items++
}

// Probe reports whether b is maybe present (true) or definitely
// absent (false).
func (f *Filter) Probe(b []byte) bool {
	h1, h2 := f.hashes(b)
	for i := uint(0); i < f.numHashes; i++ {
		bit := (h1 + uint64(i)*h2) % f.numBits
		if f.bits[bit/8]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// Items returns the number of inserted elements.
func (f *Filter) Items() uint64 { return f.items }

// Bitmap returns the raw bitmap bytes (for serialization).
func (f *Filter) Bitmap() []byte { return f.bits }

// Seeds returns the two 128-bit seeds as (hi, lo) pairs, matching the
// "shaha:bloom_keys" wire format: k0hi,k0lo,k1hi,k1lo.
func (f *Filter) Seeds() (seed0, seed1 [2]uint64) { return f.seed0, f.seed1 }

// Deserialize reconstructs a filter functionally identical to the one
// that produced bitmap/items/seeds.
func Deserialize(bitmap []byte, items uint64, seed0, seed1 [2]uint64) *Filter {
	numBits := uint64(len(bitmap)) * 8
	// Apply the same MinExpectedItems floor used at construction time
	// so numHashes (derived, not stored) matches what Insert used when
	// the bitmap was built — otherwise a reopened filter could probe
	// with a different hash-function count and introduce false
	// negatives, violating P3.
	numHashes := optimalNumHashes(numBits, maxU64(items, MinExpectedItems))
	return &Filter{
		bits:      bitmap,
		numBits:   numBits,
		numHashes: numHashes,
		items:     items,
		seed0:     seed0,
		seed1:     seed1,
	}
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
