// Package hashalgo implements the hash-primitive contract the build
// pipeline consumes (spec.md §6, "Hash-primitive contract"). The
// primitives themselves are out of scope per spec.md §1 — only the
// boundary (a stable name plus a pure bytes->bytes function) matters
// to the engine — but a real implementation needs real digests to be
// runnable, so this package wires them the way
// original_source/src/hasher/mod.rs does.
package hashalgo

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/oritwoen/shaha-go/internal/record"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // deprecated but still the standard Go ripemd160 implementation
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Hasher computes a stable-named digest over arbitrary bytes.
type Hasher interface {
	Name() record.Algorithm
	Hash(input []byte) []byte
}

type digestFunc func([]byte) []byte

type namedHasher struct {
	name record.Algorithm
	fn   digestFunc
}

func (h namedHasher) Name() record.Algorithm { return h.name }
func (h namedHasher) Hash(input []byte) []byte { return h.fn(input) }

func md5Sum(b []byte) []byte    { s := md5.Sum(b); return s[:] }
func sha1Sum(b []byte) []byte   { s := sha1.Sum(b); return s[:] }
func sha256Sum(b []byte) []byte { s := sha256.Sum256(b); return s[:] }
func sha512Sum(b []byte) []byte { s := sha512.Sum512(b); return s[:] }

func ripemd160Sum(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)
}

func keccak256Sum(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}

func blake3Sum(b []byte) []byte {
	sum := blake3.Sum256(b)
	return sum[:]
}

// hash160Sum is RIPEMD160(SHA256(x)), the Bitcoin address derivation.
func hash160Sum(b []byte) []byte {
	sha := sha256Sum(b)
	return ripemd160Sum(sha)
}

// hash256Sum is SHA256(SHA256(x)), Bitcoin block/txid hashing.
func hash256Sum(b []byte) []byte {
	first := sha256Sum(b)
	return sha256Sum(first)
}

// All returns every available hasher, in the canonical order of
// spec.md §3's algorithm set.
func All() []Hasher {
	return []Hasher{
		namedHasher{record.MD5, md5Sum},
		namedHasher{record.SHA1, sha1Sum},
		namedHasher{record.SHA256, sha256Sum},
		namedHasher{record.SHA512, sha512Sum},
		namedHasher{record.Hash160, hash160Sum},
		namedHasher{record.Hash256, hash256Sum},
		namedHasher{record.Keccak256, keccak256Sum},
		namedHasher{record.Blake3, blake3Sum},
		namedHasher{record.Ripemd160, ripemd160Sum},
	}
}

// Get resolves a hasher by its canonical tag, case-insensitively, and
// also accepts the aliases "dsha256", "keccak-256" and "ripemd-160"
// the way original_source/src/hasher/mod.rs does.
func Get(name string) (Hasher, bool) {
	switch strings.ToLower(name) {
	case "md5":
		return namedHasher{record.MD5, md5Sum}, true
	case "sha1":
		return namedHasher{record.SHA1, sha1Sum}, true
	case "sha256":
		return namedHasher{record.SHA256, sha256Sum}, true
	case "sha512":
		return namedHasher{record.SHA512, sha512Sum}, true
	case "hash160":
		return namedHasher{record.Hash160, hash160Sum}, true
	case "hash256", "dsha256":
		return namedHasher{record.Hash256, hash256Sum}, true
	case "keccak256", "keccak-256":
		return namedHasher{record.Keccak256, keccak256Sum}, true
	case "blake3":
		return namedHasher{record.Blake3, blake3Sum}, true
	case "ripemd160", "ripemd-160":
		return namedHasher{record.Ripemd160, ripemd160Sum}, true
	default:
		return nil, false
	}
}

// AvailableNames lists the canonical algorithm tags, for
// argument-validation error messages.
func AvailableNames() []string {
	return []string{"md5", "sha1", "sha256", "sha512", "hash160", "hash256", "keccak256", "blake3", "ripemd160"}
}

// ContentFingerprint returns the BLAKE3 hex digest of raw bytes, used
// for the source content-fingerprint contract (spec.md §6, §4.6 step 1).
func ContentFingerprint(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
