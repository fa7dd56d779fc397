package build

import "github.com/cespare/xxhash/v2"

// seenSet is an exact-equality set of words, bucketed by a fast
// non-cryptographic hash so repeated lookups against a large corpus
// don't pay Go's built-in string hashing twice (once to bucket, once
// to compare) — xxhash buckets, then an exact byte comparison confirms
// membership within the bucket, preserving spec.md §4.6's "exact byte
// equality" dedup rule.
type seenSet struct {
	buckets map[uint64][]string
	count   int
}

func newSeenSet() *seenSet {
	return &seenSet{buckets: make(map[uint64][]string)}
}

// addIfNew reports whether word was not already present, inserting it
// if so.
func (s *seenSet) addIfNew(word string) bool {
	h := xxhash.Sum64String(word)
	bucket := s.buckets[h]
	for _, w := range bucket {
		if w == word {
			return false
		}
	}
	s.buckets[h] = append(bucket, word)
	s.count++
	return true
}
