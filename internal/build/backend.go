package build

import (
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/store"
)

// Backend is the capability set both the local (C4) and remote (C5)
// stores expose (spec.md §9, "polymorphism over stores"). The build
// pipeline depends only on this, never on a concrete store type.
type Backend interface {
	// Reserve tells the backend how many records the caller expects
	// to write in total, so sizing decisions (e.g. the local store's
	// bloom filter, above its minimum size) reflect the real artifact
	// (spec.md §4.2). Must be called before the first
	// WriteBatch to take effect; a no-op backend may ignore it.
	Reserve(n int)
	WriteBatch(records []record.Record) error
	Finish() error
	AddSourceFingerprint(hex string)
	ForEachRecord(visit func(record.Record) (bool, error)) error
	SourceFingerprints() (map[string]struct{}, error)
	Stats() (store.Stats, error)
}
