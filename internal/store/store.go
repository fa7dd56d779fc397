// Package store binds the record, bloom filter, and columnar
// container packages to a local on-disk artifact (spec.md §4.4):
// batched write, streaming scan, pruned query, and stats. Grounded on
// store/store.go's KV-store-over-files shape (lazy backing file,
// explicit Close/Flush) generalized to the append-only, sort-once
// artifact model this engine requires.
package store

import (
	"bytes"
	"errors"
	"sort"
	"strconv"

	"github.com/oritwoen/shaha-go/internal/bloomfilter"
	"github.com/oritwoen/shaha-go/internal/container"
	"github.com/oritwoen/shaha-go/internal/metrics"
	"github.com/oritwoen/shaha-go/internal/record"
)

// Local is the C4 local store: binds an artifact file on disk.
type Local struct {
	path string

	writer *container.Writer
	bloom  *bloomfilter.Filter

	totalRecords  int64
	reservedItems int
	algorithms    map[string]struct{}
	sources       map[string]struct{}
	sourceHashes  map[string]struct{}

	finished bool
}

// Open returns a store bound to path. No file is touched until the
// first non-empty WriteBatch.
func Open(path string) *Local {
	return &Local{
		path:         path,
		algorithms:   make(map[string]struct{}),
		sources:      make(map[string]struct{}),
		sourceHashes: make(map[string]struct{}),
	}
}

// Reserve tells the store how many records the caller expects to
// write in total, so the bloom filter built on the first WriteBatch
// is sized for the real artifact when it holds more than
// bloomfilter.MinExpectedItems records; smaller counts still get
// bloomfilter.New's built-in floor (spec.md §4.2). Call before the first WriteBatch;
// it has no effect once the writer (and therefore the filter) exists.
func (s *Local) Reserve(n int) {
	if s.writer == nil {
		s.reservedItems = n
	}
}

// WriteBatch appends records to the artifact being built. Empty input
// is a no-op and MUST NOT create a file (spec.md §4.4, P8).
func (s *Local) WriteBatch(records []record.Record) error {
	if len(records) == 0 {
		return nil
	}
	if s.writer == nil {
		w, err := container.OpenWriter(s.path)
		if err != nil {
			return err
		}
		s.writer = w
		s.bloom = bloomfilter.New(uint64(s.reservedItems), bloomfilter.DefaultFPRate)
	}

	for _, r := range records {
		s.totalRecords++
		s.algorithms[string(r.Algorithm)] = struct{}{}
		for _, src := range r.Sources {
			s.sources[src] = struct{}{}
		}
		s.bloom.Insert(r.Hash)
	}

	return s.writer.AppendBatch(records)
}

// AddSourceFingerprint records a content fingerprint to be surfaced
// in the artifact's source_hashes metadata at Finish.
func (s *Local) AddSourceFingerprint(hex string) {
	if hex == "" || hex == "none" {
		return
	}
	s.sourceHashes[hex] = struct{}{}
}

// Finish finalizes the writer, emitting all metadata keys. Idempotent
// after the first call.
func (s *Local) Finish() error {
	if s.finished {
		return nil
	}
	s.finished = true
	if s.writer == nil {
		return nil
	}

	meta := map[string]string{
		container.MetaTotalRecords: formatInt(s.totalRecords),
		container.MetaAlgorithms:   joinSet(s.algorithms),
		container.MetaSources:      joinSet(s.sources),
	}
	sourceHashesJSON, err := encodeSourceHashes(s.sourceHashes)
	if err != nil {
		return err
	}
	meta[container.MetaSourceHashes] = sourceHashesJSON
	for k, v := range encodeBloomMetadata(s.bloom) {
		meta[k] = v
	}

	for k, v := range meta {
		if err := s.writer.SetMetadata(k, v); err != nil {
			return err
		}
	}
	return s.writer.Close()
}

// ForEachRecord streams every record in the existing artifact in file
// order. Used by the build pipeline's append path so the prior
// artifact is never fully materialized in memory.
func (s *Local) ForEachRecord(visit func(record.Record) (bool, error)) error {
	r, err := container.OpenReader(s.path)
	if err != nil {
		if errors.Is(err, container.ErrNotExist) {
			return nil
		}
		return err
	}
	defer r.Close()
	return r.ScanAll(visit)
}

// SourceFingerprints reads only metadata, returning an empty set if
// the file or key is absent.
func (s *Local) SourceFingerprints() (map[string]struct{}, error) {
	r, err := container.OpenReader(s.path)
	if err != nil {
		if errors.Is(err, container.ErrNotExist) {
			return make(map[string]struct{}), nil
		}
		return nil, err
	}
	defer r.Close()
	return decodeSourceHashes(r.Metadata()[container.MetaSourceHashes])
}

// Stats prefers metadata (O(1)); falls back to a full scan when
// metadata is absent. A missing file returns the zero Stats, never an
// error (spec.md §4.4.3).
func (s *Local) Stats() (Stats, error) {
	r, err := container.OpenReader(s.path)
	if err != nil {
		if errors.Is(err, container.ErrNotExist) {
			return Stats{}, nil
		}
		return Stats{}, err
	}
	defer r.Close()

	meta := r.Metadata()
	if total, ok := meta[container.MetaTotalRecords]; ok {
		n, err := parseTotalRecords(total)
		if err != nil {
			return Stats{}, err
		}
		return Stats{
			TotalRecords: n,
			Algorithms:   splitSet(meta[container.MetaAlgorithms]),
			Sources:      splitSet(meta[container.MetaSources]),
		}, nil
	}

	var (
		count      int64
		algorithms = make(map[string]struct{})
		sources    = make(map[string]struct{})
	)
	err = r.ScanAll(func(rec record.Record) (bool, error) {
		count++
		algorithms[string(rec.Algorithm)] = struct{}{}
		for _, src := range rec.Sources {
			sources[src] = struct{}{}
		}
		return true, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalRecords: count,
		Algorithms:   sortedKeys(algorithms),
		Sources:      sortedKeys(sources),
	}, nil
}

// Query implements the pruned read path (spec.md §4.4.1). algorithm
// is nil for "no filter"; limit < 0 means unlimited, limit == 0
// returns no records, matching P9.
func (s *Local) Query(prefix []byte, algorithm *record.Algorithm, limit int) ([]record.Record, error) {
	if limit == 0 {
		return nil, nil
	}

	r, err := container.OpenReader(s.path)
	if err != nil {
		if errors.Is(err, container.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer r.Close()

	if record.FullHashLengths[len(prefix)] {
		if bloom, ok, err := decodeBloomFilter(r.Metadata()); err != nil {
			return nil, err
		} else if ok {
			if !bloom.Probe(prefix) {
				metrics.BloomProbeResult.WithLabelValues("definitely_absent").Inc()
				return nil, nil
			}
			metrics.BloomProbeResult.WithLabelValues("maybe_present").Inc()
		}
	}

	var candidates []int
	for i := 0; i < r.NumRowGroups(); i++ {
		min, max, ok := r.RowGroupHashStats(i)
		if !ok || container.PrefixMightBeInRange(prefix, min, max) {
			candidates = append(candidates, i)
			metrics.RowGroupsScanned.WithLabelValues("scanned").Inc()
		} else {
			metrics.RowGroupsScanned.WithLabelValues("pruned").Inc()
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var out []record.Record
	err = r.ScanRowGroups(candidates, func(rec record.Record) (bool, error) {
		if !bytes.HasPrefix(rec.Hash, prefix) {
			return true, nil
		}
		if algorithm != nil && rec.Algorithm != *algorithm {
			return true, nil
		}
		out = append(out, rec)
		if limit >= 0 && len(out) >= limit {
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
