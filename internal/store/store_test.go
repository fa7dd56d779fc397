package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256Of(t *testing.T, word string) []byte {
	t.Helper()
	h, ok := hashalgo.Get("sha256")
	require.True(t, ok)
	return h.Hash([]byte(word))
}

func TestRoundTripSingleRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	hash := sha256Of(t, "hello")
	rec := record.Record{Hash: hash, Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"wordlist1"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	require.NoError(t, s.Finish())

	got, err := s.Query(hash, nil, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(rec))
}

func TestPrefixMonotonicity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	hash := sha256Of(t, "hello")
	rec := record.Record{Hash: hash, Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"w"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	require.NoError(t, s.Finish())

	for k := 1; k <= len(hash); k++ {
		got, err := s.Query(hash[:k], nil, -1)
		require.NoError(t, err)
		found := false
		for _, r := range got {
			if r.Equal(rec) {
				found = true
			}
		}
		assert.True(t, found, "prefix length %d should still match", k)
	}
}

func TestAlgorithmFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	word := "hello"
	sha, ok := hashalgo.Get("sha256")
	require.True(t, ok)
	md5h, ok := hashalgo.Get("md5")
	require.True(t, ok)

	recs := []record.Record{
		{Hash: sha.Hash([]byte(word)), Preimage: word, Algorithm: record.SHA256, Sources: []string{"w"}},
		{Hash: md5h.Hash([]byte(word)), Preimage: word, Algorithm: record.MD5, Sources: []string{"w"}},
	}
	require.NoError(t, s.WriteBatch(recs))
	require.NoError(t, s.Finish())

	md5Hash := md5h.Hash([]byte(word))
	sha256Algo := record.SHA256
	got, err := s.Query(md5Hash, &sha256Algo, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	md5Algo := record.MD5
	got, err = s.Query(md5Hash, &md5Algo, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, record.MD5, got[0].Algorithm)
}

func TestForEachRecordSortOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	var recs []record.Record
	for _, w := range words {
		recs = append(recs, record.Record{Hash: sha256Of(t, w), Preimage: w, Algorithm: record.SHA256, Sources: []string{"w"}})
	}
	// Container writer does not sort; the store just appends what it's given.
	// This test verifies that records sorted before WriteBatch come back in
	// that same (non-decreasing hash) order, as the build pipeline guarantees.
	sortRecords(recs)
	require.NoError(t, s.WriteBatch(recs))
	require.NoError(t, s.Finish())

	var seen []record.Record
	require.NoError(t, s.ForEachRecord(func(r record.Record) (bool, error) {
		seen = append(seen, r)
		return true, nil
	}))
	require.Len(t, seen, len(recs))
	for i := 1; i < len(seen); i++ {
		assert.LessOrEqual(t, string(seen[i-1].Hash), string(seen[i].Hash))
	}
}

func sortRecords(recs []record.Record) {
	for i := 1; i < len(recs); i++ {
		for j := i; j > 0 && recs[j].Less(recs[j-1]); j-- {
			recs[j], recs[j-1] = recs[j-1], recs[j]
		}
	}
}

func TestEmptyBatchNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	require.NoError(t, s.WriteBatch(nil))
	require.NoError(t, s.Finish())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	words := []string{"alpha", "beta", "gamma"}
	var recs []record.Record
	for _, w := range words {
		recs = append(recs, record.Record{Hash: sha256Of(t, w), Preimage: w, Algorithm: record.SHA256, Sources: []string{"w"}})
	}
	sortRecords(recs)
	require.NoError(t, s.WriteBatch(recs))
	require.NoError(t, s.Finish())

	got, err := s.Query(nil, nil, 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 2)

	got, err = s.Query(nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryMissingFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.parquet")
	s := Open(path)
	got, err := s.Query([]byte{0x01}, nil, -1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStatsMissingFileReturnsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.parquet")
	s := Open(path)
	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
}

func TestDefinitelyAbsentFullHashQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	rec := record.Record{Hash: sha256Of(t, "hello"), Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"w"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	require.NoError(t, s.Finish())

	absent := sha256Of(t, "definitely-not-present-in-this-tiny-fixture")
	got, err := s.Query(absent, nil, -1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSourceFingerprintsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	rec := record.Record{Hash: sha256Of(t, "hello"), Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"w"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	s.AddSourceFingerprint("deadbeef")
	require.NoError(t, s.Finish())

	fps, err := s.SourceFingerprints()
	require.NoError(t, err)
	_, ok := fps["deadbeef"]
	assert.True(t, ok)
}

func TestFinishIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := Open(path)
	rec := record.Record{Hash: sha256Of(t, "hello"), Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"w"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	require.NoError(t, s.Finish())
	require.NoError(t, s.Finish())
}
