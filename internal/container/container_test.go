package container

import (
	"path/filepath"
	"testing"

	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, records []record.Record, meta map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.parquet")
	w, err := OpenWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.AppendBatch(records))
	for k, v := range meta {
		require.NoError(t, w.SetMetadata(k, v))
	}
	require.NoError(t, w.Close())
	return path
}

func TestWriteReadRoundTrip(t *testing.T) {
	records := []record.Record{
		{Hash: []byte{0x00, 0x01}, Preimage: "a", Algorithm: record.SHA256, Sources: []string{"s1"}},
		{Hash: []byte{0x00, 0x02}, Preimage: "b", Algorithm: record.SHA256, Sources: []string{"s1", "s2"}},
		{Hash: []byte{0x01, 0x00}, Preimage: "c", Algorithm: record.MD5, Sources: []string{"s2"}},
	}
	path := writeFixture(t, records, map[string]string{
		MetaTotalRecords: "3",
		MetaAlgorithms:   "sha256,md5",
	})

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	meta := r.Metadata()
	assert.Equal(t, "3", meta[MetaTotalRecords])
	assert.Equal(t, "sha256,md5", meta[MetaAlgorithms])

	var got []record.Record
	err = r.ScanAll(func(rec record.Record) (bool, error) {
		got = append(got, rec)
		return true, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, rec := range got {
		assert.Equal(t, records[i].Preimage, rec.Preimage)
		assert.Equal(t, records[i].Algorithm, rec.Algorithm)
		assert.Equal(t, records[i].Sources, rec.Sources)
		assert.Equal(t, records[i].Hash, rec.Hash)
	}
}

func TestScanEarlyExit(t *testing.T) {
	records := []record.Record{
		{Hash: []byte{0x00}, Preimage: "a", Algorithm: record.MD5, Sources: []string{"s"}},
		{Hash: []byte{0x01}, Preimage: "b", Algorithm: record.MD5, Sources: []string{"s"}},
		{Hash: []byte{0x02}, Preimage: "c", Algorithm: record.MD5, Sources: []string{"s"}},
	}
	path := writeFixture(t, records, nil)

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	var visited int
	err = r.ScanAll(func(record.Record) (bool, error) {
		visited++
		return visited < 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, visited)
}

func TestOpenReaderMissingFile(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "does-not-exist.parquet"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestPrefixMightBeInRange(t *testing.T) {
	min := []byte{0x10, 0x00}
	max := []byte{0x20, 0x00}

	assert.True(t, PrefixMightBeInRange(nil, min, max))
	assert.True(t, PrefixMightBeInRange([]byte{0x15}, min, max))
	assert.True(t, PrefixMightBeInRange([]byte{0x10}, min, max))
	assert.True(t, PrefixMightBeInRange([]byte{0x20}, min, max))
	assert.False(t, PrefixMightBeInRange([]byte{0x30}, min, max))
	assert.False(t, PrefixMightBeInRange([]byte{0x00}, min, max))
}
