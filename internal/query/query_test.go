package query

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/oritwoen/shaha-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHexRejectsOddLength(t *testing.T) {
	_, err := DecodeHex("abc")
	require.Error(t, err)
	kind, ok := shahaerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, shahaerr.KindBadHexInput, kind)
}

func TestDecodeHexCaseInsensitive(t *testing.T) {
	b1, err := DecodeHex("2CF24DBA")
	require.NoError(t, err)
	b2, err := DecodeHex("2cf24dba")
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestResolveAlgorithmUnknown(t *testing.T) {
	_, err := ResolveAlgorithm("not-real")
	require.Error(t, err)
	kind, ok := shahaerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, shahaerr.KindUnknownAlgorithm, kind)
}

func TestFacadeLocalQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	s := store.Open(path)
	h, _ := hashalgo.Get("sha256")
	rec := record.Record{Hash: h.Hash([]byte("hello")), Preimage: "hello", Algorithm: record.SHA256, Sources: []string{"w"}}
	require.NoError(t, s.WriteBatch([]record.Record{rec}))
	require.NoError(t, s.Finish())

	f := NewLocal(path)
	got, err := f.Query(context.Background(), "2cf24dba", "", -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Preimage)
}
