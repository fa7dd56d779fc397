package build

import (
	"path/filepath"
	"testing"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceIterator struct {
	words []string
	pos   int
}

func (it *sliceIterator) Next() (string, bool, error) {
	if it.pos >= len(it.words) {
		return "", false, nil
	}
	w := it.words[it.pos]
	it.pos++
	return w, true, nil
}

func (it *sliceIterator) Close() error { return nil }

type sliceSource struct {
	name        string
	words       []string
	contentHash string
}

func (s *sliceSource) Name() string { return s.name }
func (s *sliceSource) Words() (WordIterator, error) {
	return &sliceIterator{words: s.words}, nil
}
func (s *sliceSource) ContentHash() string {
	if s.contentHash == "" {
		return "none"
	}
	return s.contentHash
}

func hashersFor(t *testing.T, names ...string) []hashalgo.Hasher {
	t.Helper()
	out := make([]hashalgo.Hasher, 0, len(names))
	for _, n := range names {
		h, ok := hashalgo.Get(n)
		require.True(t, ok, n)
		out = append(out, h)
	}
	return out
}

func TestBuildTwoWordsSingleAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	backend := store.Open(path)
	src := &sliceSource{name: "wordlist1", words: []string{"hello", "world"}, contentHash: "fp1"}

	res, err := Run(Params{Source: src, Hashers: hashersFor(t, "sha256"), Backend: backend})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RecordsWritten)

	h, _ := hashalgo.Get("sha256")
	got, err := backend.Query(h.Hash([]byte("hello")), nil, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Preimage)
}

func TestBuildBlankLinesFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	backend := store.Open(path)
	src := &sliceSource{name: "w", words: []string{"hello", "", "world"}, contentHash: "fp2"}

	res, err := Run(Params{Source: src, Hashers: hashersFor(t, "sha256"), Backend: backend})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RecordsWritten)
}

func TestBuildMultiAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	backend := store.Open(path)
	src := &sliceSource{name: "w", words: []string{"hello"}, contentHash: "fp3"}

	res, err := Run(Params{Source: src, Hashers: hashersFor(t, "sha256", "md5"), Backend: backend})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RecordsWritten)

	md5h, _ := hashalgo.Get("md5")
	sha256Algo := record.SHA256
	got, err := backend.Query(md5h.Hash([]byte("hello")), &sha256Algo, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	md5Algo := record.MD5
	got, err = backend.Query(md5h.Hash([]byte("hello")), &md5Algo, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestBuildAppendMergesSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	backend := store.Open(path)

	first := &sliceSource{name: "wordlist1", words: []string{"hello", "world"}, contentHash: "fp-w1"}
	_, err := Run(Params{Source: first, Hashers: hashersFor(t, "sha256"), Backend: backend})
	require.NoError(t, err)

	backend2 := store.Open(path)
	second := &sliceSource{name: "wordlist2", words: []string{"hello", "test"}, contentHash: "fp-w2"}
	res, err := Run(Params{Source: second, Hashers: hashersFor(t, "sha256"), Backend: backend2, Append: true})
	require.NoError(t, err)
	assert.Equal(t, 3, res.RecordsWritten)

	sha, _ := hashalgo.Get("sha256")
	got, err := backend2.Query(sha.Hash([]byte("hello")), nil, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"wordlist1", "wordlist2"}, got[0].Sources)

	got, err = backend2.Query(sha.Hash([]byte("world")), nil, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"wordlist1"}, got[0].Sources)

	got, err = backend2.Query(sha.Hash([]byte("test")), nil, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"wordlist2"}, got[0].Sources)
}

func TestBuildEarlyExitOnKnownFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.parquet")
	backend := store.Open(path)
	src := &sliceSource{name: "w", words: []string{"hello"}, contentHash: "fp-known"}
	_, err := Run(Params{Source: src, Hashers: hashersFor(t, "sha256"), Backend: backend})
	require.NoError(t, err)

	backend2 := store.Open(path)
	statsBefore, err := backend2.Stats()
	require.NoError(t, err)

	rebuild := store.Open(path)
	res, err := Run(Params{Source: src, Hashers: hashersFor(t, "sha256"), Backend: rebuild})
	require.NoError(t, err)
	assert.True(t, res.SkippedByFingerprint)

	statsAfter, err := backend2.Stats()
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
}

func TestBuildRejectsEmptyHasherSet(t *testing.T) {
	backend := store.Open(filepath.Join(t.TempDir(), "a.parquet"))
	src := &sliceSource{name: "w", words: []string{"hello"}}
	_, err := Run(Params{Source: src, Backend: backend})
	require.Error(t, err)
}
