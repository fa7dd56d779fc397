package record

import (
	"testing"

	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePreservesOrderAndAppendsNovel(t *testing.T) {
	a := Record{Hash: []byte{1}, Preimage: "hello", Algorithm: SHA256, Sources: []string{"wordlist1"}}
	b := Record{Hash: []byte{1}, Preimage: "hello", Algorithm: SHA256, Sources: []string{"wordlist2", "wordlist1"}}

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"wordlist1", "wordlist2"}, merged.Sources)
}

func TestMergeInconsistentPreimage(t *testing.T) {
	a := Record{Hash: []byte{1}, Preimage: "hello", Algorithm: SHA256, Sources: []string{"a"}}
	b := Record{Hash: []byte{1}, Preimage: "world", Algorithm: SHA256, Sources: []string{"b"}}

	_, err := Merge(a, b)
	require.Error(t, err)
	kind, ok := shahaerr.Of(err)
	require.True(t, ok)
	assert.Equal(t, shahaerr.KindInconsistentMerge, kind)
}

func TestMergeRequiresMatchingKey(t *testing.T) {
	a := Record{Hash: []byte{1}, Algorithm: SHA256, Preimage: "x", Sources: []string{"a"}}
	b := Record{Hash: []byte{2}, Algorithm: SHA256, Preimage: "x", Sources: []string{"a"}}
	_, err := Merge(a, b)
	require.Error(t, err)
}

func TestValidateSources(t *testing.T) {
	require.NoError(t, ValidateSources([]string{"a", "b"}))
	require.Error(t, ValidateSources(nil))
	require.Error(t, ValidateSources([]string{"a", "a"}))
	require.Error(t, ValidateSources([]string{""}))
}

func TestLess(t *testing.T) {
	a := Record{Hash: []byte{1, 0}, Algorithm: MD5}
	b := Record{Hash: []byte{1, 1}, Algorithm: MD5}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
