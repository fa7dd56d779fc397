package bloomfilter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoFalseNegatives(t *testing.T) {
	f := New(10_000, 0.01)
	items := make([][]byte, 0, 5000)
	for i := 0; i < 5000; i++ {
		b := []byte(fmt.Sprintf("item-%d", i))
		items = append(items, b)
		f.Insert(b)
	}
	for _, it := range items {
		assert.True(t, f.Probe(it), "inserted item must probe maybe_present")
	}
}

func TestDeserializeRoundTrip(t *testing.T) {
	f := New(10_000, 0.01)
	for i := 0; i < 1000; i++ {
		f.Insert([]byte(fmt.Sprintf("x-%d", i)))
	}
	seed0, seed1 := f.Seeds()
	f2 := Deserialize(f.Bitmap(), f.Items(), seed0, seed1)

	for i := 0; i < 1000; i++ {
		b := []byte(fmt.Sprintf("x-%d", i))
		require.Equal(t, f.Probe(b), f2.Probe(b))
		require.True(t, f2.Probe(b))
	}
}

func TestDefinitelyAbsentIsPossible(t *testing.T) {
	f := New(100, 0.001)
	f.Insert([]byte("present"))
	// Not a hard guarantee for an arbitrary value, but with a single
	// item in a filter sized for at least MinExpectedItems and a low
	// fp-rate target this specific value should miss.
	assert.False(t, f.Probe([]byte("definitely-not-in-here-at-all-zzz")))
}
