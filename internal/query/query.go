// Package query implements the C7 query facade: hex-decode the query
// input, dispatch to whichever backend the caller selected, and leave
// formatting to the caller. Grounded on the teacher's thin dispatch in
// multiepoch.go (pick the right per-epoch handler, no other logic).
package query

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/metrics"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/remote"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/oritwoen/shaha-go/internal/store"
)

// DecodeHex decodes a case-insensitive hex string into bytes. Odd
// length or non-hex input fails with BadHexInput (spec.md §4.7).
func DecodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, shahaerr.New(shahaerr.KindBadHexInput, s, err)
	}
	return b, nil
}

// ResolveAlgorithm validates an optional algorithm tag, returning nil
// when tag is empty (no filter).
func ResolveAlgorithm(tag string) (*record.Algorithm, error) {
	if tag == "" {
		return nil, nil
	}
	h, ok := hashalgo.Get(tag)
	if !ok {
		return nil, shahaerr.New(shahaerr.KindUnknownAlgorithm, tag, nil)
	}
	name := h.Name()
	return &name, nil
}

// Facade dispatches to exactly one of a local or remote backend. The
// zero value is invalid; use NewLocal or NewRemote.
type Facade struct {
	local  *store.Local
	remote *remote.Remote
}

// NewLocal returns a facade backed by the local store at path.
func NewLocal(path string) *Facade { return &Facade{local: store.Open(path)} }

// NewRemote returns a facade backed by an already-open remote store.
func NewRemote(r *remote.Remote) *Facade { return &Facade{remote: r} }

// Query decodes hexPrefix, validates algorithmTag, and runs the query
// against whichever backend this facade was built with.
func (f *Facade) Query(ctx context.Context, hexPrefix, algorithmTag string, limit int) ([]record.Record, error) {
	prefix, err := DecodeHex(hexPrefix)
	if err != nil {
		return nil, err
	}
	algo, err := ResolveAlgorithm(algorithmTag)
	if err != nil {
		return nil, err
	}

	backend := "local"
	if f.local == nil {
		backend = "remote"
	}
	started := time.Now()
	defer func() {
		metrics.QueryLatency.WithLabelValues(backend).Observe(time.Since(started).Seconds())
	}()

	if f.local != nil {
		return f.local.Query(prefix, algo, limit)
	}
	return f.remote.Query(ctx, prefix, algo, limit)
}

// Stats returns summary statistics from whichever backend this facade
// was built with.
func (f *Facade) Stats() (store.Stats, error) {
	if f.local != nil {
		return f.local.Stats()
	}
	return f.remote.Stats()
}
