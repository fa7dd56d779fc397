package build

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/metrics"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/oritwoen/shaha-go/internal/status"
	"github.com/oritwoen/shaha-go/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// BatchThreshold is the nominal dedup-batch size (spec.md §4.6 step 2).
const BatchThreshold = 100_000

// WriteChunkSize bounds how many records are pushed to the backend in
// a single WriteBatch call (spec.md §4.6 step 6).
const WriteChunkSize = 100_000

// Params configures one build invocation.
type Params struct {
	Source  Source
	Hashers []hashalgo.Hasher
	Backend Backend
	Append  bool
	Force   bool
	// Workers bounds the hashing fan-out pool; 0 selects
	// runtime.GOMAXPROCS(0).
	Workers int
	Status  *status.Reporter
}

// Result summarizes a completed (or early-exited) build.
type Result struct {
	SkippedByFingerprint bool
	RecordsWritten       int
}

// Run executes the build pipeline described in spec.md §4.6.
func Run(p Params) (Result, error) {
	started := time.Now()
	defer func() {
		metrics.BuildDuration.WithLabelValues(strconv.FormatBool(p.Append)).Observe(time.Since(started).Seconds())
	}()

	_, span := telemetry.Tracer("shaha/build").Start(context.Background(), "build.Run")
	defer span.End()

	if p.Source == nil {
		return Result{}, shahaerr.New(shahaerr.KindEmptyInput, "no word source provided", nil)
	}
	if len(p.Hashers) == 0 {
		return Result{}, shahaerr.New(shahaerr.KindEmptyInput, "no algorithms selected", nil)
	}

	reporter := p.Status
	if reporter == nil {
		reporter = status.NewQuiet()
	}

	fingerprint := p.Source.ContentHash()

	// Step 1: early-exit check.
	if !p.Append && !p.Force && fingerprint != "" && fingerprint != "none" {
		existing, err := p.Backend.SourceFingerprints()
		if err != nil {
			return Result{}, err
		}
		if _, ok := existing[fingerprint]; ok {
			reporter.Logf("skipping %s: source fingerprint already present", p.Source.Name())
			return Result{SkippedByFingerprint: true}, nil
		}
	}

	words, err := p.Source.Words()
	if err != nil {
		return Result{}, shahaerr.New(shahaerr.KindSourceUnavailable, p.Source.Name(), err)
	}
	defer words.Close()

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	accumulator := make(map[record.Key]record.Record)
	seen := newSeenSet()
	var batch []string

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		recs, err := hashBatch(batch, p.Hashers, p.Source.Name(), workers)
		if err != nil {
			return err
		}
		for _, r := range recs {
			key := r.Key()
			if _, exists := accumulator[key]; !exists {
				accumulator[key] = r
			}
		}
		metrics.WordsProcessed.WithLabelValues(p.Source.Name()).Add(float64(len(batch)))
		reporter.Progress(len(accumulator))
		batch = batch[:0]
		return nil
	}

	for {
		word, ok, err := words.Next()
		if err != nil {
			return Result{}, shahaerr.New(shahaerr.KindSourceUnavailable, p.Source.Name(), err)
		}
		if !ok {
			break
		}
		if word == "" {
			continue
		}
		if seen.addIfNew(word) {
			batch = append(batch, word)
			if len(batch) >= BatchThreshold {
				if err := flush(); err != nil {
					return Result{}, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return Result{}, err
	}

	output := make([]record.Record, 0, len(accumulator))

	// Step 4: append-merge against a prior artifact.
	if p.Append {
		var mergeErr error
		err := p.Backend.ForEachRecord(func(prior record.Record) (bool, error) {
			key := prior.Key()
			if fresh, ok := accumulator[key]; ok {
				merged, err := record.Merge(prior, fresh)
				if err != nil {
					mergeErr = err
					return false, err
				}
				delete(accumulator, key)
				output = append(output, merged)
				return true, nil
			}
			output = append(output, prior)
			return true, nil
		})
		if mergeErr != nil {
			return Result{}, mergeErr
		}
		if err != nil {
			return Result{}, err
		}
	}
	for _, r := range accumulator {
		output = append(output, r)
	}

	// Step 5: sort ascending by hash (ties by algorithm, via Less).
	sort.Slice(output, func(i, j int) bool { return output[i].Less(output[j]) })

	// Step 6: chunked write + finalize. Reserve before the first
	// WriteBatch so the backend sizes any capacity-dependent structure
	// (e.g. the local store's bloom filter) for the real record count.
	p.Backend.Reserve(len(output))
	for start := 0; start < len(output); start += WriteChunkSize {
		end := start + WriteChunkSize
		if end > len(output) {
			end = len(output)
		}
		if err := p.Backend.WriteBatch(output[start:end]); err != nil {
			return Result{}, err
		}
	}
	if fingerprint != "" && fingerprint != "none" {
		p.Backend.AddSourceFingerprint(fingerprint)
	}
	if err := p.Backend.Finish(); err != nil {
		return Result{}, err
	}
	metrics.RecordsWritten.WithLabelValues(p.Source.Name()).Add(float64(len(output)))

	return Result{RecordsWritten: len(output)}, nil
}

// hashBatch computes {(hash, word, algorithm, [sourceName])} for
// every word x hasher combination, fanned out across a bounded
// worker pool (spec.md §4.6 step 3). Hash computation is CPU-bound
// and stateless, so workers share no mutable state; each goroutine
// owns a disjoint slice of the batch.
func hashBatch(words []string, hashers []hashalgo.Hasher, sourceName string, workers int) ([]record.Record, error) {
	out := make([][]record.Record, len(words))
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, word := range words {
		i, word := i, word
		g.Go(func() error {
			recs := make([]record.Record, 0, len(hashers))
			for _, h := range hashers {
				recs = append(recs, record.Record{
					Hash:      h.Hash([]byte(word)),
					Preimage:  word,
					Algorithm: h.Name(),
					Sources:   []string{sourceName},
				})
			}
			out[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hash batch: %w", err)
	}

	total := 0
	for _, r := range out {
		total += len(r)
	}
	flat := make([]record.Record, 0, total)
	for _, r := range out {
		flat = append(flat, r...)
	}
	return flat, nil
}
