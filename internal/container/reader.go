package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/parquet-go/parquet-go"
)

// readBatchSize bounds how many rows Reader pulls into memory at once
// while scanning selected row groups.
const readBatchSize = 4096

// Reader exposes file metadata, per-row-group hash column statistics,
// and an iterator over selected row groups' rows.
type Reader struct {
	file *os.File
	pf   *parquet.File
}

// ErrNotExist is returned by OpenReader when path does not exist, so
// callers can distinguish "empty result" from "corrupt file" (spec.md
// §4.4.3).
var ErrNotExist = errors.New("container: file does not exist")

// OpenReader opens path for reading. Returns ErrNotExist (wrapped) if
// the file is absent, or a CorruptArtifact error if it exists but
// can't be parsed as a valid container.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, shahaerr.New(shahaerr.KindCorruptArtifact, path, err)
	}
	if err := validateSchema(pf); err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{file: f, pf: pf}, nil
}

func validateSchema(pf *parquet.File) error {
	sch := pf.Schema()
	want := []string{"hash", "preimage", "algorithm", "sources"}
	for _, name := range want {
		if sch.ChildByName(name) == nil {
			return shahaerr.New(shahaerr.KindCorruptArtifact, "missing column "+name, nil)
		}
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.file.Close() }

// Metadata returns the file-level key/value metadata map.
func (r *Reader) Metadata() map[string]string {
	out := make(map[string]string)
	for _, kv := range r.pf.Metadata().KeyValueMetadata {
		if kv.Value != nil {
			out[kv.Key] = *kv.Value
		} else {
			out[kv.Key] = ""
		}
	}
	return out
}

// NumRowGroups returns the number of row groups in the file.
func (r *Reader) NumRowGroups() int { return len(r.pf.Metadata().RowGroups) }

// RowGroupNumRows returns the row count of row group i.
func (r *Reader) RowGroupNumRows(i int) int64 {
	return r.pf.Metadata().RowGroups[i].NumRows
}

// RowGroupHashStats returns the min/max of the hash column (column 0)
// for row group i, as recorded in the column chunk's Parquet
// statistics. ok is false if the row group carries no statistics for
// that column, in which case callers must treat the group as a
// pruning candidate (never exclude on missing stats).
func (r *Reader) RowGroupHashStats(i int) (min, max []byte, ok bool) {
	rg := r.pf.Metadata().RowGroups[i]
	if len(rg.Columns) == 0 {
		return nil, nil, false
	}
	stats := rg.Columns[0].MetaData.Statistics
	if stats.MinValue == nil || stats.MaxValue == nil {
		return nil, nil, false
	}
	return stats.MinValue, stats.MaxValue, true
}

// ScanRowGroups streams the rows of the given row group indices, in
// file order, calling visit for each. visit returns keepGoing=false to
// stop the scan early (used to implement `limit`).
func (r *Reader) ScanRowGroups(indices []int, visit func(record.Record) (keepGoing bool, err error)) error {
	if len(indices) == 0 {
		return nil
	}

	offsets := make([]int64, r.NumRowGroups())
	var cum int64
	for i := 0; i < r.NumRowGroups(); i++ {
		offsets[i] = cum
		cum += r.RowGroupNumRows(i)
	}

	gr := parquet.NewGenericReader[row](r.file)
	defer gr.Close()

	buf := make([]row, readBatchSize)
	for _, idx := range indices {
		if err := gr.SeekToRow(offsets[idx]); err != nil {
			return fmt.Errorf("seek to row group %d: %w", idx, err)
		}
		remaining := r.RowGroupNumRows(idx)
		for remaining > 0 {
			n := int64(len(buf))
			if remaining < n {
				n = remaining
			}
			read, err := gr.Read(buf[:n])
			for i := 0; i < read; i++ {
				keepGoing, verr := visit(rowToRecord(buf[i]))
				if verr != nil {
					return verr
				}
				if !keepGoing {
					return nil
				}
			}
			remaining -= int64(read)
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read row group %d: %w", idx, err)
			}
			if read == 0 {
				break
			}
		}
	}
	return nil
}

// ScanAll streams every row in file order. Equivalent to
// ScanRowGroups with every group index, used by for_each_record and
// the stats fallback scan.
func (r *Reader) ScanAll(visit func(record.Record) (keepGoing bool, err error)) error {
	indices := make([]int, r.NumRowGroups())
	for i := range indices {
		indices[i] = i
	}
	return r.ScanRowGroups(indices, visit)
}

func rowToRecord(r row) record.Record {
	return record.Record{
		Hash:      r.Hash,
		Preimage:  r.Preimage,
		Algorithm: record.Algorithm(r.Algorithm),
		Sources:   r.Sources,
	}
}
