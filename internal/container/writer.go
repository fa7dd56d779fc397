package container

import (
	"fmt"
	"os"

	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// Writer streams record batches into a row-group-chunked, ZSTD
// compressed Parquet file and accumulates key/value metadata emitted
// at Close.
type Writer struct {
	path string
	file *os.File
	pw   *parquet.GenericWriter[row]
}

// OpenWriter creates path and returns a streaming writer over it.
// Mirrors open_writer(path, schema) from spec.md §4.3.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	pw := parquet.NewGenericWriter[row](f,
		parquet.Compression(&zstd.Codec{}),
		parquet.MaxRowsPerRowGroup(RowGroupSize),
	)
	return &Writer{path: path, file: f, pw: pw}, nil
}

// AppendBatch writes a batch of records as Parquet rows. Callers that
// want a globally sorted file must pass batches whose hash column is
// already sorted ascending (spec.md §4.3).
func (w *Writer) AppendBatch(records []record.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = row{
			Hash:      r.Hash,
			Preimage:  r.Preimage,
			Algorithm: string(r.Algorithm),
			Sources:   append([]string{}, r.Sources...),
		}
	}
	if _, err := w.pw.Write(rows); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

// SetMetadata accumulates a file-level key/value pair, emitted when
// Close is called.
func (w *Writer) SetMetadata(key, value string) error {
	if err := w.pw.SetKeyValueMetadata(key, value); err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// Close finalizes the Parquet footer and flushes the underlying file.
func (w *Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", w.path, err)
	}
	return w.file.Close()
}
