// Package remote implements the C5 remote store: the same
// {write_batch, finish, query, stats} contract as internal/store, but
// backed by an embedded analytical SQL engine reading/writing the
// columnar container over an S3-style object protocol (spec.md
// §4.5). Grounded on the teacher's split-car-fetcher (remote,
// HTTP-range-backed reads of a content-addressed store) generalized
// to a DuckDB-fronted S3 bucket, since the teacher never embeds a SQL
// engine itself.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/oritwoen/shaha-go/internal/store"

	_ "github.com/marcboeker/go-duckdb"
)

// Config resolves the S3-compatible endpoint and credentials this
// store writes/reads through (spec.md §6, "Configuration").
type Config struct {
	Endpoint        string // HTTPS URL; scheme is stripped before use
	Region          string // defaults to "auto"
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Path            string // object key within Bucket
}

func (c Config) s3URL() string {
	return fmt.Sprintf("s3://%s/%s", c.Bucket, strings.TrimPrefix(c.Path, "/"))
}

func (c Config) endpointHost() string {
	e := c.Endpoint
	e = strings.TrimPrefix(e, "https://")
	e = strings.TrimPrefix(e, "http://")
	return e
}

// Remote is the C5 store: buffers writes in memory and performs a
// single bulk COPY on Finish; queries push predicates down to
// read_parquet over the object store.
type Remote struct {
	cfg Config
	db  *sql.DB

	pending       []record.Record
	sourceHashes  map[string]struct{}
	finished      bool
}

// Open starts an embedded DuckDB connection configured for cfg's
// S3-compatible endpoint via the httpfs extension.
func Open(cfg Config) (*Remote, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, shahaerr.New(shahaerr.KindRemoteIOError, "open embedded engine", err)
	}
	setup := []string{
		"INSTALL httpfs",
		"LOAD httpfs",
		fmt.Sprintf("SET s3_region='%s'", sqlEscape(cfg.Region)),
		fmt.Sprintf("SET s3_endpoint='%s'", sqlEscape(cfg.endpointHost())),
		fmt.Sprintf("SET s3_access_key_id='%s'", sqlEscape(cfg.AccessKeyID)),
		fmt.Sprintf("SET s3_secret_access_key='%s'", sqlEscape(cfg.SecretAccessKey)),
		"SET s3_url_style='path'",
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, shahaerr.New(shahaerr.KindRemoteIOError, "configure httpfs", err)
		}
	}
	return &Remote{cfg: cfg, db: db, sourceHashes: make(map[string]struct{})}, nil
}

func sqlEscape(s string) string { return strings.ReplaceAll(s, "'", "''") }

// Close releases the embedded engine connection.
func (r *Remote) Close() error { return r.db.Close() }

// Reserve is a no-op: the remote store builds no bloom filter (spec.md
// §4.5, "remote omits bloom filter/row-group pruning"), so it has no
// sizing decision to make ahead of time.
func (r *Remote) Reserve(n int) {}

// WriteBatch buffers records in memory. The store MUST NOT write
// anything remote when no records were ever buffered.
func (r *Remote) WriteBatch(records []record.Record) error {
	if len(records) == 0 {
		return nil
	}
	r.pending = append(r.pending, records...)
	return nil
}

// AddSourceFingerprint records a fingerprint surfaced at Finish.
func (r *Remote) AddSourceFingerprint(hex string) {
	if hex == "" || hex == "none" {
		return
	}
	r.sourceHashes[hex] = struct{}{}
}

// Finish performs the single bulk COPY ... TO 's3://...' (FORMAT
// PARQUET, COMPRESSION ZSTD) when any records were buffered.
// Idempotent after the first call.
func (r *Remote) Finish() error {
	if r.finished {
		return nil
	}
	r.finished = true
	if len(r.pending) == 0 {
		return nil
	}

	if _, err := r.db.Exec(`CREATE TEMP TABLE pending_records (
		hash BLOB, preimage VARCHAR, algorithm VARCHAR, sources VARCHAR[]
	)`); err != nil {
		return shahaerr.New(shahaerr.KindRemoteIOError, "create staging table", err)
	}

	stmt, err := r.db.Prepare(`INSERT INTO pending_records VALUES (?, ?, ?, ?)`)
	if err != nil {
		return shahaerr.New(shahaerr.KindRemoteIOError, "prepare insert", err)
	}
	defer stmt.Close()

	for _, rec := range r.pending {
		if _, err := stmt.Exec(rec.Hash, rec.Preimage, string(rec.Algorithm), sourcesArray(rec.Sources)); err != nil {
			return shahaerr.New(shahaerr.KindRemoteIOError, "insert pending record", err)
		}
	}

	copySQL := fmt.Sprintf(
		`COPY (SELECT * FROM pending_records ORDER BY hash) TO '%s' (FORMAT PARQUET, COMPRESSION ZSTD)`,
		sqlEscape(r.cfg.s3URL()),
	)
	if _, err := r.db.Exec(copySQL); err != nil {
		return shahaerr.New(shahaerr.KindRemoteIOError, "copy to object store", err)
	}
	return nil
}

// sourcesArray renders a Go string slice as a DuckDB list literal
// argument; go-duckdb's driver accepts []string directly for
// VARCHAR[] binds.
func sourcesArray(sources []string) any { return sources }

// Query issues a single SELECT against read_parquet with pushed-down
// predicates. No membership filter or row-group pruning is performed
// here — the embedded engine does its own.
func (r *Remote) Query(ctx context.Context, prefix []byte, algorithm *record.Algorithm, limit int) ([]record.Record, error) {
	if limit == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT hash, preimage, algorithm, sources FROM read_parquet('%s') WHERE 1=1`, sqlEscape(r.cfg.s3URL()))
	var args []any
	if len(prefix) > 0 {
		query += " AND starts_with(hex(hash), ?)"
		// DuckDB's hex() renders uppercase digits.
		args = append(args, fmt.Sprintf("%X", prefix))
	}
	if algorithm != nil {
		query += " AND algorithm = ?"
		args = append(args, string(*algorithm))
	}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "No files found") || strings.Contains(err.Error(), "does not exist") {
			return nil, nil
		}
		return nil, shahaerr.New(shahaerr.KindRemoteIOError, "query", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var (
			hash      []byte
			preimage  string
			algo      string
			sourceArr []string
		)
		if err := rows.Scan(&hash, &preimage, &algo, &sourceArr); err != nil {
			return nil, shahaerr.New(shahaerr.KindRemoteIOError, "scan row", err)
		}
		out = append(out, record.Record{
			Hash:      hash,
			Preimage:  preimage,
			Algorithm: record.Algorithm(algo),
			Sources:   sourceArr,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, shahaerr.New(shahaerr.KindRemoteIOError, "iterate rows", err)
	}
	return out, nil
}

// ForEachRecord streams every record from the object (used by the
// build pipeline's append path against an existing remote artifact).
func (r *Remote) ForEachRecord(visit func(record.Record) (bool, error)) error {
	recs, err := r.Query(context.Background(), nil, nil, -1)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		keepGoing, err := visit(rec)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

// SourceFingerprints is not persisted as file metadata by the remote
// store (Parquet key/value metadata is not exposed through
// read_parquet); this store only tracks fingerprints added during the
// current process's Finish call.
func (r *Remote) SourceFingerprints() (map[string]struct{}, error) {
	return r.sourceHashes, nil
}

// Stats issues a COUNT/DISTINCT aggregate query against the object.
func (r *Remote) Stats() (store.Stats, error) {
	row := r.db.QueryRow(fmt.Sprintf(
		`SELECT count(*), array_agg(DISTINCT algorithm) FROM read_parquet('%s')`,
		sqlEscape(r.cfg.s3URL()),
	))
	var (
		total int64
		algos []string
	)
	if err := row.Scan(&total, &algos); err != nil {
		if strings.Contains(err.Error(), "No files found") || strings.Contains(err.Error(), "does not exist") {
			return store.Stats{}, nil
		}
		return store.Stats{}, shahaerr.New(shahaerr.KindRemoteIOError, "stats query", err)
	}
	return store.Stats{TotalRecords: total, Algorithms: algos}, nil
}
