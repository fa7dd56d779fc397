// Package container implements the columnar file format (spec.md
// §4.3): a Parquet-family layout with a fixed four-column schema,
// ~100k-row row groups compressed with ZSTD, and file-level key/value
// metadata. Grounded on the teacher's sealed-index file pattern
// (bucketteer/write.go, indexes/index-cid-to-offset-and-size.go —
// Writer/Reader pair, header+metadata, Seal/Close lifecycle) but built
// on a real Parquet implementation, github.com/parquet-go/parquet-go,
// since the container must interoperate with the remote store's
// DuckDB `read_parquet`/`COPY ... TO ... (FORMAT PARQUET)` path.
package container

// Row-group target size (spec.md §4.3: "row groups of ~100,000 rows").
const RowGroupSize = 100_000

// Metadata key names. These are part of the wire contract (spec.md
// §6) and MUST be emitted by any compatible writer.
const (
	MetaTotalRecords = "shaha:total_records"
	MetaAlgorithms   = "shaha:algorithms"
	MetaSources      = "shaha:sources"
	MetaSourceHashes = "shaha:source_hashes"
	MetaBloomBitmap  = "shaha:bloom_bitmap"
	MetaBloomKeys    = "shaha:bloom_keys"
	MetaBloomItems   = "shaha:bloom_items"
)

// row is the physical Parquet row shape. Column order is fixed and
// matches spec.md §4.3: hash, preimage, algorithm, sources.
type row struct {
	Hash      []byte   `parquet:"hash"`
	Preimage  string   `parquet:"preimage"`
	Algorithm string   `parquet:"algorithm"`
	Sources   []string `parquet:"sources"`
}
