package store

// Stats summarizes an artifact without requiring a full scan when
// metadata is present (spec.md §4.4, "stats").
type Stats struct {
	TotalRecords int64
	Algorithms   []string
	Sources      []string
}
