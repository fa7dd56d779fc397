package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oritwoen/shaha-go/internal/bloomfilter"
	"github.com/oritwoen/shaha-go/internal/container"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
)

func joinSet(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for s := range set {
		if s == "" {
			continue
		}
		items = append(items, s)
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func encodeSourceHashes(set map[string]struct{}) (string, error) {
	items := make([]string, 0, len(set))
	for s := range set {
		items = append(items, s)
	}
	sort.Strings(items)
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode source_hashes: %w", err)
	}
	return string(b), nil
}

func decodeSourceHashes(s string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if s == "" {
		return out, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, shahaerr.New(shahaerr.KindCorruptArtifact, "source_hashes malformed", err)
	}
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out, nil
}

func encodeBloomMetadata(f *bloomfilter.Filter) map[string]string {
	s0, s1 := f.Seeds()
	return map[string]string{
		container.MetaBloomBitmap: base64.StdEncoding.EncodeToString(f.Bitmap()),
		container.MetaBloomKeys: fmt.Sprintf("%d,%d,%d,%d",
			s0[0], s0[1], s1[0], s1[1]),
		container.MetaBloomItems: strconv.FormatUint(f.Items(), 10),
	}
}

func decodeBloomFilter(meta map[string]string) (*bloomfilter.Filter, bool, error) {
	bitmapEnc, ok := meta[container.MetaBloomBitmap]
	if !ok || bitmapEnc == "" {
		return nil, false, nil
	}
	bitmap, err := base64.StdEncoding.DecodeString(bitmapEnc)
	if err != nil {
		return nil, false, shahaerr.New(shahaerr.KindCorruptArtifact, "bloom_bitmap malformed", err)
	}
	keysRaw := strings.Split(meta[container.MetaBloomKeys], ",")
	if len(keysRaw) != 4 {
		return nil, false, shahaerr.New(shahaerr.KindCorruptArtifact, "bloom_keys malformed", nil)
	}
	var keys [4]uint64
	for i, raw := range keysRaw {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, false, shahaerr.New(shahaerr.KindCorruptArtifact, "bloom_keys malformed", err)
		}
		keys[i] = v
	}
	items, err := strconv.ParseUint(meta[container.MetaBloomItems], 10, 64)
	if err != nil {
		return nil, false, shahaerr.New(shahaerr.KindCorruptArtifact, "bloom_items malformed", err)
	}
	f := bloomfilter.Deserialize(bitmap, items, [2]uint64{keys[0], keys[1]}, [2]uint64{keys[2], keys[3]})
	return f, true, nil
}

func parseTotalRecords(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, shahaerr.New(shahaerr.KindCorruptArtifact, "total_records malformed", err)
	}
	return n, nil
}
