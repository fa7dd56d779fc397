package container

import "bytes"

// PrefixMightBeInRange reports whether some hash starting with prefix
// could fall within [min, max] (the recorded hash-column statistics
// for a row group). An empty prefix always matches. Row groups with
// no statistics must never be passed here — callers treat those as
// always-admit.
//
// A prefix is expanded to the range [prefix, prefix padded with 0xFF]
// before comparing, since any full hash beginning with prefix lies
// somewhere in that range (spec.md §4.4.2).
func PrefixMightBeInRange(prefix, min, max []byte) bool {
	if len(prefix) == 0 {
		return true
	}

	padLen := len(max)
	if len(prefix) > padLen {
		padLen = len(prefix)
	}

	low := make([]byte, len(prefix))
	copy(low, prefix)

	high := make([]byte, padLen)
	copy(high, prefix)
	for i := len(prefix); i < padLen; i++ {
		high[i] = 0xFF
	}

	return bytes.Compare(max, low) >= 0 && bytes.Compare(min, high) <= 0
}
