// Package source implements the concrete word-source contract
// (spec.md §6): file, standard input, HTTP(S), a seclists-style
// wordlist directory, and an external command. Grounded on the
// teacher's readers.go / http-client.go streaming-reader style,
// generalized from CAR byte streams to line-oriented word streams.
package source

import (
	"bufio"
	"io"
	"strings"

	"github.com/oritwoen/shaha-go/internal/hashalgo"
)

// lineIterator adapts a bufio.Scanner into build.WordIterator,
// stripping newlines and skipping empty lines (spec.md §6).
type lineIterator struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

func newLineIterator(r io.Reader, closer io.Closer) *lineIterator {
	return &lineIterator{scanner: bufio.NewScanner(r), closer: closer}
}

func (it *lineIterator) Next() (string, bool, error) {
	for it.scanner.Scan() {
		line := strings.TrimRight(it.scanner.Text(), "\r")
		if line == "" {
			continue
		}
		return line, true, nil
	}
	if err := it.scanner.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

func (it *lineIterator) Close() error {
	if it.closer != nil {
		return it.closer.Close()
	}
	return nil
}

// fingerprint returns the content fingerprint contract value for raw
// bytes: a BLAKE3 hex digest, or "none" if raw is nil (meaning "not
// meaningful to fingerprint").
func fingerprint(raw []byte) string {
	if raw == nil {
		return "none"
	}
	return hashalgo.ContentFingerprint(raw)
}
