package source

import (
	"os"

	"github.com/oritwoen/shaha-go/internal/build"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
)

// File reads words from a path on disk, one per line.
type File struct {
	path string
}

// NewFile returns a source reading path.
func NewFile(path string) *File { return &File{path: path} }

func (f *File) Name() string { return f.path }

func (f *File) Words() (build.WordIterator, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable, f.path, err)
	}
	return newLineIterator(file, file), nil
}

func (f *File) ContentHash() string {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return "none"
	}
	return fingerprint(raw)
}

// Stdin reads words from the process's standard input. Its content
// cannot be meaningfully re-hashed (it's a one-shot stream), so
// ContentHash always returns "none" (spec.md §6).
type Stdin struct{}

func NewStdin() *Stdin { return &Stdin{} }

func (s *Stdin) Name() string { return "stdin" }

func (s *Stdin) Words() (build.WordIterator, error) {
	return newLineIterator(os.Stdin, nil), nil
}

func (s *Stdin) ContentHash() string { return "none" }
