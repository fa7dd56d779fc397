package source

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/oritwoen/shaha-go/internal/build"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"k8s.io/klog/v2"
)

// Directory reads every regular file directly inside a wordlist
// directory (a "seclists-style" corpus: many flat `*.txt` files,
// concatenated in sorted path order). Grounded on
// original_source/src/source/seclists.rs.
type Directory struct {
	path string
}

// NewDirectory returns a source reading every file in path.
func NewDirectory(path string) *Directory { return &Directory{path: path} }

func (d *Directory) Name() string { return d.path }

func (d *Directory) listFiles() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable, d.path, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(d.path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (d *Directory) concatenate() ([]byte, error) {
	files, err := d.listFiles()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, shahaerr.New(shahaerr.KindSourceUnavailable, f, err)
		}
		buf.Write(raw)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (d *Directory) Words() (build.WordIterator, error) {
	raw, err := d.concatenate()
	if err != nil {
		return nil, err
	}
	return newLineIterator(bytes.NewReader(raw), nil), nil
}

func (d *Directory) ContentHash() string {
	raw, err := d.concatenate()
	if err != nil {
		return "none"
	}
	return fingerprint(raw)
}

// WatchForChanges is a best-effort notifier for a git-managed corpus
// directory: it logs when files are added or removed and invokes
// onChange, so a long-running build loop (cmd/shaha build --watch)
// knows a rebuild may be warranted. It does not decide when or how to
// rebuild itself.
func (d *Directory) WatchForChanges(stop <-chan struct{}, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return shahaerr.New(shahaerr.KindSourceUnavailable, d.path, err)
	}
	defer w.Close()
	if err := w.Add(d.path); err != nil {
		return shahaerr.New(shahaerr.KindSourceUnavailable, d.path, err)
	}
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.Infof("corpus directory %s changed: %s", d.path, ev)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch %s: %v", d.path, err)
		case <-stop:
			return nil
		}
	}
}
