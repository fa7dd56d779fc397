package main

import (
	"fmt"
	"strings"

	"github.com/oritwoen/shaha-go/internal/build"
	"github.com/oritwoen/shaha-go/internal/config"
	"github.com/oritwoen/shaha-go/internal/hashalgo"
	"github.com/oritwoen/shaha-go/internal/remote"
	"github.com/oritwoen/shaha-go/internal/shahaerr"
	"github.com/oritwoen/shaha-go/internal/source"
	"github.com/oritwoen/shaha-go/internal/status"
	"github.com/oritwoen/shaha-go/internal/store"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build or append to a hash database from a word source",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "algo", Usage: "hash algorithm(s) to compute (repeatable)"},
			&cli.StringFlag{Name: "output", Usage: "local artifact path", Value: "shaha.parquet"},
			&cli.StringFlag{Name: "from", Usage: "source kind: file|stdin|http|dir|command"},
			&cli.BoolFlag{Name: "append", Usage: "merge into an existing artifact instead of overwriting"},
			&cli.BoolFlag{Name: "force", Usage: "skip the content-fingerprint early-exit check"},
			&cli.BoolFlag{Name: "remote", Usage: "write to the configured R2/S3-compatible bucket instead of a local file"},
			&cli.BoolFlag{Name: "watch", Usage: "after building, watch a directory source for changes and rebuild on each one (--from dir only)"},
		},
		Action: runBuild,
	}
}

func resolveSource(c *cli.Context) (build.Source, error) {
	spec := c.Args().First()
	switch c.String("from") {
	case "", "file":
		if spec == "" {
			return nil, shahaerr.New(shahaerr.KindEmptyInput, "no source path provided", nil)
		}
		return source.NewFile(spec), nil
	case "stdin":
		return source.NewStdin(), nil
	case "http":
		return source.NewHTTP(spec), nil
	case "dir":
		return source.NewDirectory(spec), nil
	case "command":
		fields := strings.Fields(spec)
		if len(fields) == 0 {
			return nil, shahaerr.New(shahaerr.KindEmptyInput, "no command provided", nil)
		}
		return source.NewCommand(fields[0], fields[1:]...), nil
	default:
		return nil, shahaerr.New(shahaerr.KindSourceUnavailable, c.String("from"), nil)
	}
}

func resolveHashers(algos []string) ([]hashalgo.Hasher, error) {
	if len(algos) == 0 {
		return nil, shahaerr.New(shahaerr.KindEmptyInput, "no algorithms selected", nil)
	}
	out := make([]hashalgo.Hasher, 0, len(algos))
	for _, a := range algos {
		h, ok := hashalgo.Get(a)
		if !ok {
			return nil, shahaerr.New(shahaerr.KindUnknownAlgorithm, a, nil)
		}
		out = append(out, h)
	}
	return out, nil
}

// newBackend opens a fresh backend for one build run. The remote
// backend holds a live connection that must be closed after each run;
// the returned close func is a no-op for the local store.
func newBackend(c *cli.Context) (build.Backend, func() error, error) {
	if !c.Bool("remote") {
		return store.Open(c.String("output")), func() error { return nil }, nil
	}
	file, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.ResolveRemote(file, config.Overrides{Path: c.String("output")})
	if err != nil {
		return nil, nil, err
	}
	r, err := remote.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return r, r.Close, nil
}

func runBuild(c *cli.Context) error {
	src, err := resolveSource(c)
	if err != nil {
		return err
	}
	hashers, err := resolveHashers(c.StringSlice("algo"))
	if err != nil {
		return err
	}

	reporter := status.New(c.Bool("quiet"))
	defer reporter.Close()

	runOnce := func(doAppend bool) (build.Result, error) {
		backend, closeBackend, err := newBackend(c)
		if err != nil {
			return build.Result{}, err
		}
		defer closeBackend()
		return build.Run(build.Params{
			Source:  src,
			Hashers: hashers,
			Backend: backend,
			Append:  doAppend,
			Force:   c.Bool("force"),
			Status:  reporter,
		})
	}

	res, err := runOnce(c.Bool("append"))
	if err != nil {
		return err
	}
	if res.SkippedByFingerprint {
		fmt.Println("skipped: source already built into this artifact")
	} else {
		fmt.Printf("wrote %d records\n", res.RecordsWritten)
	}

	if !c.Bool("watch") {
		return nil
	}
	dir, ok := src.(*source.Directory)
	if !ok {
		return shahaerr.New(shahaerr.KindSourceUnavailable, "--watch requires --from dir", nil)
	}

	klog.Infof("watching %s for changes (ctrl-c to stop)", dir.Name())
	return dir.WatchForChanges(c.Context.Done(), func() {
		klog.Infof("rebuilding %s after directory change", dir.Name())
		res, err := runOnce(true)
		if err != nil {
			klog.Errorf("rebuild %s: %v", dir.Name(), err)
			return
		}
		if res.SkippedByFingerprint {
			klog.Info("rebuild skipped: source unchanged")
			return
		}
		klog.Infof("rebuild wrote %d records", res.RecordsWritten)
	})
}
