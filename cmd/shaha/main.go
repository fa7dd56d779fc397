// Command shaha builds and queries a compact, read-optimized
// hash-reverse-lookup database. Grounded on main.go's app/command
// wiring: a urfave/cli/v2 App, signal-to-context cancellation, and a
// command list sorted by name.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/oritwoen/shaha-go/internal/telemetry"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, "shaha")
	if err != nil {
		klog.Errorf("initialize telemetry: %v", err)
		os.Exit(1)
	}
	defer shutdownTelemetry()

	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "shaha",
		Usage:       "build and query a hash-reverse-lookup database",
		Description: "Builds a compact, read-optimized on-disk database mapping hashes back to their preimages, and queries it by full hash or byte prefix.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "suppress progress output"},
		},
		Commands: []*cli.Command{
			newBuildCommand(),
			newQueryCommand(),
			newInfoCommand(),
			newSourceCommand(),
		},
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Errorf("%v", err)
		os.Exit(1)
	}
}
