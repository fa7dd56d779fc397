package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/oritwoen/shaha-go/internal/config"
	"github.com/oritwoen/shaha-go/internal/query"
	"github.com/oritwoen/shaha-go/internal/record"
	"github.com/oritwoen/shaha-go/internal/remote"
	"github.com/urfave/cli/v2"
)

func newQueryCommand() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "look up a hash or byte prefix",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "artifact", Usage: "local artifact path", Value: "shaha.parquet"},
			&cli.StringFlag{Name: "algo", Usage: "restrict to one algorithm"},
			&cli.IntFlag{Name: "limit", Usage: "maximum records to return", Value: -1},
			&cli.StringFlag{Name: "format", Usage: "plain|json|table", Value: "plain"},
			&cli.BoolFlag{Name: "remote", Usage: "query the configured R2/S3-compatible bucket"},
		},
		Action: runQuery,
	}
}

func runQuery(c *cli.Context) error {
	hexPrefix := c.Args().First()

	var facade *query.Facade
	if c.Bool("remote") {
		file, err := config.Load()
		if err != nil {
			return err
		}
		cfg, err := config.ResolveRemote(file, config.Overrides{})
		if err != nil {
			return err
		}
		r, err := remote.Open(cfg)
		if err != nil {
			return err
		}
		defer r.Close()
		facade = query.NewRemote(r)
	} else {
		facade = query.NewLocal(c.String("artifact"))
	}

	recs, err := facade.Query(context.Background(), hexPrefix, c.String("algo"), c.Int("limit"))
	if err != nil {
		return err
	}
	return printRecords(recs, c.String("format"))
}

func printRecords(recs []record.Record, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "HASH\tALGORITHM\tPREIMAGE\tSOURCES")
		for _, r := range recs {
			fmt.Fprintf(w, "%x\t%s\t%s\t%v\n", r.Hash, r.Algorithm, r.Preimage, r.Sources)
		}
		return w.Flush()
	default:
		for _, r := range recs {
			fmt.Printf("%x  %-10s %-20s %v\n", r.Hash, r.Algorithm, r.Preimage, r.Sources)
		}
		return nil
	}
}
