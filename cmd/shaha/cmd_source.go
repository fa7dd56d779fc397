package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func newSourceCommand() *cli.Command {
	return &cli.Command{
		Name:  "source",
		Usage: "validate a source spec and print its resolved name and content fingerprint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "source kind: file|stdin|http|dir|command"},
		},
		Action: runSource,
	}
}

func runSource(c *cli.Context) error {
	src, err := resolveSource(c)
	if err != nil {
		return err
	}
	fmt.Printf("name:               %s\n", src.Name())
	fmt.Printf("content fingerprint: %s\n", src.ContentHash())
	return nil
}
