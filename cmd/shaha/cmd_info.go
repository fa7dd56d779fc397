package main

import (
	"fmt"

	"github.com/oritwoen/shaha-go/internal/container"
	"github.com/oritwoen/shaha-go/internal/store"
	"github.com/urfave/cli/v2"
)

func newInfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "print summary statistics for a local artifact",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "artifact", Usage: "local artifact path", Value: "shaha.parquet"},
		},
		Action: runInfo,
	}
}

func runInfo(c *cli.Context) error {
	path := c.String("artifact")
	s := store.Open(path)
	stats, err := s.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("records:    %d\n", stats.TotalRecords)
	fmt.Printf("algorithms: %v\n", stats.Algorithms)
	fmt.Printf("sources:    %v\n", stats.Sources)

	r, err := container.OpenReader(path)
	if err != nil {
		fmt.Println("row groups: 0")
		fmt.Println("bloom filter: absent")
		return nil
	}
	defer r.Close()

	fmt.Printf("row groups: %d\n", r.NumRowGroups())
	if _, ok := r.Metadata()[container.MetaBloomBitmap]; ok {
		fmt.Println("bloom filter: present")
	} else {
		fmt.Println("bloom filter: absent")
	}
	return nil
}
