package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/retro-basic/qbvm/qbvm/image"
)

func checkAction(c *cli.Context) error {
	filename := c.Args().Get(0)

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	img, err := image.Decode(file, filename)
	if err != nil {
		return reportLoadError(c, err)
	}

	program, err := image.Link(img, filename)
	if err != nil {
		return reportLoadError(c, err)
	}

	if c.Bool("listing") {
		if img.Source == "" {
			fmt.Println("(the image carries no listing)")
		} else {
			fmt.Print(img.Source)
		}
	}

	if c.Bool("dump") {
		for idx, statement := range program.Statements {
			node := statement.Base()
			fmt.Printf("%05d %5d %-14s -> %d\n", idx, node.Line, statement.Keyword(), node.TargetIndex)
		}
		spew.Dump(program.Chunks)
	}

	fmt.Printf("%s: %d statements, %d SUBs, %d DATA items\n", filename, len(program.Statements), len(program.Chunks), len(program.Data))
	return nil
}
