package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

const programName = "qbvm"
const version = "latest"

func fileValidator(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("Expected exactly one argument <file>")
	}
	return nil
}

func main() {
	// nolint:exhaustruct
	app := &cli.App{
		Name:     programName,
		Usage:    "Execute linked BASIC program images",
		Version:  version,
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "The qbvm Authors",
				Email: "",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Level of the interpreter log written to stderr (trace, debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"QBVM_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output even on a terminal",
				EnvVars: []string{"NO_COLOR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a program image",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:    "max-stack",
						Usage:   "Maximum depth of nested GOSUB and CALL frames",
						Aliases: []string{"s"},
						EnvVars: []string{"QBVM_MAX_STACK"},
					},
					&cli.DurationFlag{
						Name:    "timeout",
						Usage:   "Cancel the program after this duration",
						Aliases: []string{"t"},
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Usage:   "Prompt for CONT or SYSTEM when the program executes STOP",
						Aliases: []string{"i"},
					},
					&cli.IntFlag{
						Name:  "max-loads",
						Usage: "Maximum number of programs chained through RUN",
					},
					&cli.BoolFlag{
						Name:    "dump",
						Usage:   "If set, the final state of the run is printed.",
						Aliases: []string{"d"},
					},
				},
				Before: fileValidator,
				Action: runAction,
			},
			{
				Name:      "check",
				Usage:     "Load and link a program image without running it",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "dump",
						Usage:   "If set, the linked statements are printed.",
						Aliases: []string{"d"},
					},
					&cli.BoolFlag{
						Name:    "listing",
						Usage:   "If set, the BASIC listing stored in the image is printed.",
						Aliases: []string{"l"},
					},
				},
				Before: fileValidator,
				Action: checkAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
