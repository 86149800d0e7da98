package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/retro-basic/qbvm/qbvm/diagnostic"
	"github.com/retro-basic/qbvm/qbvm/image"
)

func colored(ctx *cli.Context, file *os.File) bool {
	return !ctx.Bool("no-color") && term.IsTerminal(int(file.Fd()))
}

func newLogger(ctx *cli.Context) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(ctx.String("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("Invalid log level `%s`", ctx.String("log-level"))
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !colored(ctx, os.Stderr),
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

func printDiagnostic(ctx *cli.Context, item diagnostic.Diagnostic, source string) {
	if colored(ctx, os.Stderr) {
		fmt.Fprintln(os.Stderr, item.Display(source))
		return
	}
	fmt.Fprintln(os.Stderr, item.Plain(source))
}

// reportLoadError prints a load error against the image it was found in.
func reportLoadError(ctx *cli.Context, err error) error {
	loadErr, ok := err.(*image.LoadError)
	if !ok {
		return err
	}

	source, readErr := os.ReadFile(loadErr.Span.Filename)
	if readErr != nil {
		source = nil
	}

	printDiagnostic(ctx, diagnostic.FromLoadError(loadErr), string(source))
	return cli.Exit("Could not load program", 1)
}
