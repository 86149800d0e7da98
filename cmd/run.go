package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/retro-basic/qbvm/qbvm"
	"github.com/retro-basic/qbvm/qbvm/diagnostic"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

const promptStop = "CONT/SYSTEM> "

func runAction(c *cli.Context) error {
	filename := c.Args().Get(0)

	logger, err := newLogger(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	options := qbvm.Options{
		Limits:   runtime.Limits{CallStackMaxSize: c.Uint("max-stack")},
		Logger:   &logger,
		Devices:  runtime.DefaultDevices(os.Stdout),
		MaxLoads: c.Int("max-loads"),
	}
	if c.Bool("interactive") {
		options.OnStop = promptContinue
	}

	outcome, err := qbvm.RunFile(ctx, filename, options)
	if err != nil {
		return reportLoadError(c, err)
	}

	if c.Bool("dump") {
		spew.Fdump(os.Stderr, outcome.Result)
	}

	switch outcome.Status {
	case runtime.Halted:
		return nil
	case runtime.Stopped:
		fmt.Fprintf(os.Stderr, "Break in line %d\n", stoppedLine(outcome))
		return nil
	case runtime.Cancelled:
		return cli.Exit("Program cancelled", 130)
	case runtime.Fatal:
		printDiagnostic(c, diagnostic.FromFault(outcome.Fault), outcome.Program.Source)
		if len(outcome.Trace) > 0 {
			fmt.Fprintln(os.Stderr, "Stack trace:")
			fmt.Fprintln(os.Stderr, strings.Join(outcome.Trace, "\n"))
		}
		return cli.Exit("", 1)
	default:
		panic(fmt.Sprintf("Unexpected final status %s", outcome.Status))
	}
}

// stoppedLine is the line of the STOP statement, the one before the stored PC.
func stoppedLine(outcome qbvm.Outcome) int {
	pc := outcome.PC - 1
	if pc < 0 || pc >= len(outcome.Program.Statements) {
		return 0
	}
	return outcome.Program.Statements[pc].Base().Line
}

// promptContinue asks what to do after STOP. VARS dumps the program's memory.
func promptContinue(vm *runtime.VM) bool {
	line := 0
	if pc := vm.PC - 1; pc >= 0 && pc < len(vm.Program.Statements) {
		line = vm.Program.Statements[pc].Base().Line
	}
	fmt.Fprintf(os.Stderr, "Break in line %d\n", line)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for {
		input, err := ln.Prompt(promptStop)
		if err != nil {
			// EOF or Ctrl-C
			fmt.Fprintln(os.Stderr)
			return false
		}
		ln.AppendHistory(input)

		switch strings.ToUpper(strings.TrimSpace(input)) {
		case "CONT":
			return true
		case "SYSTEM":
			return false
		case "VARS":
			spew.Fdump(os.Stderr, vm.Context.Memory)
		case "":
			continue
		default:
			fmt.Fprintln(os.Stderr, "Expected CONT, SYSTEM or VARS")
		}
	}
}
