package qbvm

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/image"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

// ImageExtension is appended to program names given to RUN.
const ImageExtension = ".qbi.yaml"

// DefaultMaxLoads bounds how many programs may be chained through RUN.
const DefaultMaxLoads = 64

type Options struct {
	Limits runtime.Limits
	// nil disables logging.
	Logger *zerolog.Logger
	// A nil Disk is replaced by a HostDisk rooted at the directory of each program in the chain.
	Devices runtime.Devices
	// Called after STOP. Returning true continues the program.
	OnStop func(vm *runtime.VM) bool
	// 0 means DefaultMaxLoads.
	MaxLoads int
}

// Outcome is the result of the last program which ran.
type Outcome struct {
	runtime.Result
	Program *runtime.Program
}

// ImagePath maps a name given to RUN to an image file next to the current one.
func ImagePath(dir string, name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".yaml") && !strings.HasSuffix(lower, ".yml") {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ImageExtension
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// RunFile loads the image at path and runs it.
// A load error of the first program is returned as error, those of chained programs as a fatal outcome.
func RunFile(ctx context.Context, path string, options Options) (Outcome, error) {
	program, err := image.LoadFile(path)
	if err != nil {
		return Outcome{}, err
	}
	return Run(ctx, program, filepath.Dir(path), options), nil
}

// Run executes program until it ends. Programs named by RUN are loaded relative to dir.
func Run(ctx context.Context, program *runtime.Program, dir string, options Options) Outcome {
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}

	maxLoads := options.MaxLoads
	if maxLoads <= 0 {
		maxLoads = DefaultMaxLoads
	}

	for loads := 0; ; loads++ {
		devices := options.Devices
		if devices.Disk == nil {
			devices.Disk = runtime.HostDisk{Root: dir}
		}

		vm := runtime.NewVM(program, runtime.Options{
			Limits: options.Limits,
			Logger: options.Logger,
			NewContext: func(program *runtime.Program) *runtime.Context {
				return runtime.NewContext(devices, program.Data)
			},
		})

		result := vm.Run(ctx, 0)
		for result.Status == runtime.Stopped && options.OnStop != nil && options.OnStop(vm) {
			result = vm.Continue(ctx)
		}

		// Files are closed whether the chain ends here or continues with the next program.
		if err := vm.Context.Files.CloseAll(); err != nil {
			logger.Warn().Err(err).Str("program", program.Name).Msg("Could not close open files")
		}

		if result.Status != runtime.Load {
			return Outcome{Result: result, Program: program}
		}

		if loads+1 >= maxLoads {
			return Outcome{Result: failed(errors.NewFault(
				errors.OutOfMemory,
				fmt.Sprintf("%s: more than %d programs chained", errors.OutOfMemory, maxLoads),
				spanAt(program, result.PC),
			)), Program: program}
		}

		path := ImagePath(dir, result.Program)
		logger.Debug().Str("path", path).Msg("Loading chained program")

		next, err := image.LoadFile(path)
		if err != nil {
			fault := errors.NewFault(errors.FileNotFound, err.Error(), spanAt(program, result.PC))
			if loadErr, ok := err.(*image.LoadError); ok && loadErr.Code != errors.FileNotFound {
				fault = errors.NewFault(loadErr.Code, loadErr.Error(), spanAt(program, result.PC))
			}
			return Outcome{Result: failed(fault), Program: program}
		}

		program = next
		dir = filepath.Dir(path)
	}
}

func failed(fault *errors.Fault) runtime.Result {
	return runtime.Result{Status: runtime.Fatal, Fault: fault}
}

func spanAt(program *runtime.Program, pc int) errors.Span {
	if pc < 0 || pc >= len(program.Statements) {
		return errors.Span{}
	}
	return program.Statements[pc].Base().Span
}
