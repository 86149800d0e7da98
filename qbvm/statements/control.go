package statements

import (
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

// End terminates the program.
type End struct {
	runtime.Node
}

func (_ *End) Keyword() string { return "END" }

func (_ *End) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.HaltSignal{}, nil
}

// System leaves the interpreter. The driver treats it like END.
type System struct {
	runtime.Node
}

func (_ *System) Keyword() string { return "SYSTEM" }

func (_ *System) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.HaltSignal{}, nil
}

type Stop struct {
	runtime.Node
}

func (_ *Stop) Keyword() string { return "STOP" }

func (_ *Stop) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.StopSignal{}, nil
}

type Clear struct {
	runtime.Node
}

func (_ *Clear) Keyword() string { return "CLEAR" }

func (_ *Clear) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.ClearSignal{}, nil
}

// Run restarts the program, or names another program to load.
type Run struct {
	runtime.Node
	// nil restarts the current program.
	Program Expr
}

func (_ *Run) Keyword() string { return "RUN" }

func (self *Run) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if self.Program == nil {
		return runtime.RunSignal{}, nil
	}
	name, err := evaluateString(ctx, &self.Node, self.Program)
	if err != nil {
		return nil, err
	}
	return runtime.RunSignal{Program: name}, nil
}

// NoOp stands in for REM and for statements which only matter to the loader.
type NoOp struct {
	runtime.Node
	Text string
}

func (_ *NoOp) Keyword() string { return "REM" }

func (_ *NoOp) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return nil, nil
}
