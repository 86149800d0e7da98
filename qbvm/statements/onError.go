package statements

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

// OnErrorGoto installs the handler at TargetIndex, or removes it if Disable is set.
type OnErrorGoto struct {
	runtime.Node
	Disable bool
}

func (_ *OnErrorGoto) Keyword() string { return "ON ERROR GOTO" }

func (self *OnErrorGoto) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if self.Disable {
		return nil, ctx.ErrorHandling.Disarm(self.Span)
	}
	ctx.ErrorHandling.Install(self.TargetIndex, self.Span)
	return nil, nil
}

// Resume leaves the error handler. If the node has a target, execution
// continues there.
type Resume struct {
	runtime.Node
	Next bool
}

func (self *Resume) Keyword() string {
	if self.Next {
		return "RESUME NEXT"
	}
	return "RESUME"
}

func (self *Resume) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.ResumeSignal{
		Target:    self.TargetIndex,
		HasTarget: self.HasTarget(),
		Next:      self.Next,
	}, nil
}

// Error is the ERROR statement, raising a fault with a program-chosen code.
type Error struct {
	runtime.Node
	Code Expr
}

func (_ *Error) Keyword() string { return "ERROR" }

func (self *Error) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	n, err := evaluateInteger(ctx, &self.Node, self.Code)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > 255 {
		return nil, self.Raise(errors.IllegalFunctionCall)
	}
	return nil, self.Raise(errors.Code(n))
}
