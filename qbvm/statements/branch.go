package statements

import (
	"math"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

type Goto struct {
	runtime.Node
}

func (_ *Goto) Keyword() string { return "GOTO" }

func (self *Goto) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.GotoSignal{Target: self.TargetIndex}, nil
}

type Gosub struct {
	runtime.Node
}

func (_ *Gosub) Keyword() string { return "GOSUB" }

func (self *Gosub) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.GosubSignal{Target: self.TargetIndex}, nil
}

type Return struct {
	runtime.Node
}

func (_ *Return) Keyword() string { return "RETURN" }

func (_ *Return) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.ReturnSignal{From: runtime.GosubFrameKind}, nil
}

const maxSelector = 255

// BranchIndex is ON <expr> GOTO/GOSUB. The selector picks one of Targets, 1-based.
type BranchIndex struct {
	runtime.Node
	Gosub    bool
	Selector Expr
}

func (self *BranchIndex) Keyword() string {
	if self.Gosub {
		return "ON GOSUB"
	}
	return "ON GOTO"
}

func (self *BranchIndex) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	n, err := evaluateNumber(ctx, &self.Node, self.Selector)
	if err != nil {
		return nil, err
	}

	index := math.RoundToEven(n)
	if index < 0 || index > maxSelector {
		return nil, self.Raise(errors.IllegalFunctionCall)
	}
	if index == 0 || index > float64(len(self.Targets)) {
		return nil, nil
	}

	target := self.Targets[int(index)-1]
	if self.Gosub {
		return runtime.GosubSignal{Target: target}, nil
	}
	return runtime.GotoSignal{Target: target}, nil
}
