package statements

import (
	"fmt"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// LoopVariables names the hidden variables holding a FOR loop's bounds.
// Both FOR and its NEXT must be linked with the same ones.
func LoopVariables(counter runtime.Variable, forIndex int) (end runtime.Variable, step runtime.Variable) {
	end = runtime.Variable{
		Name: fmt.Sprintf("%s.END@%d", counter.Name, forIndex),
		Kind: counter.Kind,
	}
	step = runtime.Variable{
		Name: fmt.Sprintf("%s.STEP@%d", counter.Name, forIndex),
		Kind: counter.Kind,
	}
	return end, step
}

// For initializes the counter and bounds. TargetIndex points past the matching NEXT.
type For struct {
	runtime.Node
	Counter runtime.Variable
	End     runtime.Variable
	Step    runtime.Variable
	From    Expr
	To      Expr
	// nil means STEP 1.
	By Expr
}

func (_ *For) Keyword() string { return "FOR" }

func (self *For) assign(ctx *runtime.Context, variable runtime.Variable, expr Expr) (float64, error) {
	v, err := evaluate(ctx, &self.Node, expr)
	if err != nil {
		return 0, err
	}
	v = values.Cast(v, self.Counter.Kind)
	if err, isErr := v.(values.ValueError); isErr {
		return 0, self.RaiseValue(err)
	}
	ctx.Memory.Write(variable, v)
	return v.(values.NumericValue).Number(), nil
}

func (self *For) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if !self.Counter.Kind.IsNumeric() {
		return nil, self.Raise(errors.TypeMismatch)
	}

	start, err := self.assign(ctx, self.Counter, self.From)
	if err != nil {
		return nil, err
	}
	end, err := self.assign(ctx, self.End, self.To)
	if err != nil {
		return nil, err
	}

	increment := 1.0
	if self.By != nil {
		if increment, err = self.assign(ctx, self.Step, self.By); err != nil {
			return nil, err
		}
	} else {
		ctx.Memory.Write(self.Step, nil)
	}

	if end > start && increment < 0 || end < start && increment > 0 {
		return runtime.GotoSignal{Target: self.TargetIndex}, nil
	}
	return nil, nil
}

// Next advances the counter. TargetIndex points to the first statement of the loop body.
type Next struct {
	runtime.Node
	Counter runtime.Variable
	End     runtime.Variable
	Step    runtime.Variable
}

func (_ *Next) Keyword() string { return "NEXT" }

func (self *Next) loop() (runtime.Signal, error) {
	return runtime.GotoSignal{Target: self.TargetIndex}, nil
}

// untouched handles a NEXT reached without its FOR having run, for
// example after jumping into the loop body.
func (self *Next) untouched(ctx *runtime.Context) (runtime.Signal, error) {
	if self.Counter.Kind == values.IntegerValueKind {
		return nil, nil
	}
	v, found := ctx.Memory.Read(self.Counter)
	if !found {
		return self.loop()
	}
	if num, ok := v.(values.NumericValue); ok && !values.IsTruthy(num) {
		return self.loop()
	}
	return nil, nil
}

func (self *Next) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	endValue, touched := ctx.Memory.Read(self.End)
	if !touched {
		return self.untouched(ctx)
	}

	counter, ok := runtime.ReadOrZero(ctx.Memory, self.Counter).(values.NumericValue)
	if !ok {
		return nil, self.Raise(errors.TypeMismatch)
	}
	end, ok := endValue.(values.NumericValue)
	if !ok {
		return nil, self.Raise(errors.TypeMismatch)
	}

	increment := 1.0
	if step, found := ctx.Memory.Read(self.Step); found {
		if num, ok := step.(values.NumericValue); ok {
			increment = num.Number()
		}
	}

	next := counter.Number() + increment
	nextValue := values.NumericTypeOf(counter)(next)
	if err, isErr := nextValue.(values.ValueError); isErr {
		return nil, self.RaiseValue(err)
	}
	ctx.Memory.Write(self.Counter, nextValue)

	switch {
	case increment == 0:
		return self.loop()
	case increment > 0 && next <= end.Number():
		return self.loop()
	case increment < 0 && next >= end.Number():
		return self.loop()
	default:
		return nil, nil
	}
}

// IfTest jumps to TargetIndex when the condition is false.
type IfTest struct {
	runtime.Node
	Cond Expr
}

func (_ *IfTest) Keyword() string { return "IF" }

func (self *IfTest) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	test, err := evaluateTruth(ctx, &self.Node, self.Cond)
	if err != nil {
		return nil, err
	}
	if !test {
		return runtime.GotoSignal{Target: self.TargetIndex}, nil
	}
	return nil, nil
}

// DoTest is DO WHILE / DO UNTIL. It branches out of the loop when the test fails.
type DoTest struct {
	runtime.Node
	While bool
	Cond  Expr
}

func (_ *DoTest) Keyword() string { return "DO" }

func (self *DoTest) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	test, err := evaluateTruth(ctx, &self.Node, self.Cond)
	if err != nil {
		return nil, err
	}
	if self.While != test {
		return runtime.GotoSignal{Target: self.TargetIndex}, nil
	}
	return nil, nil
}

// LoopTest is LOOP WHILE / LOOP UNTIL. It branches back while the test holds.
type LoopTest struct {
	runtime.Node
	While bool
	Cond  Expr
}

func (_ *LoopTest) Keyword() string { return "LOOP" }

func (self *LoopTest) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	test, err := evaluateTruth(ctx, &self.Node, self.Cond)
	if err != nil {
		return nil, err
	}
	if self.While == test {
		return runtime.GotoSignal{Target: self.TargetIndex}, nil
	}
	return nil, nil
}
