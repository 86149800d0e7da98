package statements

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// Argument is passed by reference if Variable is set, by value otherwise.
type Argument struct {
	Variable *runtime.Variable
	Value    Expr
}

// Call enters a SUB. Parameters are bound for the duration of the call and
// by-reference arguments receive the parameter's final value on return.
type Call struct {
	runtime.Node
	ChunkIndex int
	Params     []runtime.Variable
	Args       []Argument
	// Saved and unset for the duration of the call.
	Locals []runtime.Variable
}

func (_ *Call) Keyword() string { return "CALL" }

func (self *Call) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if len(self.Args) != len(self.Params) {
		return nil, self.Raise(errors.IllegalFunctionCall)
	}

	// Arguments are evaluated before any parameter is bound, as they may
	// refer to the caller's copy of a parameter during recursion.
	arguments := make([]values.Value, len(self.Args))
	for i, arg := range self.Args {
		var v values.Value
		if arg.Variable != nil {
			v = runtime.ReadOrZero(ctx.Memory, *arg.Variable)
		} else {
			var err error
			if v, err = evaluate(ctx, &self.Node, arg.Value); err != nil {
				return nil, err
			}
		}

		if kind := self.Params[i].Kind; kind != values.RecordValueKind {
			v = values.Cast(v, kind)
		} else if v.Kind() != values.RecordValueKind {
			v = values.TypeMismatch
		}
		if err, isErr := v.(values.ValueError); isErr {
			return nil, self.RaiseValue(err)
		}
		arguments[i] = v
	}

	bindings := make([]runtime.Binding, 0, len(self.Params)+len(self.Locals))
	for i, param := range self.Params {
		saved, _ := ctx.Memory.Read(param)
		bindings = append(bindings, runtime.Binding{
			Parameter: param,
			Argument:  self.Args[i].Variable,
			Saved:     saved,
			Value:     arguments[i],
		})
	}
	for _, local := range self.Locals {
		saved, _ := ctx.Memory.Read(local)
		bindings = append(bindings, runtime.Binding{Parameter: local, Saved: saved})
	}

	return runtime.CallSignal{
		ChunkIndex: self.ChunkIndex,
		Bindings:   bindings,
	}, nil
}

// EndSub returns from a SUB. It also stands in for EXIT SUB.
type EndSub struct {
	runtime.Node
}

func (_ *EndSub) Keyword() string { return "END SUB" }

func (_ *EndSub) Execute(_ *runtime.Context) (runtime.Signal, error) {
	return runtime.ReturnSignal{From: runtime.CallFrameKind}, nil
}
