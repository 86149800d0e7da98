package statements

import (
	"math"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// Expr is an already-resolved expression tree.
// Evaluation never fails; invalid results are error values.
type Expr interface {
	Eval(ctx *runtime.Context) values.Value
}

type Literal struct {
	Value values.Value
}

func (self Literal) Eval(_ *runtime.Context) values.Value { return self.Value }

type VarRef struct {
	Variable runtime.Variable
}

func (self VarRef) Eval(ctx *runtime.Context) values.Value {
	return runtime.ReadOrZero(ctx.Memory, self.Variable)
}

// FieldRef reads one field of a record variable.
type FieldRef struct {
	Variable runtime.Variable
	Field    string
}

func (self FieldRef) Eval(ctx *runtime.Context) values.Value {
	record, ok := runtime.ReadOrZero(ctx.Memory, self.Variable).(values.ValueRecord)
	if !ok {
		return values.TypeMismatch
	}
	v, found := record.Field(self.Field)
	if !found {
		return values.TypeMismatch
	}
	return v
}

type BinaryExpr struct {
	Op    values.Operator
	Left  Expr
	Right Expr
}

func (self BinaryExpr) Eval(ctx *runtime.Context) values.Value {
	return values.Binary(self.Op, self.Left.Eval(ctx), self.Right.Eval(ctx))
}

type NegExpr struct {
	Operand Expr
}

func (self NegExpr) Eval(ctx *runtime.Context) values.Value {
	return values.Negate(self.Operand.Eval(ctx))
}

type NotExpr struct {
	Operand Expr
}

func (self NotExpr) Eval(ctx *runtime.Context) values.Value {
	return values.Not(self.Operand.Eval(ctx))
}

// ErlExpr is the ERL intrinsic: the line of the last trapped fault.
type ErlExpr struct{}

func (_ ErlExpr) Eval(ctx *runtime.Context) values.Value {
	return values.Long(float64(ctx.ErrorHandling.Erl()))
}

// ErrExpr is the ERR intrinsic: the code of the last trapped fault.
type ErrExpr struct{}

func (_ ErrExpr) Eval(ctx *runtime.Context) values.Value {
	return values.Integer(float64(ctx.ErrorHandling.Err()))
}

// RndExpr is RND. Without an argument or with a positive one the next
// number is produced, 0 repeats the last one and a negative argument reseeds first.
type RndExpr struct {
	Arg Expr
}

func (self RndExpr) Eval(ctx *runtime.Context) values.Value {
	if self.Arg == nil {
		return values.Single(ctx.Random.Next(true))
	}

	arg := self.Arg.Eval(ctx)
	if values.IsError(arg) {
		return arg
	}
	num, ok := arg.(values.NumericValue)
	if !ok {
		return values.TypeMismatch
	}

	n := num.Number()
	switch {
	case n == 0:
		return values.Single(ctx.Random.Next(false))
	case n < 0:
		ctx.Random.SetSeed(math.Float32bits(float32(n)))
	}
	return values.Single(ctx.Random.Next(true))
}

// evaluate raises a fault at node if expr yields an error value.
func evaluate(ctx *runtime.Context, node *runtime.Node, expr Expr) (values.Value, error) {
	v := expr.Eval(ctx)
	if err, isErr := v.(values.ValueError); isErr {
		return nil, node.RaiseValue(err)
	}
	return v, nil
}

func evaluateNumber(ctx *runtime.Context, node *runtime.Node, expr Expr) (float64, error) {
	v, err := evaluate(ctx, node, expr)
	if err != nil {
		return 0, err
	}
	num, ok := v.(values.NumericValue)
	if !ok {
		return 0, node.Raise(errors.TypeMismatch)
	}
	return num.Number(), nil
}

// evaluateInteger rounds a numeric expression half to even.
func evaluateInteger(ctx *runtime.Context, node *runtime.Node, expr Expr) (int64, error) {
	n, err := evaluateNumber(ctx, node, expr)
	if err != nil {
		return 0, err
	}
	rounded := math.RoundToEven(n)
	if rounded < math.MinInt32 || rounded > math.MaxInt32 {
		return 0, node.Raise(errors.Overflow)
	}
	return int64(rounded), nil
}

func evaluateString(ctx *runtime.Context, node *runtime.Node, expr Expr) (string, error) {
	v, err := evaluate(ctx, node, expr)
	if err != nil {
		return "", err
	}
	str, ok := v.(values.ValueString)
	if !ok {
		return "", node.Raise(errors.TypeMismatch)
	}
	return str.Inner, nil
}

func evaluateTruth(ctx *runtime.Context, node *runtime.Node, expr Expr) (bool, error) {
	v, err := evaluate(ctx, node, expr)
	if err != nil {
		return false, err
	}
	num, ok := v.(values.NumericValue)
	if !ok {
		return false, node.Raise(errors.TypeMismatch)
	}
	return values.IsTruthy(num), nil
}
