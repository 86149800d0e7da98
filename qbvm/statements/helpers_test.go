package statements

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

func span(line int) errors.Span {
	return errors.Span{
		Start:    errors.Location{Line: uint(line), Column: 1},
		End:      errors.Location{Line: uint(line), Column: 20},
		Filename: "test.bas",
	}
}

func node(line int) runtime.Node {
	return runtime.NewNode(line, span(line))
}

func jump(line int, target int) runtime.Node {
	n := node(line)
	n.TargetIndex = target
	return n
}

func newContext() *runtime.Context {
	return runtime.NewContext(runtime.DefaultDevices(nil), nil)
}

func lit(v values.Value) Expr {
	return Literal{Value: v}
}

func integer(n float64) Expr { return lit(values.Integer(n)) }

func str(s string) Expr { return lit(values.NewValueString(s)) }

func variable(name string, kind values.ValueKind) runtime.Variable {
	return runtime.Variable{Name: name, Kind: kind}
}

func requireFault(t *testing.T, err error, code errors.Code) *errors.Fault {
	t.Helper()
	require.Error(t, err)
	fault, ok := errors.AsFault(err)
	require.True(t, ok, "expected a fault, got %v", err)
	require.Equal(t, code, fault.Code, fault.Message)
	return fault
}
