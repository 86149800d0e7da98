package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/values"
)

func TestErrorStatement(t *testing.T) {
	type testCase struct {
		Name    string
		Code    Expr
		Fault   errors.Code
		Message string
	}

	tests := []testCase{
		{Name: "Known code", Code: integer(5), Fault: errors.IllegalFunctionCall, Message: "Illegal function call"},
		{Name: "User code", Code: integer(200), Fault: errors.Code(200), Message: "Unprintable error"},
		{Name: "Upper bound", Code: integer(255), Fault: errors.Code(255), Message: "Unprintable error"},
		{Name: "Zero", Code: integer(0), Fault: errors.IllegalFunctionCall, Message: "Illegal function call"},
		{Name: "Too large", Code: lit(values.Long(256)), Fault: errors.IllegalFunctionCall, Message: "Illegal function call"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := (&Error{Node: node(70), Code: test.Code}).Execute(newContext())
			fault := requireFault(t, err, test.Fault)
			assert.Equal(t, test.Message, fault.Message)
			assert.Equal(t, span(70), fault.Span)
		})
	}
}

func TestOnErrorGoto(t *testing.T) {
	ctx := newContext()

	_, err := (&OnErrorGoto{Node: jump(10, 8)}).Execute(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.ErrorHandling.HasHandler)
	assert.Equal(t, 8, ctx.ErrorHandling.HandlerTarget)
	assert.Equal(t, span(10), ctx.ErrorHandling.HandlerSpan)

	_, err = (&OnErrorGoto{Node: node(20), Disable: true}).Execute(ctx)
	require.NoError(t, err)
	assert.False(t, ctx.ErrorHandling.HasHandler)

	ctx.ErrorHandling.Install(8, errors.Span{})
	ctx.ErrorHandling.Intercept(errors.Raise(errors.Overflow, span(5)), 5, 1)

	_, err = (&OnErrorGoto{Node: node(30), Disable: true}).Execute(ctx)
	fault := requireFault(t, err, errors.Overflow)
	assert.Equal(t, span(30), fault.Span)
}
