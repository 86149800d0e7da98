package image

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/statements"
	"github.com/retro-basic/qbvm/qbvm/values"
)

func load(t *testing.T, source string) (*runtime.Program, error) {
	t.Helper()
	return Load(strings.NewReader(source), "test.qbi.yaml")
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Source  string
		Code    errors.Code
		Message string
		Note    string
		Line    uint
	}{
		{
			Name: "unknown kind",
			Source: `
chunks:
  - statements:
      - { kind: prnt }
`,
			Code:    errors.SyntaxError,
			Message: "unknown statement kind `prnt`",
			Note:    "did you mean `print`?",
			Line:    4,
		},
		{
			Name: "undefined line",
			Source: `
chunks:
  - statements:
      - { line: 10, kind: goto, target: 15 }
      - { line: 20, kind: end }
`,
			Code:    errors.LabelNotDefined,
			Message: "Label not defined: 15",
			Note:    "the next line is 20",
			Line:    4,
		},
		{
			Name: "NEXT without FOR",
			Source: `
chunks:
  - statements:
      - { kind: rem, text: loop }
      - { kind: next }
`,
			Code:    errors.NextWithoutFor,
			Message: "NEXT without FOR",
			Line:    5,
		},
		{
			Name: "FOR without NEXT",
			Source: `
chunks:
  - statements:
      - { kind: for, var: I%, from: 1, to: 2 }
`,
			Code:    errors.ForWithoutNext,
			Message: "FOR without NEXT",
			Line:    4,
		},
		{
			Name: "NEXT naming another counter",
			Source: `
chunks:
  - statements:
      - { kind: for, var: I%, from: 1, to: 2 }
      - { kind: next, var: J% }
`,
			Code:    errors.NextWithoutFor,
			Message: "NEXT without FOR",
			Line:    5,
		},
		{
			Name: "LOOP without DO",
			Source: `
chunks:
  - statements:
      - { kind: loop }
`,
			Code:    errors.SyntaxError,
			Message: "LOOP without DO",
			Line:    4,
		},
		{
			Name: "DO closed by NEXT",
			Source: `
chunks:
  - statements:
      - { kind: for, var: I%, from: 1, to: 2 }
      - { kind: do }
      - { kind: next }
`,
			Code:    errors.NextWithoutFor,
			Message: "NEXT without FOR",
			Line:    6,
		},
		{
			Name: "loop crossing a SUB boundary",
			Source: `
chunks:
  - statements:
      - { kind: do }
  - name: inner
    statements:
      - { kind: loop }
`,
			Code:    errors.SyntaxError,
			Message: "DO without LOOP",
			Line:    4,
		},
		{
			Name: "duplicate line",
			Source: `
chunks:
  - statements:
      - { line: 10, kind: rem }
      - { line: 20, kind: rem }
      - { line: 10, kind: rem }
`,
			Code:    errors.SyntaxError,
			Message: "duplicate line 10",
			Line:    6,
		},
		{
			Name: "unknown SUB",
			Source: `
chunks:
  - statements:
      - { kind: call, sub: prnt }
  - name: print
    statements: []
`,
			Code:    errors.LabelNotDefined,
			Message: "SUB `prnt` is not defined",
			Note:    "did you mean `PRINT`?",
			Line:    4,
		},
		{
			Name: "wrong argument count",
			Source: `
chunks:
  - statements:
      - { kind: call, sub: add, args: [1] }
  - name: add
    params: [a, b]
    statements: []
`,
			Code:    errors.IllegalFunctionCall,
			Message: "SUB `ADD` takes 2 argument(s), got 1",
			Line:    4,
		},
		{
			Name: "unknown field",
			Source: `
types:
  - name: point
    fields: [{ name: x, type: integer }]
dim: { p: point }
chunks:
  - statements:
      - { kind: let, var: p, field: y, value: 1 }
`,
			Code:    errors.TypeMismatch,
			Message: "type `POINT` has no field `y`",
			Note:    "did you mean `X`?",
			Line:    8,
		},
		{
			Name: "unknown field type",
			Source: `
types:
  - name: point
    fields: [{ name: x, type: intger }]
chunks:
  - statements: []
`,
			Code:    errors.TypeMismatch,
			Message: "unknown type `intger` of field `x`",
			Note:    "did you mean `INTEGER`?",
			Line:    3,
		},
		{
			Name: "missing field",
			Source: `
chunks:
  - statements:
      - { kind: let, var: a% }
`,
			Code:    errors.SyntaxError,
			Message: "`LET` requires `value`",
			Line:    4,
		},
		{
			Name: "unknown operator",
			Source: `
chunks:
  - statements:
      - { kind: let, var: a%, value: { op: "**", args: [1, 2] } }
`,
			Code:    errors.SyntaxError,
			Message: "unknown operator `**`",
			Line:    4,
		},
		{
			Name: "unknown field in image",
			Source: `
chunks:
  - statement: []
`,
			Code:    errors.SyntaxError,
			Message: "field statement not found in type image.ChunkImage",
			Line:    3,
		},
		{
			Name: "literal out of range",
			Source: `
chunks:
  - statements:
      - { kind: let, var: a%, value: { int: 40000 } }
`,
			Code:    errors.Overflow,
			Message: "Overflow",
			Line:    4,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := load(t, test.Source)
			require.Error(t, err)

			loadErr, ok := err.(*LoadError)
			require.True(t, ok, "expected a *LoadError, got %T: %s", err, err)

			assert.Equal(t, test.Code, loadErr.Code)
			assert.Equal(t, test.Message, loadErr.Message)
			assert.Equal(t, test.Line, loadErr.Span.Start.Line)
			assert.Equal(t, "test.qbi.yaml", loadErr.Span.Filename)
			if test.Note != "" {
				assert.Contains(t, loadErr.Notes, test.Note)
			}
		})
	}
}

func TestLinkResolvesTargets(t *testing.T) {
	program, err := load(t, `
name: loops
chunks:
  - statements:
      - { line: 10, kind: for, var: i, from: 1, to: 3 }
      - { line: 20, kind: do, until: { op: "=", args: [{ var: i }, 2] } }
      - { line: 30, kind: loop }
      - { line: 40, kind: next, var: i }
      - { line: 50, kind: on gosub, value: { var: i }, targets: [10, 40] }
      - { line: 60, kind: restore, target: 60 }
      - { line: 70, kind: data, data: [1, "two"] }
      - { line: 80, kind: restore }
`)
	require.NoError(t, err)
	require.Len(t, program.Statements, 8)

	forLoop := program.Statements[0].(*statements.For)
	assert.Equal(t, 4, forLoop.TargetIndex)
	assert.Equal(t, "I!", forLoop.Counter.Name)
	assert.Equal(t, values.SingleValueKind, forLoop.Counter.Kind)

	next := program.Statements[3].(*statements.Next)
	assert.Equal(t, 1, next.TargetIndex)
	assert.Equal(t, forLoop.End, next.End)
	assert.Equal(t, forLoop.Step, next.Step)

	do := program.Statements[1].(*statements.DoTest)
	assert.Equal(t, 3, do.TargetIndex)
	assert.False(t, do.While)

	loop := program.Statements[2].(*statements.LoopTest)
	assert.Equal(t, 1, loop.TargetIndex)

	dispatch := program.Statements[4].(*statements.BranchIndex)
	assert.True(t, dispatch.Gosub)
	assert.Equal(t, []int{0, 3}, dispatch.Targets)

	assert.Equal(t, 0, program.Statements[5].(*statements.Restore).Pointer)
	assert.Equal(t, 0, program.Statements[7].(*statements.Restore).Pointer)

	assert.Equal(t, []runtime.DataItem{
		{Text: "1"},
		{Text: "two", Quoted: true},
	}, program.Data)
	assert.Equal(t, "loops", program.Name)
	assert.Contains(t, program.Source, "kind: on gosub")
	assert.Empty(t, program.Chunks)
}

func TestLinkRestorePointsPastEarlierData(t *testing.T) {
	program, err := load(t, `
chunks:
  - statements:
      - { line: 10, kind: data, data: [1, 2] }
      - { line: 20, kind: rem }
      - { line: 30, kind: data, data: [3] }
      - { line: 40, kind: restore, target: 20 }
      - { line: 50, kind: restore, target: 40 }
`)
	require.NoError(t, err)

	assert.Equal(t, 2, program.Statements[3].(*statements.Restore).Pointer)
	assert.Equal(t, 3, program.Statements[4].(*statements.Restore).Pointer)
}

func TestLinkSubScopes(t *testing.T) {
	program, err := load(t, `
chunks:
  - statements:
      - { kind: call, sub: work, args: [{ var: total& }, { op: "+", args: [1, 2] }] }
  - name: work
    params: [acc&, n%]
    shared: [limit%]
    statements:
      - { kind: let, var: tmp, value: { var: limit% } }
      - { kind: let, var: acc&, value: { op: "+", args: [{ var: acc& }, { var: tmp }] } }
`)
	require.NoError(t, err)

	// main, synthetic END, two statements and a synthetic END SUB.
	require.Len(t, program.Statements, 5)
	assert.IsType(t, &statements.End{}, program.Statements[1])
	assert.IsType(t, &statements.EndSub{}, program.Statements[4])

	require.Len(t, program.Chunks, 1)
	chunk := program.Chunks[0]
	assert.Equal(t, "WORK", chunk.Name)
	assert.Equal(t, 2, chunk.Start)
	assert.Equal(t, 5, chunk.End)
	assert.Equal(t, []runtime.Variable{
		{Name: "WORK.ACC&", Kind: values.LongValueKind},
		{Name: "WORK.N%", Kind: values.IntegerValueKind},
	}, chunk.Params)

	call := program.Statements[0].(*statements.Call)
	require.Len(t, call.Args, 2)
	require.NotNil(t, call.Args[0].Variable)
	assert.Equal(t, "TOTAL&", call.Args[0].Variable.Name)
	assert.Nil(t, call.Args[1].Variable)
	assert.Equal(t, []runtime.Variable{{Name: "WORK.TMP!", Kind: values.SingleValueKind}}, call.Locals)

	let := program.Statements[2].(*statements.Let)
	assert.Equal(t, statements.VarRef{Variable: runtime.Variable{Name: "LIMIT%", Kind: values.IntegerValueKind}}, let.Value)
}

func TestScalarLiterals(t *testing.T) {
	tests := []struct {
		Name     string
		Value    string
		Expected values.Value
	}{
		{Name: "integer", Value: "12", Expected: values.Integer(12)},
		{Name: "negative integer", Value: "-32768", Expected: values.Integer(-32768)},
		{Name: "long", Value: "70000", Expected: values.Long(70000)},
		{Name: "double", Value: "3000000000", Expected: values.Double(3000000000)},
		{Name: "single", Value: "1.5", Expected: values.Single(1.5)},
		{Name: "double float", Value: "1e300", Expected: values.Double(1e300)},
		{Name: "string", Value: "hello", Expected: values.NewValueString("hello")},
		{Name: "quoted number", Value: `"12"`, Expected: values.NewValueString("12")},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			program, err := load(t, "chunks:\n  - statements:\n      - { kind: print, items: [{ value: "+test.Value+" }] }\n")
			require.NoError(t, err)

			print := program.Statements[0].(*statements.Print)
			require.Len(t, print.Items, 1)
			assert.Equal(t, statements.Literal{Value: test.Expected}, print.Items[0].Value)
		})
	}
}
