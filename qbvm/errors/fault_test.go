package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	tests := []struct {
		Name     string
		Code     Code
		Expected string
		Known    bool
	}{
		{Name: "standard", Code: Overflow, Expected: "Overflow", Known: true},
		{Name: "file", Code: BadFileNameOrNumber, Expected: "Bad file name or number", Known: true},
		{Name: "none", Code: NoError, Expected: "No error"},
		{Name: "unassigned", Code: Code(200), Expected: "Unprintable error"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, test.Code.String())
			assert.Equal(t, test.Known, test.Code.Known())
		})
	}
}

func TestFault(t *testing.T) {
	span := Span{
		Start:    Location{Line: 3, Column: 7},
		End:      Location{Line: 3, Column: 9},
		Filename: "prog.qbi.yaml",
	}

	fault := Raise(TypeMismatch, span)
	assert.Equal(t, "Type mismatch at prog.qbi.yaml:3:7", fault.Error())
	assert.Equal(t, "Type mismatch", Raise(TypeMismatch, Span{}).Error())

	wrapped := fmt.Errorf("while printing: %w", fault)
	unwrapped, ok := AsFault(wrapped)
	require.True(t, ok)
	assert.Same(t, fault, unwrapped)

	_, ok = AsFault(fmt.Errorf("plain"))
	assert.False(t, ok)
}
