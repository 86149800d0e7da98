package runtime

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// NoTarget marks a node without a resolved branch destination.
const NoTarget = -1

// Statement is the unit of execution. Statements are created once by the
// program loader and never mutated afterwards.
type Statement interface {
	Keyword() string
	Base() *Node
	// Execute returns a nil signal to fall through. A non-nil error is a fault.
	Execute(ctx *Context) (Signal, error)
}

// Node carries the linking information shared by every statement.
type Node struct {
	TargetIndex int
	// Destinations of a multi-way branch, selected 1-based.
	Targets []int
	// Source line number, 0 if the statement is unnumbered.
	Line int
	Span errors.Span
}

func NewNode(line int, span errors.Span) Node {
	return Node{
		TargetIndex: NoTarget,
		Line:        line,
		Span:        span,
	}
}

func (self *Node) Base() *Node { return self }

func (self *Node) HasTarget() bool { return self.TargetIndex != NoTarget }

// Raise creates a fault with the standard message of code at this node.
func (self *Node) Raise(code errors.Code) *errors.Fault {
	return errors.Raise(code, self.Span)
}

// RaiseValue turns an error value into a fault at this node.
func (self *Node) RaiseValue(v values.ValueError) *errors.Fault {
	return v.Fault(self.Span)
}

// Position attaches this node's span to a fault which has none.
func (self *Node) Position(err error) error {
	if err == nil {
		return nil
	}
	fault, ok := errors.AsFault(err)
	if !ok || !fault.Span.IsEmpty() {
		return err
	}
	return errors.NewFault(fault.Code, fault.Message, self.Span)
}

// Variable names a storage slot. Names are unique per program after linking.
type Variable struct {
	Name   string
	Kind   values.ValueKind
	Record *values.RecordType
}

// Binding saves a parameter across a CALL. Value is written to the parameter
// once the frame is pushed. On return, the parameter is restored to Saved and
// its final value is copied to Argument if set.
type Binding struct {
	Parameter Variable
	Argument  *Variable
	// nil if the parameter was unset before the call.
	Saved values.Value
	// nil unsets the parameter for the duration of the call.
	Value values.Value
}
