package runtime

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
)

// ErrorHandling is the ON ERROR GOTO / RESUME state machine.
// It is either unhandled (no handler active) or handling (Active is set).
type ErrorHandling struct {
	Active        bool
	HasHandler    bool
	HandlerTarget int
	// Span of the statement which installed the handler.
	HandlerSpan errors.Span
	// The most recently trapped fault. Kept after RESUME so ERR/ERL stay readable.
	Error      *errors.Fault
	ErrorLine  int
	FaultIndex int
}

func NewErrorHandling() *ErrorHandling {
	self := &ErrorHandling{}
	self.Reset()
	return self
}

func (self *ErrorHandling) Reset() {
	*self = ErrorHandling{
		HandlerTarget: NoTarget,
		FaultIndex:    NoTarget,
	}
}

// Install arms the handler. Installing again only replaces the target.
func (self *ErrorHandling) Install(target int, span errors.Span) {
	self.HasHandler = true
	self.HandlerTarget = target
	self.HandlerSpan = span
}

// Disarm implements ON ERROR GOTO 0. Inside a handler, the trapped fault is
// raised again at the disarming statement.
func (self *ErrorHandling) Disarm(span errors.Span) error {
	if self.Active && self.Error != nil {
		return errors.NewFault(self.Error.Code, self.Error.Message, span)
	}
	self.HasHandler = false
	self.HandlerTarget = NoTarget
	self.HandlerSpan = errors.Span{}
	return nil
}

// Intercept decides whether a fault raised at pc is trapped.
// If it is, the fault is recorded and the handler's target is returned.
func (self *ErrorHandling) Intercept(fault *errors.Fault, line int, pc int) (target int, handled bool) {
	if !self.HasHandler || self.Active {
		return NoTarget, false
	}

	self.Active = true
	self.Error = fault
	self.ErrorLine = line
	self.FaultIndex = pc

	return self.HandlerTarget, true
}

// Resume leaves the handler and returns where execution continues.
func (self *ErrorHandling) Resume(signal ResumeSignal, span errors.Span) (int, error) {
	if !self.Active {
		return NoTarget, errors.Raise(errors.ResumeWithoutError, span)
	}
	self.Active = false

	switch {
	case signal.HasTarget:
		return signal.Target, nil
	case signal.Next:
		return self.FaultIndex + 1, nil
	default:
		return self.FaultIndex, nil
	}
}

// Erl is the line number of the last trapped fault, 0 if there was none.
func (self *ErrorHandling) Erl() int {
	return self.ErrorLine
}

// Err is the code of the last trapped fault, 0 if there was none.
func (self *ErrorHandling) Err() errors.Code {
	if self.Error == nil {
		return errors.NoError
	}
	return self.Error.Code
}
