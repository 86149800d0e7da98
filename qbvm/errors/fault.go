package errors

import (
	goerrors "errors"
	"fmt"
)

// Fault is a positioned runtime error raised by a statement.
// The driver is the only place where faults are intercepted.
type Fault struct {
	Code    Code
	Message string
	Span    Span
}

func (self *Fault) Error() string {
	if self.Span.IsEmpty() {
		return self.Message
	}
	return fmt.Sprintf("%s at %s", self.Message, self.Span)
}

// Raise creates a fault carrying the standard message of the code.
func Raise(code Code, span Span) *Fault {
	return &Fault{
		Code:    code,
		Message: code.String(),
		Span:    span,
	}
}

func NewFault(code Code, message string, span Span) *Fault {
	return &Fault{
		Code:    code,
		Message: message,
		Span:    span,
	}
}

// AsFault unwraps err into a fault if it is (or wraps) one.
func AsFault(err error) (*Fault, bool) {
	var fault *Fault
	if goerrors.As(err, &fault) {
		return fault, true
	}
	return nil, false
}
