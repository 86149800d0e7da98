package values

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
)

// ValueError is the sentinel produced instead of an invalid result.
// Call sites decide whether it warrants raising a fault.
type ValueError struct {
	Code    errors.Code
	Message string
}

func (_ ValueError) Kind() ValueKind { return ErrorValueKind }

func (self ValueError) Display() string { return self.Message }

func (self ValueError) IsEqual(other Value) bool {
	if other.Kind() != self.Kind() {
		return false
	}
	return self.Code == other.(ValueError).Code
}

func NewValueError(code errors.Code, message string) ValueError {
	return ValueError{Code: code, Message: message}
}

// Error builds an error value for the code carrying its standard message.
func Error(code errors.Code) ValueError {
	return ValueError{Code: code, Message: code.String()}
}

// Shared sentinels.
var (
	Overflow            = Error(errors.Overflow)
	TypeMismatch        = Error(errors.TypeMismatch)
	IllegalFunctionCall = Error(errors.IllegalFunctionCall)
	DivisionByZero      = Error(errors.DivisionByZero)
)

// Fault turns an error value into a positioned fault.
func (self ValueError) Fault(span errors.Span) *errors.Fault {
	return errors.NewFault(self.Code, self.Message, span)
}
