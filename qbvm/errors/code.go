package errors

import "fmt"

// Code is the numeric error code reported by the ERR intrinsic.
type Code uint8

const (
	NoError                    Code = 0
	NextWithoutFor             Code = 1
	SyntaxError                Code = 2
	ReturnWithoutGosub         Code = 3
	OutOfData                  Code = 4
	IllegalFunctionCall        Code = 5
	Overflow                   Code = 6
	OutOfMemory                Code = 7
	LabelNotDefined            Code = 8
	SubscriptOutOfRange        Code = 9
	DivisionByZero             Code = 11
	TypeMismatch               Code = 13
	CantContinue               Code = 17
	ResumeWithoutError         Code = 20
	ForWithoutNext             Code = 26
	OutOfStackSpace            Code = 28
	FieldOverflow              Code = 50
	InternalError              Code = 51
	BadFileNameOrNumber        Code = 52
	FileNotFound               Code = 53
	BadFileMode                Code = 54
	FileAlreadyOpen            Code = 55
	DeviceIOError              Code = 57
	InputPastEndOfFile         Code = 62
	BadFileName                Code = 64
	AdvancedFeatureUnavailable Code = 73
)

var codeMessages = map[Code]string{
	NextWithoutFor:             "NEXT without FOR",
	SyntaxError:                "Syntax error",
	ReturnWithoutGosub:         "RETURN without GOSUB",
	OutOfData:                  "Out of DATA",
	IllegalFunctionCall:        "Illegal function call",
	Overflow:                   "Overflow",
	OutOfMemory:                "Out of memory",
	LabelNotDefined:            "Label not defined",
	SubscriptOutOfRange:        "Subscript out of range",
	DivisionByZero:             "Division by zero",
	TypeMismatch:               "Type mismatch",
	CantContinue:               "Can't continue",
	ResumeWithoutError:         "RESUME without error",
	ForWithoutNext:             "FOR without NEXT",
	OutOfStackSpace:            "Out of stack space",
	FieldOverflow:              "FIELD overflow",
	InternalError:              "Internal error",
	BadFileNameOrNumber:        "Bad file name or number",
	FileNotFound:               "File not found",
	BadFileMode:                "Bad file mode",
	FileAlreadyOpen:            "File already open",
	DeviceIOError:              "Device I/O error",
	InputPastEndOfFile:         "Input past end of file",
	BadFileName:                "Bad file name",
	AdvancedFeatureUnavailable: "Advanced feature unavailable",
}

// Known reports whether the code has a standard message.
func (self Code) Known() bool {
	_, found := codeMessages[self]
	return found
}

func (self Code) String() string {
	if msg, found := codeMessages[self]; found {
		return msg
	}
	if self == NoError {
		return "No error"
	}
	return "Unprintable error"
}

func (self Code) GoString() string {
	return fmt.Sprintf("errors.Code(%d)", uint8(self))
}
