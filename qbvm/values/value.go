package values

import "fmt"

type ValueKind uint8

const (
	ErrorValueKind ValueKind = iota
	StringValueKind
	SingleValueKind
	DoubleValueKind
	IntegerValueKind
	LongValueKind
	RecordValueKind
)

func (self ValueKind) String() string {
	switch self {
	case ErrorValueKind:
		return "error"
	case StringValueKind:
		return "string"
	case SingleValueKind:
		return "single"
	case DoubleValueKind:
		return "double"
	case IntegerValueKind:
		return "integer"
	case LongValueKind:
		return "long"
	case RecordValueKind:
		return "record"
	default:
		panic("A new ValueKind was introduced without updating this code")
	}
}

// Sigil returns the type suffix used in variable names, or "" if the kind has none.
func (self ValueKind) Sigil() string {
	switch self {
	case StringValueKind:
		return "$"
	case SingleValueKind:
		return "!"
	case DoubleValueKind:
		return "#"
	case IntegerValueKind:
		return "%"
	case LongValueKind:
		return "&"
	default:
		return ""
	}
}

func (self ValueKind) IsNumeric() bool {
	switch self {
	case SingleValueKind, DoubleValueKind, IntegerValueKind, LongValueKind:
		return true
	default:
		return false
	}
}

// KindOfSigil maps a type suffix to its kind.
func KindOfSigil(sigil string) (ValueKind, error) {
	switch sigil {
	case "$":
		return StringValueKind, nil
	case "!":
		return SingleValueKind, nil
	case "#":
		return DoubleValueKind, nil
	case "%":
		return IntegerValueKind, nil
	case "&":
		return LongValueKind, nil
	}
	return 0, fmt.Errorf("invalid type sigil `%s`", sigil)
}

// Value is immutable: operations produce new values instead of mutating existing ones.
type Value interface {
	Kind() ValueKind
	Display() string
	IsEqual(other Value) bool
}

// NumericValue is implemented by the single, double, integer and long values.
type NumericValue interface {
	Value
	Number() float64
}

func IsError(v Value) bool {
	return v != nil && v.Kind() == ErrorValueKind
}

func IsString(v Value) bool {
	return v != nil && v.Kind() == StringValueKind
}

func IsNumeric(v Value) bool {
	return v != nil && v.Kind().IsNumeric()
}

// ZeroValue returns the value an unwritten variable of the given kind reads as.
func ZeroValue(kind ValueKind) Value {
	switch kind {
	case StringValueKind:
		return NewValueString("")
	case SingleValueKind:
		return Single(0)
	case DoubleValueKind:
		return Double(0)
	case IntegerValueKind:
		return Integer(0)
	case LongValueKind:
		return Long(0)
	case RecordValueKind, ErrorValueKind:
		fallthrough
	default:
	}
	panic(fmt.Sprintf("Kind %s has no zero value", kind))
}
