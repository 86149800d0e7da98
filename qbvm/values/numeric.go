package values

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	True  = -1
	False = 0
)

// Constructor wraps a raw number into a value of one numeric kind.
type Constructor func(n float64) Value

// Boolean encodes a truth value the legacy way: all bits set for true.
func Boolean(test bool) Value {
	if test {
		return Integer(True)
	}
	return Integer(False)
}

// ConstructorFor returns the constructor of a numeric kind.
func ConstructorFor(kind ValueKind) Constructor {
	switch kind {
	case SingleValueKind:
		return Single
	case DoubleValueKind:
		return Double
	case IntegerValueKind:
		return Integer
	case LongValueKind:
		return Long
	default:
		panic(fmt.Sprintf("Kind %s is not numeric", kind))
	}
}

// NumericTypeOf returns the constructor matching the value's own kind.
// It is used to re-wrap a computed result with the operand's original type.
func NumericTypeOf(v NumericValue) Constructor {
	return ConstructorFor(v.Kind())
}

// rank orders the numeric kinds: Double > Single > Long > Integer.
func rank(kind ValueKind) int {
	switch kind {
	case IntegerValueKind:
		return 1
	case LongValueKind:
		return 2
	case SingleValueKind:
		return 3
	case DoubleValueKind:
		return 4
	default:
		return 0
	}
}

// MostPreciseKind picks the promoted result kind of two numeric kinds.
func MostPreciseKind(a, b ValueKind) ValueKind {
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// MostPreciseType picks the constructor for mixed-type arithmetic.
func MostPreciseType(a, b NumericValue) Constructor {
	return ConstructorFor(MostPreciseKind(a.Kind(), b.Kind()))
}

// MostPreciseFloatType is like MostPreciseType but never yields an integral kind.
func MostPreciseFloatType(a, b NumericValue) Constructor {
	if a.Kind() == DoubleValueKind || b.Kind() == DoubleValueKind {
		return Double
	}
	return Single
}

// IsTruthy reports whether a numeric value is non-zero.
func IsTruthy(v NumericValue) bool {
	return v.Number() != 0
}

func numericEqual(self NumericValue, other Value) bool {
	otherNum, ok := other.(NumericValue)
	if !ok {
		return false
	}
	return self.Number() == otherNum.Number()
}

func formatFloat(n float64, digits int, bitSize int) string {
	out := strings.ToUpper(strconv.FormatFloat(n, 'g', digits, bitSize))
	switch {
	case strings.HasPrefix(out, "0."):
		out = out[1:]
	case strings.HasPrefix(out, "-0."):
		out = "-" + out[2:]
	}
	return out
}
