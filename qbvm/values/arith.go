package values

import "math"

// Binary evaluates a binary operator.
// Invalid results are returned as error values, never raised.
func Binary(op Operator, a, b Value) Value {
	if IsError(a) {
		return a
	}
	if IsError(b) {
		return b
	}

	switch {
	case IsString(a) && IsString(b):
		return stringBinary(op, a.(ValueString), b.(ValueString))
	case IsNumeric(a) && IsNumeric(b):
		return numericBinary(op, a.(NumericValue), b.(NumericValue))
	default:
		return TypeMismatch
	}
}

func stringBinary(op Operator, a, b ValueString) Value {
	if op == AddOperator {
		return NewValueString(a.Inner + b.Inner)
	}
	if op.IsRelational() {
		cmp, _ := Compare(a, b)
		return Boolean(Relation(op, cmp))
	}
	return TypeMismatch
}

func numericBinary(op Operator, a, b NumericValue) Value {
	x, y := a.Number(), b.Number()

	switch op {
	case AddOperator:
		return MostPreciseType(a, b)(x + y)
	case SubOperator:
		return MostPreciseType(a, b)(x - y)
	case MulOperator:
		return MostPreciseType(a, b)(x * y)
	case DivOperator:
		if y == 0 {
			return DivisionByZero
		}
		return MostPreciseFloatType(a, b)(x / y)
	case PowOperator:
		if x == 0 && y < 0 {
			return IllegalFunctionCall
		}
		if x < 0 && y != math.Trunc(y) {
			return IllegalFunctionCall
		}
		return MostPreciseFloatType(a, b)(math.Pow(x, y))
	case IntDivOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			if y == 0 {
				return DivisionByZero
			}
			return wrap(float64(x / y))
		})
	case ModOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			if y == 0 {
				return DivisionByZero
			}
			return wrap(float64(x % y))
		})
	case AndOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			return wrap(float64(x & y))
		})
	case OrOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			return wrap(float64(x | y))
		})
	case XorOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			return wrap(float64(x ^ y))
		})
	case EqvOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			return wrap(float64(^(x ^ y)))
		})
	case ImpOperator:
		return withIntegerCast(a, b, func(x, y int64, wrap Constructor) Value {
			return wrap(float64(^x | y))
		})
	}

	cmp, _ := Compare(a, b)
	return Boolean(Relation(op, cmp))
}

// withIntegerCast rounds both operands to Integer, or to Long if either is wider.
func withIntegerCast(a, b NumericValue, fn func(x, y int64, wrap Constructor) Value) Value {
	kind := IntegerValueKind
	if a.Kind() != IntegerValueKind || b.Kind() != IntegerValueKind {
		kind = LongValueKind
	}
	wrap := ConstructorFor(kind)

	x := wrap(a.Number())
	if IsError(x) {
		return x
	}
	y := wrap(b.Number())
	if IsError(y) {
		return y
	}

	return fn(
		int64(x.(NumericValue).Number()),
		int64(y.(NumericValue).Number()),
		wrap,
	)
}

// Relation reports whether a comparison result satisfies a relational operator.
func Relation(op Operator, cmp int) bool {
	switch op {
	case EqOperator:
		return cmp == 0
	case NeOperator:
		return cmp != 0
	case LtOperator:
		return cmp < 0
	case LeOperator:
		return cmp <= 0
	case GtOperator:
		return cmp > 0
	case GeOperator:
		return cmp >= 0
	default:
		panic("Not a relational operator: " + op.String())
	}
}

// Negate flips the sign, keeping the operand's type.
func Negate(v Value) Value {
	if IsError(v) {
		return v
	}
	num, ok := v.(NumericValue)
	if !ok {
		return TypeMismatch
	}
	return NumericTypeOf(num)(-num.Number())
}

// Not is the bitwise complement on the integer-cast operand.
func Not(v Value) Value {
	if IsError(v) {
		return v
	}
	num, ok := v.(NumericValue)
	if !ok {
		return TypeMismatch
	}
	wrap := Long
	if num.Kind() == IntegerValueKind {
		wrap = Integer
	}
	cast := wrap(num.Number())
	if IsError(cast) {
		return cast
	}
	return wrap(float64(^int64(cast.(NumericValue).Number())))
}

// Cast converts v into a value of the given kind.
func Cast(v Value, kind ValueKind) Value {
	if IsError(v) {
		return v
	}

	switch {
	case kind == StringValueKind:
		if IsString(v) {
			return v
		}
		return TypeMismatch
	case kind.IsNumeric():
		num, ok := v.(NumericValue)
		if !ok {
			return TypeMismatch
		}
		if num.Kind() == kind {
			return v
		}
		return ConstructorFor(kind)(num.Number())
	case kind == RecordValueKind:
		if v.Kind() == RecordValueKind {
			return v
		}
		return TypeMismatch
	default:
		return TypeMismatch
	}
}
