package values

import (
	"fmt"
	"strings"
)

type Operator uint8

const (
	AddOperator Operator = iota
	SubOperator
	MulOperator
	DivOperator
	IntDivOperator
	ModOperator
	PowOperator
	EqOperator
	NeOperator
	LtOperator
	LeOperator
	GtOperator
	GeOperator
	AndOperator
	OrOperator
	XorOperator
	EqvOperator
	ImpOperator
)

func (self Operator) String() string {
	switch self {
	case AddOperator:
		return "+"
	case SubOperator:
		return "-"
	case MulOperator:
		return "*"
	case DivOperator:
		return "/"
	case IntDivOperator:
		return "\\"
	case ModOperator:
		return "MOD"
	case PowOperator:
		return "^"
	case EqOperator:
		return "="
	case NeOperator:
		return "<>"
	case LtOperator:
		return "<"
	case LeOperator:
		return "<="
	case GtOperator:
		return ">"
	case GeOperator:
		return ">="
	case AndOperator:
		return "AND"
	case OrOperator:
		return "OR"
	case XorOperator:
		return "XOR"
	case EqvOperator:
		return "EQV"
	case ImpOperator:
		return "IMP"
	default:
		panic("A new operator was added without updating this code")
	}
}

// IsRelational reports whether the operator yields a truth value.
func (self Operator) IsRelational() bool {
	switch self {
	case EqOperator, NeOperator, LtOperator, LeOperator, GtOperator, GeOperator:
		return true
	default:
		return false
	}
}

func ParseOperator(text string) (Operator, error) {
	needle := strings.ToUpper(strings.TrimSpace(text))
	for op := AddOperator; op <= ImpOperator; op++ {
		if op.String() == needle {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operator `%s`", text)
}
