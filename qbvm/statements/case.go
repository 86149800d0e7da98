package statements

import (
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

type CaseClauseKind uint8

const (
	CaseEqual CaseClauseKind = iota
	CaseRange
	CaseIs
)

// CaseClause is one comma-separated test of a CASE line.
type CaseClause struct {
	Kind CaseClauseKind
	// Used by CaseEqual and CaseIs.
	Value Expr
	// Used by CaseIs.
	Op values.Operator
	// Used by CaseRange.
	Lower Expr
	Upper Expr
}

// Case jumps to TargetIndex, the body of the CASE, if any clause matches.
type Case struct {
	runtime.Node
	Test    Expr
	Clauses []CaseClause
}

func (_ *Case) Keyword() string { return "CASE" }

func (self *Case) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	test, err := evaluate(ctx, &self.Node, self.Test)
	if err != nil {
		return nil, err
	}

	for _, clause := range self.Clauses {
		matched, err := self.match(ctx, test, clause)
		if err != nil {
			return nil, err
		}
		if matched {
			return runtime.GotoSignal{Target: self.TargetIndex}, nil
		}
	}

	return nil, nil
}

func (self *Case) match(ctx *runtime.Context, test values.Value, clause CaseClause) (bool, error) {
	switch clause.Kind {
	case CaseEqual:
		return self.check(ctx, test, values.EqOperator, clause.Value)
	case CaseIs:
		return self.check(ctx, test, clause.Op, clause.Value)
	case CaseRange:
		lower, err := self.check(ctx, test, values.GeOperator, clause.Lower)
		if err != nil || !lower {
			return false, err
		}
		return self.check(ctx, test, values.LeOperator, clause.Upper)
	default:
		panic("A new case clause kind was added without updating this code")
	}
}

// check compares test against the clause operand. Strings and numbers never match each other.
func (self *Case) check(ctx *runtime.Context, test values.Value, op values.Operator, expr Expr) (bool, error) {
	other, err := evaluate(ctx, &self.Node, expr)
	if err != nil {
		return false, err
	}
	cmp, comparable := values.Compare(test, other)
	if !comparable {
		return false, nil
	}
	return values.Relation(op, cmp), nil
}
