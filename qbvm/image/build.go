package image

import (
	"fmt"
	"strings"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/statements"
	"github.com/retro-basic/qbvm/qbvm/values"
)

func (self *linker) node(flat flatStatement) runtime.Node {
	return runtime.NewNode(flat.image.Line, self.span(flat.image.Position))
}

// jump builds a node branching to the statement's target line.
func (self *linker) jump(flat flatStatement) (runtime.Node, error) {
	node := self.node(flat)
	if flat.image.Target == nil {
		return node, self.missing(flat, "target")
	}
	target, err := self.target(*flat.image.Target, flat.image.Position)
	if err != nil {
		return node, err
	}
	node.TargetIndex = target
	return node, nil
}

// optionalJump leaves the node without target if none or line 0 is given.
func (self *linker) optionalJump(flat flatStatement) (runtime.Node, error) {
	if flat.image.Target == nil || *flat.image.Target == 0 {
		return self.node(flat), nil
	}
	return self.jump(flat)
}

func (self *linker) build(idx int) (runtime.Statement, error) {
	flat := self.flat[idx]
	img := flat.image

	switch flat.kind {
	case kindLet:
		return self.buildLet(flat)
	case kindPrint:
		return self.buildPrint(flat)
	case kindGoto:
		node, err := self.jump(flat)
		return &statements.Goto{Node: node}, err
	case kindGosub:
		node, err := self.jump(flat)
		return &statements.Gosub{Node: node}, err
	case kindReturn:
		return &statements.Return{Node: self.node(flat)}, nil
	case kindOnGoto, kindOnGosub:
		return self.buildBranchIndex(flat)
	case kindFor:
		return self.buildFor(idx)
	case kindNext:
		return self.buildNext(idx)
	case kindIf:
		node, err := self.jump(flat)
		if err != nil {
			return nil, err
		}
		cond, err := self.required(flat, "cond", img.Cond)
		return &statements.IfTest{Node: node, Cond: cond}, err
	case kindDo:
		node := self.node(flat)
		node.TargetIndex = self.partners[idx] + 1
		while, cond, err := self.loopCondition(flat)
		return &statements.DoTest{Node: node, While: while, Cond: cond}, err
	case kindLoop:
		node := self.node(flat)
		node.TargetIndex = self.partners[idx]
		while, cond, err := self.loopCondition(flat)
		return &statements.LoopTest{Node: node, While: while, Cond: cond}, err
	case kindCase:
		return self.buildCase(flat)
	case kindCall:
		return self.buildCall(flat)
	case kindEndSub, kindExitSub:
		if flat.scope.main {
			return nil, self.fail(errors.SyntaxError, "END SUB outside of a SUB", img.Position)
		}
		return &statements.EndSub{Node: self.node(flat)}, nil
	case kindEnd:
		return &statements.End{Node: self.node(flat)}, nil
	case kindSystem:
		return &statements.System{Node: self.node(flat)}, nil
	case kindStop:
		return &statements.Stop{Node: self.node(flat)}, nil
	case kindClear:
		return &statements.Clear{Node: self.node(flat)}, nil
	case kindRun:
		statement := &statements.Run{Node: self.node(flat)}
		if img.Name != nil {
			program, err := self.expr(img.Name, flat.scope)
			if err != nil {
				return nil, err
			}
			statement.Program = program
		}
		return statement, nil
	case kindOnError:
		node, err := self.optionalJump(flat)
		return &statements.OnErrorGoto{Node: node, Disable: !node.HasTarget()}, err
	case kindResume:
		node, err := self.optionalJump(flat)
		if img.Next && node.HasTarget() {
			return nil, self.fail(errors.SyntaxError, "RESUME NEXT takes no target", img.Position)
		}
		return &statements.Resume{Node: node, Next: img.Next}, err
	case kindError:
		code, err := self.required(flat, "value", img.Value)
		return &statements.Error{Node: self.node(flat), Code: code}, err
	case kindBeep:
		return &statements.Beep{Node: self.node(flat)}, nil
	case kindSound:
		frequency, err := self.required(flat, "frequency", img.Frequency)
		if err != nil {
			return nil, err
		}
		duration, err := self.required(flat, "duration", img.Duration)
		return &statements.Sound{Node: self.node(flat), Frequency: frequency, Duration: duration}, err
	case kindWait:
		return &statements.FrameWait{Node: self.node(flat), Every: img.Every}, nil
	case kindRandomize:
		statement := &statements.Randomize{Node: self.node(flat)}
		if img.Value != nil {
			seed, err := self.expr(img.Value, flat.scope)
			if err != nil {
				return nil, err
			}
			statement.Seed = seed
		}
		return statement, nil
	case kindRestore:
		return self.buildRestore(flat)
	case kindRead:
		return self.buildRead(flat)
	case kindData:
		return &statements.NoOp{Node: self.node(flat), Text: "DATA"}, nil
	case kindOpen:
		return self.buildOpen(flat)
	case kindClose:
		statement := &statements.Close{Node: self.node(flat)}
		for i := range img.Numbers {
			number, err := self.expr(&img.Numbers[i], flat.scope)
			if err != nil {
				return nil, err
			}
			statement.Numbers = append(statement.Numbers, number)
		}
		return statement, nil
	case kindRem:
		return &statements.NoOp{Node: self.node(flat), Text: img.Text}, nil
	default:
		panic("A new statement kind was added without updating this code")
	}
}

func (self *linker) required(flat flatStatement, field string, expr *ExprImage) (statements.Expr, error) {
	if expr == nil {
		return nil, self.missing(flat, field)
	}
	return self.expr(expr, flat.scope)
}

// loopCondition returns an always-true WHILE test if neither `while` nor `until` is set.
func (self *linker) loopCondition(flat flatStatement) (bool, statements.Expr, error) {
	switch {
	case flat.image.While != nil && flat.image.Until != nil:
		return false, nil, self.fail(errors.SyntaxError, "only one of `while` and `until` may be given", flat.image.Position)
	case flat.image.While != nil:
		cond, err := self.expr(flat.image.While, flat.scope)
		return true, cond, err
	case flat.image.Until != nil:
		cond, err := self.expr(flat.image.Until, flat.scope)
		return false, cond, err
	default:
		return true, statements.Literal{Value: values.Boolean(true)}, nil
	}
}

func (self *linker) buildLet(flat flatStatement) (runtime.Statement, error) {
	if flat.image.Var == "" {
		return nil, self.missing(flat, "var")
	}
	variable, err := self.variable(flat.image.Var, flat.scope, flat.image.Position)
	if err != nil {
		return nil, err
	}
	value, err := self.required(flat, "value", flat.image.Value)
	if err != nil {
		return nil, err
	}

	statement := &statements.Let{Node: self.node(flat), Variable: variable, Value: value}
	if flat.image.Field != "" {
		field, err := self.field(variable, flat.image.Field, flat.image.Position)
		if err != nil {
			return nil, err
		}
		statement.Field = field
	}
	return statement, nil
}

func (self *linker) field(variable runtime.Variable, name string, pos errors.Location) (string, error) {
	if variable.Record == nil {
		return "", self.fail(errors.TypeMismatch, fmt.Sprintf("`%s` is not a record", variable.Name), pos)
	}

	field := self.normalize.Identifier(name)
	candidates := make([]string, 0, len(variable.Record.Fields))
	for _, candidate := range variable.Record.Fields {
		if candidate.Name == field {
			return field, nil
		}
		candidates = append(candidates, candidate.Name)
	}

	return "", self.fail(
		errors.TypeMismatch,
		fmt.Sprintf("type `%s` has no field `%s`", variable.Record.Name, name),
		pos,
		suggest(field, candidates)...,
	)
}

func (self *linker) buildPrint(flat flatStatement) (runtime.Statement, error) {
	statement := &statements.Print{Node: self.node(flat)}

	if flat.image.File != nil {
		file, err := self.expr(flat.image.File, flat.scope)
		if err != nil {
			return nil, err
		}
		statement.File = file
	}

	for _, item := range flat.image.Items {
		var printed statements.PrintItem

		switch item.Sep {
		case "":
			printed.Separator = statements.NoSeparator
		case ";":
			printed.Separator = statements.Semicolon
		case ",":
			printed.Separator = statements.Comma
		default:
			return nil, self.fail(errors.SyntaxError, fmt.Sprintf("invalid separator `%s`", item.Sep), flat.image.Position)
		}

		if item.Value != nil {
			value, err := self.expr(item.Value, flat.scope)
			if err != nil {
				return nil, err
			}
			printed.Value = value
		}

		statement.Items = append(statement.Items, printed)
	}

	return statement, nil
}

func (self *linker) buildBranchIndex(flat flatStatement) (runtime.Statement, error) {
	node := self.node(flat)
	for _, line := range flat.image.Targets {
		target, err := self.target(line, flat.image.Position)
		if err != nil {
			return nil, err
		}
		node.Targets = append(node.Targets, target)
	}

	selector, err := self.required(flat, "value", flat.image.Value)
	return &statements.BranchIndex{
		Node:     node,
		Gosub:    flat.kind == kindOnGosub,
		Selector: selector,
	}, err
}

func (self *linker) counter(flat flatStatement) (runtime.Variable, error) {
	if flat.image.Var == "" {
		return runtime.Variable{}, self.missing(flat, "var")
	}
	return self.variable(flat.image.Var, flat.scope, flat.image.Position)
}

func (self *linker) buildFor(idx int) (runtime.Statement, error) {
	flat := self.flat[idx]
	counter, err := self.counter(flat)
	if err != nil {
		return nil, err
	}
	if !counter.Kind.IsNumeric() {
		return nil, self.fail(errors.TypeMismatch, fmt.Sprintf("FOR counter `%s` is not numeric", counter.Name), flat.image.Position)
	}

	from, err := self.required(flat, "from", flat.image.From)
	if err != nil {
		return nil, err
	}
	to, err := self.required(flat, "to", flat.image.To)
	if err != nil {
		return nil, err
	}

	node := self.node(flat)
	node.TargetIndex = self.partners[idx] + 1
	end, step := statements.LoopVariables(counter, idx)

	statement := &statements.For{
		Node:    node,
		Counter: counter,
		End:     end,
		Step:    step,
		From:    from,
		To:      to,
	}
	if flat.image.Step != nil {
		if statement.By, err = self.expr(flat.image.Step, flat.scope); err != nil {
			return nil, err
		}
	}
	return statement, nil
}

func (self *linker) buildNext(idx int) (runtime.Statement, error) {
	flat := self.flat[idx]
	forIndex := self.partners[idx]

	counter, err := self.counter(self.flat[forIndex])
	if err != nil {
		return nil, err
	}
	if flat.image.Var != "" {
		named, err := self.variable(flat.image.Var, flat.scope, flat.image.Position)
		if err != nil {
			return nil, err
		}
		if named.Name != counter.Name {
			return nil, self.fail(errors.NextWithoutFor, errors.NextWithoutFor.String(), flat.image.Position)
		}
	}

	node := self.node(flat)
	node.TargetIndex = forIndex + 1
	end, step := statements.LoopVariables(counter, forIndex)

	return &statements.Next{Node: node, Counter: counter, End: end, Step: step}, nil
}

func (self *linker) buildCase(flat flatStatement) (runtime.Statement, error) {
	node, err := self.jump(flat)
	if err != nil {
		return nil, err
	}
	test, err := self.required(flat, "value", flat.image.Value)
	if err != nil {
		return nil, err
	}
	if len(flat.image.Clauses) == 0 {
		return nil, self.missing(flat, "clauses")
	}

	statement := &statements.Case{Node: node, Test: test}
	for _, img := range flat.image.Clauses {
		var clause statements.CaseClause

		switch {
		case img.From != nil || img.To != nil:
			if img.From == nil || img.To == nil {
				return nil, self.fail(errors.SyntaxError, "a range clause needs both `from` and `to`", flat.image.Position)
			}
			clause.Kind = statements.CaseRange
			if clause.Lower, err = self.expr(img.From, flat.scope); err != nil {
				return nil, err
			}
			if clause.Upper, err = self.expr(img.To, flat.scope); err != nil {
				return nil, err
			}
		case img.Value != nil:
			clause.Kind = statements.CaseEqual
			if img.Is != "" {
				op, err := values.ParseOperator(img.Is)
				if err != nil || !op.IsRelational() {
					return nil, self.fail(errors.SyntaxError, fmt.Sprintf("`%s` is not a relational operator", img.Is), flat.image.Position)
				}
				clause.Kind = statements.CaseIs
				clause.Op = op
			}
			if clause.Value, err = self.expr(img.Value, flat.scope); err != nil {
				return nil, err
			}
		default:
			return nil, self.fail(errors.SyntaxError, "empty CASE clause", flat.image.Position)
		}

		statement.Clauses = append(statement.Clauses, clause)
	}

	return statement, nil
}

func (self *linker) buildCall(flat flatStatement) (runtime.Statement, error) {
	name := self.normalize.Identifier(flat.image.Sub)
	if name == "" {
		return nil, self.missing(flat, "sub")
	}

	chunkIndex, found := self.subs[name]
	if !found {
		return nil, self.fail(
			errors.LabelNotDefined,
			fmt.Sprintf("SUB `%s` is not defined", flat.image.Sub),
			flat.image.Position,
			suggest(name, self.subNames())...,
		)
	}

	chunk := self.chunks[chunkIndex]
	if len(flat.image.Args) != len(chunk.Params) {
		return nil, self.fail(
			errors.IllegalFunctionCall,
			fmt.Sprintf("SUB `%s` takes %d argument(s), got %d", chunk.Name, len(chunk.Params), len(flat.image.Args)),
			flat.image.Position,
		)
	}

	statement := &statements.Call{
		Node:       self.node(flat),
		ChunkIndex: chunkIndex,
		Params:     chunk.Params,
	}

	for i := range flat.image.Args {
		arg := &flat.image.Args[i]

		// A bare variable is passed by reference.
		if arg.Var != "" && arg.Field == "" {
			variable, err := self.variable(arg.Var, flat.scope, arg.Position)
			if err != nil {
				return nil, err
			}
			statement.Args = append(statement.Args, statements.Argument{Variable: &variable})
			continue
		}

		value, err := self.expr(arg, flat.scope)
		if err != nil {
			return nil, err
		}
		statement.Args = append(statement.Args, statements.Argument{Value: value})
	}

	self.calls = append(self.calls, pendingCall{call: statement, scope: self.scopes[chunkIndex]})
	return statement, nil
}

func (self *linker) buildRestore(flat flatStatement) (runtime.Statement, error) {
	statement := &statements.Restore{Node: self.node(flat)}
	if flat.image.Target == nil {
		return statement, nil
	}

	line := *flat.image.Target
	if _, err := self.target(line, flat.image.Position); err != nil {
		return nil, err
	}

	if entry, found := self.dataLines.Ceiling(line); found {
		statement.Pointer = entry.Index
	} else {
		statement.Pointer = len(self.data)
	}
	return statement, nil
}

func (self *linker) buildRead(flat flatStatement) (runtime.Statement, error) {
	if len(flat.image.Vars) == 0 {
		return nil, self.missing(flat, "vars")
	}

	statement := &statements.Read{Node: self.node(flat)}
	for _, name := range flat.image.Vars {
		variable, err := self.variable(name, flat.scope, flat.image.Position)
		if err != nil {
			return nil, err
		}
		if variable.Kind == values.RecordValueKind {
			return nil, self.fail(errors.TypeMismatch, fmt.Sprintf("cannot READ into record `%s`", variable.Name), flat.image.Position)
		}
		statement.Variables = append(statement.Variables, variable)
	}
	return statement, nil
}

var fileModes = map[string]runtime.FileMode{
	"input":  runtime.InputMode,
	"output": runtime.OutputMode,
	"append": runtime.AppendMode,
}

func (self *linker) buildOpen(flat flatStatement) (runtime.Statement, error) {
	mode, found := fileModes[self.normalize.Kind(flat.image.Mode)]
	if !found {
		return nil, self.fail(
			errors.BadFileMode,
			fmt.Sprintf("invalid file mode `%s`", flat.image.Mode),
			flat.image.Position,
			suggest(self.normalize.Kind(flat.image.Mode), []string{"input", "output", "append"})...,
		)
	}

	name, err := self.required(flat, "name", flat.image.Name)
	if err != nil {
		return nil, err
	}
	number, err := self.required(flat, "file", flat.image.File)
	if err != nil {
		return nil, err
	}

	return &statements.Open{Node: self.node(flat), Name: name, Mode: mode, Number: number}, nil
}

//
// Expressions
//

func (self *linker) literal(value values.Value, pos errors.Location) (statements.Expr, error) {
	if err, isErr := value.(values.ValueError); isErr {
		return nil, self.fail(err.Code, err.Message, pos)
	}
	return statements.Literal{Value: value}, nil
}

func (self *linker) expr(img *ExprImage, scope *scope) (statements.Expr, error) {
	pos := img.Position

	switch {
	case img.Literal != nil:
		return statements.Literal{Value: img.Literal}, nil
	case img.Int != nil:
		return self.literal(values.Integer(*img.Int), pos)
	case img.Long != nil:
		return self.literal(values.Long(*img.Long), pos)
	case img.Single != nil:
		return self.literal(values.Single(*img.Single), pos)
	case img.Double != nil:
		return self.literal(values.Double(*img.Double), pos)
	case img.Str != nil:
		return statements.Literal{Value: values.NewValueString(*img.Str)}, nil
	case img.Var != "":
		variable, err := self.variable(img.Var, scope, pos)
		if err != nil {
			return nil, err
		}
		if img.Field == "" {
			return statements.VarRef{Variable: variable}, nil
		}
		field, err := self.field(variable, img.Field, pos)
		if err != nil {
			return nil, err
		}
		return statements.FieldRef{Variable: variable, Field: field}, nil
	case img.Neg != nil:
		operand, err := self.expr(img.Neg, scope)
		return statements.NegExpr{Operand: operand}, err
	case img.Not != nil:
		operand, err := self.expr(img.Not, scope)
		return statements.NotExpr{Operand: operand}, err
	case img.Op != "":
		return self.binary(img, scope)
	case img.Fn != "":
		return self.intrinsic(img, scope)
	default:
		return nil, self.fail(errors.SyntaxError, "empty expression", pos)
	}
}

func (self *linker) binary(img *ExprImage, scope *scope) (statements.Expr, error) {
	op, err := values.ParseOperator(img.Op)
	if err != nil {
		return nil, self.fail(errors.SyntaxError, err.Error(), img.Position)
	}
	if len(img.Args) != 2 {
		return nil, self.fail(
			errors.SyntaxError,
			fmt.Sprintf("operator `%s` takes 2 operands, got %d", op, len(img.Args)),
			img.Position,
		)
	}

	left, err := self.expr(&img.Args[0], scope)
	if err != nil {
		return nil, err
	}
	right, err := self.expr(&img.Args[1], scope)
	if err != nil {
		return nil, err
	}
	return statements.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

var intrinsics = []string{"ERL", "ERR", "RND"}

func (self *linker) intrinsic(img *ExprImage, scope *scope) (statements.Expr, error) {
	name := self.normalize.Identifier(img.Fn)

	arity := 0
	if name == "RND" {
		arity = 1
	}
	if len(img.Args) > arity {
		return nil, self.fail(
			errors.SyntaxError,
			fmt.Sprintf("%s takes at most %d argument(s)", name, arity),
			img.Position,
		)
	}

	switch name {
	case "ERL":
		return statements.ErlExpr{}, nil
	case "ERR":
		return statements.ErrExpr{}, nil
	case "RND":
		if len(img.Args) == 0 {
			return statements.RndExpr{}, nil
		}
		arg, err := self.expr(&img.Args[0], scope)
		return statements.RndExpr{Arg: arg}, err
	default:
		return nil, self.fail(
			errors.SyntaxError,
			fmt.Sprintf("unknown function `%s`", strings.TrimSpace(img.Fn)),
			img.Position,
			suggest(name, intrinsics)...,
		)
	}
}
