package image

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// Image is the YAML form of an already-parsed program.
// The first chunk is the main program, every other chunk is a SUB.
type Image struct {
	Name string `yaml:"name"`
	// Optional BASIC listing, shown by `qbvm check`.
	Source string      `yaml:"source"`
	Types  []TypeImage `yaml:"types"`
	// Record variables, mapped to their type name.
	Dim    map[string]string `yaml:"dim"`
	Chunks []ChunkImage      `yaml:"chunks"`
}

type TypeImage struct {
	Name     string          `yaml:"name"`
	Fields   []FieldImage    `yaml:"fields"`
	Position errors.Location `yaml:"-"`
}

type FieldImage struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type ChunkImage struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	// Variables of the main program visible inside the SUB.
	Shared     []string         `yaml:"shared"`
	Statements []StatementImage `yaml:"statements"`
}

// StatementImage is one statement. Which fields are used depends on Kind.
// Targets are given as line numbers.
type StatementImage struct {
	Line    int    `yaml:"line"`
	Kind    string `yaml:"kind"`
	Target  *int   `yaml:"target"`
	Targets []int  `yaml:"targets"`
	Next    bool   `yaml:"next"`

	Var   string   `yaml:"var"`
	Field string   `yaml:"field"`
	Vars  []string `yaml:"vars"`

	Value   *ExprImage    `yaml:"value"`
	From    *ExprImage    `yaml:"from"`
	To      *ExprImage    `yaml:"to"`
	Step    *ExprImage    `yaml:"step"`
	Cond    *ExprImage    `yaml:"cond"`
	While   *ExprImage    `yaml:"while"`
	Until   *ExprImage    `yaml:"until"`
	Clauses []ClauseImage `yaml:"clauses"`

	Sub  string      `yaml:"sub"`
	Args []ExprImage `yaml:"args"`

	Items   []PrintItemImage `yaml:"items"`
	File    *ExprImage       `yaml:"file"`
	Numbers []ExprImage      `yaml:"numbers"`
	Name    *ExprImage       `yaml:"name"`
	Mode    string           `yaml:"mode"`

	Frequency *ExprImage `yaml:"frequency"`
	Duration  *ExprImage `yaml:"duration"`
	Every     uint       `yaml:"every"`

	Data []yaml.Node `yaml:"data"`
	Text string      `yaml:"text"`

	Position errors.Location `yaml:"-"`
}

func (self *StatementImage) UnmarshalYAML(node *yaml.Node) error {
	type plain StatementImage
	if err := node.Decode((*plain)(self)); err != nil {
		return err
	}
	self.Position = position(node)
	return nil
}

func (self *TypeImage) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeImage
	if err := node.Decode((*plain)(self)); err != nil {
		return err
	}
	self.Position = position(node)
	return nil
}

type ClauseImage struct {
	// Relational operator of a CASE IS clause.
	Is    string     `yaml:"is"`
	Value *ExprImage `yaml:"value"`
	From  *ExprImage `yaml:"from"`
	To    *ExprImage `yaml:"to"`
}

type PrintItemImage struct {
	Value *ExprImage `yaml:"value"`
	// ";", "," or empty.
	Sep string `yaml:"sep"`
}

// ExprImage is a structural expression. Plain YAML scalars are literals:
// integers become INTEGER or LONG depending on their size, floats SINGLE
// (DOUBLE if out of range) and strings STRING.
type ExprImage struct {
	Int    *float64 `yaml:"int"`
	Long   *float64 `yaml:"long"`
	Single *float64 `yaml:"single"`
	Double *float64 `yaml:"double"`
	Str    *string  `yaml:"str"`

	Var   string `yaml:"var"`
	Field string `yaml:"field"`

	Op   string      `yaml:"op"`
	Args []ExprImage `yaml:"args"`
	Neg  *ExprImage  `yaml:"neg"`
	Not  *ExprImage  `yaml:"not"`
	// Intrinsic function: ERL, ERR or RND.
	Fn string `yaml:"fn"`

	Literal  values.Value    `yaml:"-"`
	Position errors.Location `yaml:"-"`
}

func (self *ExprImage) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		literal, err := scalarLiteral(node)
		if err != nil {
			return err
		}
		*self = ExprImage{Literal: literal}
	case yaml.MappingNode:
		type plain ExprImage
		if err := node.Decode((*plain)(self)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: an expression must be a scalar or a mapping", node.Line)
	}

	self.Position = position(node)
	return nil
}

func scalarLiteral(node *yaml.Node) (values.Value, error) {
	switch node.ShortTag() {
	case "!!int":
		n, err := strconv.ParseInt(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer `%s`", node.Line, node.Value)
		}
		switch {
		case n >= math.MinInt16 && n <= math.MaxInt16:
			return values.Integer(float64(n)), nil
		case n >= math.MinInt32 && n <= math.MaxInt32:
			return values.Long(float64(n)), nil
		default:
			return values.Double(float64(n)), nil
		}
	case "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number `%s`", node.Line, node.Value)
		}
		if single := values.Single(n); !values.IsError(single) {
			return single, nil
		}
		if double := values.Double(n); !values.IsError(double) {
			return double, nil
		}
		return nil, fmt.Errorf("line %d: number `%s` is out of range", node.Line, node.Value)
	case "!!str":
		return values.NewValueString(node.Value), nil
	default:
		return nil, fmt.Errorf("line %d: `%s` is not a valid literal", node.Line, node.Value)
	}
}

func position(node *yaml.Node) errors.Location {
	return errors.Location{
		Line:   uint(node.Line),
		Column: uint(node.Column),
	}
}
