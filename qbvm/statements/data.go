package statements

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// Randomize reseeds the generator. Without a seed, the time of day is used.
type Randomize struct {
	runtime.Node
	Seed Expr
}

func (_ *Randomize) Keyword() string { return "RANDOMIZE" }

func (self *Randomize) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	var seed float64

	if self.Seed != nil {
		n, err := evaluateNumber(ctx, &self.Node, self.Seed)
		if err != nil {
			return nil, err
		}
		seed = n
	} else if ctx.Devices.Clock != nil {
		now := ctx.Devices.Clock()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		seed = now.Sub(midnight).Seconds()
	}

	ctx.Random.SetSeed(math.Float32bits(float32(seed)))
	return nil, nil
}

// Restore moves the DATA pointer to the first item at or after the target line.
type Restore struct {
	runtime.Node
	Pointer int
}

func (_ *Restore) Keyword() string { return "RESTORE" }

func (self *Restore) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	ctx.Data.Restore(self.Pointer)
	return nil, nil
}

// Read assigns the next DATA items to the variables.
type Read struct {
	runtime.Node
	Variables []runtime.Variable
}

func (_ *Read) Keyword() string { return "READ" }

func (self *Read) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	for _, variable := range self.Variables {
		item, ok := ctx.Data.Read()
		if !ok {
			return nil, self.Raise(errors.OutOfData)
		}

		v, err := self.convert(item, variable.Kind)
		if err != nil {
			return nil, err
		}
		ctx.Memory.Write(variable, v)
	}
	return nil, nil
}

func (self *Read) convert(item runtime.DataItem, kind values.ValueKind) (values.Value, error) {
	if kind == values.StringValueKind {
		return values.NewValueString(item.Text), nil
	}
	if !kind.IsNumeric() || item.Quoted {
		return nil, self.Raise(errors.SyntaxError)
	}

	text := strings.TrimSpace(item.Text)
	if text == "" {
		return values.ZeroValue(kind), nil
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, self.Raise(errors.SyntaxError)
	}

	v := values.ConstructorFor(kind)(n)
	if err, isErr := v.(values.ValueError); isErr {
		return nil, self.RaiseValue(err)
	}
	return v, nil
}
