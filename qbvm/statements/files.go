package statements

import (
	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

type Open struct {
	runtime.Node
	Name   Expr
	Mode   runtime.FileMode
	Number Expr
}

func (_ *Open) Keyword() string { return "OPEN" }

func (self *Open) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if ctx.Devices.Disk == nil {
		return nil, self.Raise(errors.AdvancedFeatureUnavailable)
	}

	name, err := evaluateString(ctx, &self.Node, self.Name)
	if err != nil {
		return nil, err
	}
	number, err := evaluateInteger(ctx, &self.Node, self.Number)
	if err != nil {
		return nil, err
	}

	if number < 1 || number > 255 {
		return nil, self.Raise(errors.BadFileNameOrNumber)
	}
	if _, err := ctx.Files.Handle(int(number)); err == nil {
		return nil, self.Raise(errors.FileAlreadyOpen)
	}

	handle, err := ctx.Devices.Disk.Open(name, self.Mode)
	if err != nil {
		return nil, self.Position(err)
	}
	if err := ctx.Files.Open(int(number), handle); err != nil {
		_ = handle.Close()
		return nil, self.Position(err)
	}
	return nil, nil
}

// Close closes the given file numbers, or every open file if there are none.
type Close struct {
	runtime.Node
	Numbers []Expr
}

func (_ *Close) Keyword() string { return "CLOSE" }

func (self *Close) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if len(self.Numbers) == 0 {
		return nil, self.Position(ctx.Files.CloseAll())
	}

	for _, expr := range self.Numbers {
		number, err := evaluateInteger(ctx, &self.Node, expr)
		if err != nil {
			return nil, err
		}
		if err := ctx.Files.Close(int(number)); err != nil {
			return nil, self.Position(err)
		}
	}
	return nil, nil
}
