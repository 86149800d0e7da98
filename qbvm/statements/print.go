package statements

import (
	"fmt"
	"io"
	"strings"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

const printZoneWidth = 14

type PrintSeparator uint8

const (
	NoSeparator PrintSeparator = iota
	// ';' continues directly after the item.
	Semicolon
	// ',' advances to the next print zone.
	Comma
)

type PrintItem struct {
	Value     Expr
	Separator PrintSeparator
}

// Print writes to the screen, or to an open file if File is set.
type Print struct {
	runtime.Node
	File  Expr
	Items []PrintItem
}

func (_ *Print) Keyword() string { return "PRINT" }

func (self *Print) writer(ctx *runtime.Context) (io.Writer, error) {
	if self.File == nil {
		return ctx.Screen(), nil
	}

	number, err := evaluateInteger(ctx, &self.Node, self.File)
	if err != nil {
		return nil, err
	}
	handle, err := ctx.Files.Handle(int(number))
	if err != nil {
		return nil, self.Position(err)
	}
	writer, ok := handle.(io.Writer)
	if !ok {
		return nil, self.Raise(errors.BadFileMode)
	}
	return writer, nil
}

// formatPrintValue pads numbers with a sign position in front and a space behind.
func formatPrintValue(v values.Value) string {
	num, ok := v.(values.NumericValue)
	if !ok {
		return v.Display()
	}
	if num.Number() < 0 {
		return num.Display() + " "
	}
	return " " + num.Display() + " "
}

func (self *Print) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	writer, err := self.writer(ctx)
	if err != nil {
		return nil, err
	}

	var line strings.Builder
	newline := true

	for _, item := range self.Items {
		if item.Value != nil {
			v, err := evaluate(ctx, &self.Node, item.Value)
			if err != nil {
				return nil, err
			}
			if v.Kind() == values.RecordValueKind {
				return nil, self.Raise(errors.TypeMismatch)
			}
			line.WriteString(formatPrintValue(v))
		}

		switch item.Separator {
		case Comma:
			pad := printZoneWidth - line.Len()%printZoneWidth
			line.WriteString(strings.Repeat(" ", pad))
			newline = false
		case Semicolon:
			newline = false
		case NoSeparator:
			newline = true
		}
	}

	if newline {
		line.WriteString("\n")
	}

	if _, err := fmt.Fprint(writer, line.String()); err != nil {
		return nil, errors.NewFault(
			errors.DeviceIOError,
			fmt.Sprintf("%s: %s", errors.DeviceIOError, err.Error()),
			self.Span,
		)
	}
	return nil, nil
}
