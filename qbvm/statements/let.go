package statements

import (
	"strings"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// Let assigns to a variable, or to one field of a record variable if Field is set.
// The value is converted to the destination's type.
type Let struct {
	runtime.Node
	Variable runtime.Variable
	Field    string
	Value    Expr
}

func (_ *Let) Keyword() string { return "LET" }

func (self *Let) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	v, err := evaluate(ctx, &self.Node, self.Value)
	if err != nil {
		return nil, err
	}

	if self.Field != "" {
		return nil, self.assignField(ctx, v)
	}

	if self.Variable.Kind == values.RecordValueKind {
		record, ok := v.(values.ValueRecord)
		if !ok || self.Variable.Record == nil || record.Type.Name != self.Variable.Record.Name {
			return nil, self.Raise(errors.TypeMismatch)
		}
		ctx.Memory.Write(self.Variable, record)
		return nil, nil
	}

	cast := values.Cast(v, self.Variable.Kind)
	if err, isErr := cast.(values.ValueError); isErr {
		return nil, self.RaiseValue(err)
	}
	ctx.Memory.Write(self.Variable, cast)
	return nil, nil
}

func (self *Let) assignField(ctx *runtime.Context, v values.Value) error {
	record, ok := runtime.ReadOrZero(ctx.Memory, self.Variable).(values.ValueRecord)
	if !ok {
		return self.Raise(errors.TypeMismatch)
	}

	var field *values.RecordFieldType
	for i := range record.Type.Fields {
		if strings.EqualFold(record.Type.Fields[i].Name, self.Field) {
			field = &record.Type.Fields[i]
			break
		}
	}
	if field == nil || field.Kind == values.RecordValueKind {
		return self.Raise(errors.TypeMismatch)
	}

	cast := values.Cast(v, field.Kind)
	if err, isErr := cast.(values.ValueError); isErr {
		return self.RaiseValue(err)
	}

	updated, _ := record.With(field.Name, cast)
	ctx.Memory.Write(self.Variable, updated)
	return nil
}
