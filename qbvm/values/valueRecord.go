package values

import (
	"fmt"
	"strings"
)

// RecordType describes a user-defined TYPE ... END TYPE.
type RecordType struct {
	Name   string
	Fields []RecordFieldType
}

type RecordFieldType struct {
	Name string
	Kind ValueKind
	// Only set if Kind is RecordValueKind.
	Record *RecordType
}

type RecordField struct {
	Name  string
	Value Value
}

type ValueRecord struct {
	Type   *RecordType
	Fields []RecordField
}

func (_ ValueRecord) Kind() ValueKind { return RecordValueKind }

func (self ValueRecord) Display() string {
	fields := make([]string, 0, len(self.Fields))
	for _, field := range self.Fields {
		fields = append(fields, fmt.Sprintf("%s: %s", field.Name, field.Value.Display()))
	}
	return fmt.Sprintf("%s { %s }", self.Type.Name, strings.Join(fields, ", "))
}

func (self ValueRecord) IsEqual(other Value) bool {
	otherRecord, ok := other.(ValueRecord)
	if !ok || otherRecord.Type != self.Type || len(otherRecord.Fields) != len(self.Fields) {
		return false
	}

	for idx, field := range self.Fields {
		otherField := otherRecord.Fields[idx]
		if field.Name != otherField.Name || !field.Value.IsEqual(otherField.Value) {
			return false
		}
	}

	return true
}

// Field looks up a field by name.
func (self ValueRecord) Field(name string) (Value, bool) {
	for _, field := range self.Fields {
		if strings.EqualFold(field.Name, name) {
			return field.Value, true
		}
	}
	return nil, false
}

// With returns a copy of the record where the named field holds val.
func (self ValueRecord) With(name string, val Value) (ValueRecord, bool) {
	fields := make([]RecordField, len(self.Fields))
	copy(fields, self.Fields)

	for idx, field := range fields {
		if strings.EqualFold(field.Name, name) {
			fields[idx].Value = val
			return ValueRecord{Type: self.Type, Fields: fields}, true
		}
	}

	return self, false
}

// NewValueRecord builds a record of the given type with every field zeroed.
func NewValueRecord(typ *RecordType) ValueRecord {
	fields := make([]RecordField, 0, len(typ.Fields))

	for _, field := range typ.Fields {
		var zero Value
		if field.Kind == RecordValueKind {
			zero = NewValueRecord(field.Record)
		} else {
			zero = ZeroValue(field.Kind)
		}

		fields = append(fields, RecordField{Name: field.Name, Value: zero})
	}

	return ValueRecord{Type: typ, Fields: fields}
}
