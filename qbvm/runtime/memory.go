package runtime

import (
	"strings"

	"github.com/retro-basic/qbvm/qbvm/values"
)

// Memory is the variable storage collaborator.
type Memory interface {
	// Read returns false if the variable was never written since the last Clear.
	Read(variable Variable) (values.Value, bool)
	// Write stores the value. Writing nil unsets the variable.
	Write(variable Variable, value values.Value)
	Clear()
}

// MapMemory is a flat, name-keyed Memory.
type MapMemory struct {
	data map[string]values.Value
}

func NewMemory() *MapMemory {
	return &MapMemory{data: make(map[string]values.Value)}
}

func key(variable Variable) string {
	return strings.ToUpper(variable.Name)
}

func (self *MapMemory) Read(variable Variable) (values.Value, bool) {
	v, found := self.data[key(variable)]
	return v, found
}

func (self *MapMemory) Write(variable Variable, value values.Value) {
	if value == nil {
		delete(self.data, key(variable))
		return
	}
	self.data[key(variable)] = value
}

func (self *MapMemory) Clear() {
	self.data = make(map[string]values.Value)
}

// Len returns the number of variables currently written.
func (self *MapMemory) Len() int {
	return len(self.data)
}

// ReadOrZero reads a variable, falling back to the zero value of its kind.
func ReadOrZero(memory Memory, variable Variable) values.Value {
	if v, found := memory.Read(variable); found {
		return v
	}
	if variable.Kind == values.RecordValueKind {
		if variable.Record == nil {
			return values.TypeMismatch
		}
		return values.NewValueRecord(variable.Record)
	}
	return values.ZeroValue(variable.Kind)
}
