package image

import (
	"fmt"
	"sort"
	"strings"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

// scope qualifies the variables of a SUB so that they do not clash with the main program.
type scope struct {
	name   string
	main   bool
	params map[string]bool
	shared map[string]bool
	locals map[string]runtime.Variable
}

func newScope(name string, main bool) *scope {
	return &scope{
		name:   name,
		main:   main,
		params: make(map[string]bool),
		shared: make(map[string]bool),
		locals: make(map[string]runtime.Variable),
	}
}

func (self *scope) Locals() []runtime.Variable {
	locals := make([]runtime.Variable, 0, len(self.locals))
	for _, local := range self.locals {
		locals = append(locals, local)
	}
	sort.Slice(locals, func(i, j int) bool {
		return locals[i].Name < locals[j].Name
	})
	return locals
}

// canonicalName appends the default sigil to untyped, non-record names.
func (self *linker) canonicalName(name string) (string, values.ValueKind, *values.RecordType, error) {
	upper := self.normalize.Identifier(name)
	if upper == "" {
		return "", 0, nil, fmt.Errorf("empty variable name")
	}

	if typeName, found := self.dims[upper]; found {
		return upper, values.RecordValueKind, self.types[typeName], nil
	}

	last := upper[len(upper)-1:]
	if kind, err := values.KindOfSigil(last); err == nil {
		if len(upper) == 1 {
			return "", 0, nil, fmt.Errorf("invalid variable name `%s`", name)
		}
		return upper, kind, nil, nil
	}

	return upper + values.SingleValueKind.Sigil(), values.SingleValueKind, nil, nil
}

func (self *linker) variable(name string, scope *scope, pos errors.Location) (runtime.Variable, error) {
	canonical, kind, record, err := self.canonicalName(name)
	if err != nil {
		return runtime.Variable{}, self.fail(errors.SyntaxError, err.Error(), pos)
	}

	qualified := canonical
	if !scope.main && !scope.shared[canonical] {
		qualified = scope.name + "." + canonical
	}

	variable := runtime.Variable{Name: qualified, Kind: kind, Record: record}

	if !scope.main && !scope.shared[canonical] && !scope.params[canonical] {
		scope.locals[qualified] = variable
	}

	return variable, nil
}

// declare registers a SUB's parameter or shared variable.
func (self *linker) declare(scope *scope, names []string, into map[string]bool, pos errors.Location) error {
	for _, name := range names {
		canonical, _, _, err := self.canonicalName(name)
		if err != nil {
			return self.fail(errors.SyntaxError, err.Error(), pos)
		}
		if into[canonical] {
			return self.fail(errors.SyntaxError, fmt.Sprintf("`%s` is declared twice", strings.TrimSpace(name)), pos)
		}
		into[canonical] = true
	}
	return nil
}
