package image

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/statements"
	"github.com/retro-basic/qbvm/qbvm/values"
)

type flatStatement struct {
	image *StatementImage
	kind  string
	scope *scope
}

type pendingCall struct {
	call  *statements.Call
	scope *scope
}

type linker struct {
	filename  string
	image     *Image
	normalize normalizer

	types map[string]*values.RecordType
	dims  map[string]string

	subs   map[string]int
	scopes []*scope
	chunks []runtime.Chunk

	flat      []flatStatement
	lines     *lineIndex
	dataLines *lineIndex
	data      []runtime.DataItem
	partners  map[int]int
	calls     []pendingCall
}

func newLinker(image *Image, filename string) *linker {
	return &linker{
		filename:  filename,
		image:     image,
		normalize: newNormalizer(),
		types:     make(map[string]*values.RecordType),
		dims:      make(map[string]string),
		subs:      make(map[string]int),
		lines:     newLineIndex(),
		dataLines: newLineIndex(),
		partners:  make(map[int]int),
	}
}

func (self *linker) span(pos errors.Location) errors.Span {
	return errors.Span{Start: pos, End: pos, Filename: self.filename}
}

func (self *linker) fail(code errors.Code, message string, pos errors.Location, notes ...string) *LoadError {
	return &LoadError{
		Code:    code,
		Message: message,
		Notes:   notes,
		Span:    self.span(pos),
	}
}

func (self *linker) link() (*runtime.Program, error) {
	if err := self.declareTypes(); err != nil {
		return nil, err
	}
	if err := self.declareChunks(); err != nil {
		return nil, err
	}
	if err := self.index(); err != nil {
		return nil, err
	}

	program := &runtime.Program{
		Name:       self.image.Name,
		Statements: make([]runtime.Statement, 0, len(self.flat)),
		Chunks:     self.chunks,
		Data:       self.data,
	}

	for i := range self.flat {
		statement, err := self.build(i)
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, statement)
	}

	for _, pending := range self.calls {
		pending.call.Locals = pending.scope.Locals()
	}

	return program, nil
}

//
// Declarations
//

var builtinTypes = map[string]values.ValueKind{
	"INTEGER": values.IntegerValueKind,
	"LONG":    values.LongValueKind,
	"SINGLE":  values.SingleValueKind,
	"DOUBLE":  values.DoubleValueKind,
	"STRING":  values.StringValueKind,
}

func (self *linker) typeNames() []string {
	names := make([]string, 0, len(builtinTypes)+len(self.types))
	for name := range builtinTypes {
		names = append(names, name)
	}
	for name := range self.types {
		names = append(names, name)
	}
	return names
}

func (self *linker) declareTypes() error {
	for _, typ := range self.image.Types {
		name := self.normalize.Identifier(typ.Name)
		if _, found := self.types[name]; found {
			return self.fail(errors.SyntaxError, fmt.Sprintf("type `%s` is declared twice", typ.Name), typ.Position)
		}
		self.types[name] = &values.RecordType{Name: name}
	}

	for _, typ := range self.image.Types {
		record := self.types[self.normalize.Identifier(typ.Name)]

		for _, field := range typ.Fields {
			typeName := self.normalize.Identifier(field.Type)
			fieldType := values.RecordFieldType{Name: self.normalize.Identifier(field.Name)}

			if kind, found := builtinTypes[typeName]; found {
				fieldType.Kind = kind
			} else if nested, found := self.types[typeName]; found && nested != record {
				fieldType.Kind = values.RecordValueKind
				fieldType.Record = nested
			} else {
				return self.fail(
					errors.TypeMismatch,
					fmt.Sprintf("unknown type `%s` of field `%s`", field.Type, field.Name),
					typ.Position,
					suggest(typeName, self.typeNames())...,
				)
			}

			record.Fields = append(record.Fields, fieldType)
		}
	}

	for name, typeName := range self.image.Dim {
		upper := self.normalize.Identifier(typeName)
		if _, found := self.types[upper]; !found {
			return &LoadError{
				Code:    errors.TypeMismatch,
				Message: fmt.Sprintf("unknown type `%s` of variable `%s`", typeName, name),
				Notes:   suggest(upper, self.typeNames()),
				Span:    errors.Span{Filename: self.filename},
			}
		}
		self.dims[self.normalize.Identifier(name)] = upper
	}

	return nil
}

func (self *linker) declareChunks() error {
	if len(self.image.Chunks) == 0 {
		return &LoadError{
			Code:    errors.SyntaxError,
			Message: "image contains no chunks",
			Span:    errors.Span{Filename: self.filename},
		}
	}

	for idx, chunk := range self.image.Chunks {
		main := idx == 0
		name := self.normalize.Identifier(chunk.Name)

		var pos errors.Location
		if len(chunk.Statements) > 0 {
			pos = chunk.Statements[0].Position
		}

		scope := newScope(name, main)
		if !main {
			if name == "" {
				return self.fail(errors.SyntaxError, fmt.Sprintf("chunk %d has no name", idx), pos)
			}
			if _, found := self.subs[name]; found {
				return self.fail(errors.SyntaxError, fmt.Sprintf("SUB `%s` is declared twice", chunk.Name), pos)
			}
			if err := self.declare(scope, chunk.Params, scope.params, pos); err != nil {
				return err
			}
			if err := self.declare(scope, chunk.Shared, scope.shared, pos); err != nil {
				return err
			}
		}

		start := len(self.flat)
		last := ""
		for i := range chunk.Statements {
			statement := &self.image.Chunks[idx].Statements[i]
			last = self.normalize.Kind(statement.Kind)
			self.flat = append(self.flat, flatStatement{image: statement, kind: last, scope: scope})
		}

		// Running off the end of a chunk must not fall into the next one.
		switch {
		case main && len(self.image.Chunks) > 1 && last != kindEnd && last != kindSystem:
			self.flat = append(self.flat, flatStatement{image: &StatementImage{Position: pos}, kind: kindEnd, scope: scope})
		case !main && last != kindEndSub:
			self.flat = append(self.flat, flatStatement{image: &StatementImage{Position: pos}, kind: kindEndSub, scope: scope})
		}

		if main {
			continue
		}

		params := make([]runtime.Variable, 0, len(chunk.Params))
		for _, param := range chunk.Params {
			variable, err := self.variable(param, scope, pos)
			if err != nil {
				return err
			}
			params = append(params, variable)
		}

		self.subs[name] = len(self.chunks)
		self.scopes = append(self.scopes, scope)
		self.chunks = append(self.chunks, runtime.Chunk{
			Name:   name,
			Start:  start,
			End:    len(self.flat),
			Params: params,
		})
	}

	return nil
}

//
// Line index and block pairing
//

type block struct {
	kind  string
	index int
}

func (self *linker) index() error {
	stack := make([]block, 0)
	var current *scope
	prevLine := 0

	unclosed := func() error {
		if len(stack) == 0 {
			return nil
		}
		open := self.flat[stack[len(stack)-1].index]
		if open.kind == kindFor {
			return self.fail(errors.ForWithoutNext, errors.ForWithoutNext.String(), open.image.Position)
		}
		return self.fail(errors.SyntaxError, "DO without LOOP", open.image.Position)
	}

	for idx, flat := range self.flat {
		if flat.scope != current {
			if err := unclosed(); err != nil {
				return err
			}
			current = flat.scope
			stack = stack[:0]
		}

		if !isKind(flat.kind) {
			return self.fail(
				errors.SyntaxError,
				fmt.Sprintf("unknown statement kind `%s`", flat.image.Kind),
				flat.image.Position,
				suggest(flat.kind, kinds)...,
			)
		}

		if line := flat.image.Line; line != 0 {
			if !self.lines.Insert(line, idx) && line != prevLine {
				return self.fail(errors.SyntaxError, fmt.Sprintf("duplicate line %d", line), flat.image.Position)
			}
			prevLine = line
		}

		switch flat.kind {
		case kindData:
			if flat.image.Line != 0 {
				self.dataLines.Insert(flat.image.Line, len(self.data))
			}
			for _, item := range flat.image.Data {
				if item.Kind != yaml.ScalarNode {
					return self.fail(errors.SyntaxError, "DATA items must be scalars", flat.image.Position)
				}
				self.data = append(self.data, runtime.DataItem{
					Text:   item.Value,
					Quoted: item.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0,
				})
			}
		case kindFor, kindDo:
			stack = append(stack, block{kind: flat.kind, index: idx})
		case kindNext:
			if len(stack) == 0 || stack[len(stack)-1].kind != kindFor {
				return self.fail(errors.NextWithoutFor, errors.NextWithoutFor.String(), flat.image.Position)
			}
			self.pair(stack[len(stack)-1].index, idx)
			stack = stack[:len(stack)-1]
		case kindLoop:
			if len(stack) == 0 || stack[len(stack)-1].kind != kindDo {
				return self.fail(errors.SyntaxError, "LOOP without DO", flat.image.Position)
			}
			self.pair(stack[len(stack)-1].index, idx)
			stack = stack[:len(stack)-1]
		}
	}

	return unclosed()
}

func (self *linker) pair(opening int, closing int) {
	self.partners[opening] = closing
	self.partners[closing] = opening
}

// target resolves a line number to a statement index.
func (self *linker) target(line int, pos errors.Location) (int, error) {
	if index, found := self.lines.Lookup(line); found {
		return index, nil
	}

	notes := make([]string, 0)
	if next, found := self.lines.Ceiling(line); found {
		notes = append(notes, fmt.Sprintf("the next line is %d", next.Line))
	}

	return runtime.NoTarget, self.fail(
		errors.LabelNotDefined,
		fmt.Sprintf("%s: %d", errors.LabelNotDefined, line),
		pos,
		notes...,
	)
}

func (self *linker) subNames() []string {
	names := make([]string, 0, len(self.subs))
	for name := range self.subs {
		names = append(names, name)
	}
	return names
}

func (self *linker) missing(flat flatStatement, field string) error {
	return self.fail(
		errors.SyntaxError,
		fmt.Sprintf("`%s` requires `%s`", strings.ToUpper(strings.ReplaceAll(flat.kind, "_", " ")), field),
		flat.image.Position,
	)
}
