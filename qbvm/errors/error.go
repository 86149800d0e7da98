package errors

import "fmt"

// All ranges inclusive
type Span struct {
	Start    Location `json:"start" yaml:"start"`
	End      Location `json:"end" yaml:"end"`
	Filename string   `json:"filename" yaml:"filename"`
}

type Location struct {
	Line   uint `json:"line" yaml:"line"`
	Column uint `json:"column" yaml:"column"`
	Index  uint `json:"index" yaml:"index"`
}

func (self Span) IsEmpty() bool {
	return self.Start.Line == 0 &&
		self.Start.Column == 0 &&
		self.End.Line == 0 &&
		self.End.Column == 0
}

func (self Span) String() string {
	return fmt.Sprintf("%s:%d:%d", self.Filename, self.Start.Line, self.Start.Column)
}
