package runtime

import (
	"fmt"

	"github.com/retro-basic/qbvm/qbvm/errors"
)

func (self *VM) fatal(fault *errors.Fault) Result {
	trace := self.unwind()

	self.log.Error().
		Int("pc", self.PC).
		Int("code", int(fault.Code)).
		Str("span", fault.Span.String()).
		Msg(fault.Message)

	return Result{
		Status: Fatal,
		Fault:  fault,
		Trace:  trace,
		PC:     self.PC,
	}
}

func (self *VM) spanOf(pc int) errors.Span {
	statements := self.Program.Statements
	if len(statements) == 0 {
		return errors.Span{}
	}
	if pc < 0 {
		pc = 0
	}
	if pc >= len(statements) {
		pc = len(statements) - 1
	}
	return statements[pc].Base().Span
}

func (self *VM) chunkName(pc int) string {
	if chunk, found := self.Program.ChunkOf(pc); found {
		return chunk.Name
	}
	return "main"
}

// unwind lists the active frames, innermost last. Runs of identical frames
// (as produced by recursion) are collapsed into one line with a repeat count.
func (self *VM) unwind() []string {
	type frameInfo struct {
		pc    int
		count uint
		index uint
	}

	pcs := make([]int, 0, len(self.CallStack)+1)
	for _, frame := range self.CallStack {
		pcs = append(pcs, frame.CallerPC)
	}
	pcs = append(pcs, self.PC)

	filtered := make([]frameInfo, 0)

	prev := NoTarget
	for i, pc := range pcs {
		if i == 0 || prev != pc {
			prev = pc
			filtered = append(filtered, frameInfo{
				pc:    pc,
				count: 1,
				index: uint(i),
			})
		} else {
			filtered[len(filtered)-1].count++
		}
	}

	output := make([]string, 0, len(filtered))
	for _, frame := range filtered {
		span := self.spanOf(frame.pc)

		additions := ""
		if frame.count > 1 {
			additions = fmt.Sprintf("    (%dx)", frame.count-1)
		}

		output = append(
			output,
			fmt.Sprintf(
				"%05d: %s() %s:%d:%d%s",
				frame.index,
				self.chunkName(frame.pc),
				span.Filename,
				span.Start.Line,
				span.Start.Column,
				additions,
			),
		)
	}

	return output
}
