package runtime

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/values"
)

type Limits struct {
	CallStackMaxSize uint
}

var DefaultLimits = Limits{
	CallStackMaxSize: 1024,
}

type Options struct {
	Limits Limits
	// nil disables logging.
	Logger *zerolog.Logger
	// Creates the execution context on every start or RUN.
	NewContext func(program *Program) *Context
}

func DefaultContext(program *Program) *Context {
	return NewContext(DefaultDevices(nil), program.Data)
}

type FrameKind uint8

const (
	GosubFrameKind FrameKind = iota
	CallFrameKind
)

func (self FrameKind) String() string {
	switch self {
	case GosubFrameKind:
		return "GOSUB"
	case CallFrameKind:
		return "CALL"
	default:
		panic("A new frame kind was added without updating this code")
	}
}

type CallFrame struct {
	Kind     FrameKind
	ReturnPC int
	// Index of the GOSUB or CALL statement which pushed the frame.
	CallerPC int
	Bindings []Binding
}

type Status uint8

const (
	Halted Status = iota
	Stopped
	Fatal
	Cancelled
	Load
)

func (self Status) String() string {
	switch self {
	case Halted:
		return "halted"
	case Stopped:
		return "stopped"
	case Fatal:
		return "fatal"
	case Cancelled:
		return "cancelled"
	case Load:
		return "load"
	default:
		panic("A new status was added without updating this code")
	}
}

// Result describes why a run ended.
type Result struct {
	Status Status
	// Only set if Status is Fatal.
	Fault *errors.Fault
	Trace []string
	// Only set if Status is Load.
	Program string
	PC      int
}

type VM struct {
	Program   *Program
	Context   *Context
	CallStack []CallFrame
	PC        int
	Limits    Limits

	stopped    bool
	log        zerolog.Logger
	newContext func(program *Program) *Context
}

func NewVM(program *Program, options Options) *VM {
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}

	newContext := options.NewContext
	if newContext == nil {
		newContext = DefaultContext
	}

	limits := options.Limits
	if limits.CallStackMaxSize == 0 {
		limits.CallStackMaxSize = DefaultLimits.CallStackMaxSize
	}

	self := &VM{
		Program:    program,
		CallStack:  make([]CallFrame, 0),
		Limits:     limits,
		log:        logger.With().Str("program", program.Name).Logger(),
		newContext: newContext,
	}
	self.Context = newContext(program)

	return self
}

func (self *VM) reset(entry int) {
	self.Context = self.newContext(self.Program)
	self.CallStack = make([]CallFrame, 0)
	self.PC = entry
	self.stopped = false
}

// Run starts the program at entry with a fresh context and an empty call stack.
// It blocks until the program halts, stops, faults or ctx is cancelled.
func (self *VM) Run(ctx context.Context, entry int) Result {
	self.reset(entry)
	self.log.Debug().Int("entry", entry).Msg("Starting execution")
	return self.loop(ctx)
}

// Continue resumes a program after STOP, keeping its state.
func (self *VM) Continue(ctx context.Context) Result {
	if !self.stopped {
		return self.fatal(errors.Raise(errors.CantContinue, errors.Span{}))
	}
	self.stopped = false
	self.log.Debug().Int("pc", self.PC).Msg("Continuing execution")
	return self.loop(ctx)
}

func (self *VM) loop(ctx context.Context) Result {
	self.Context.CancelCtx = ctx

	for {
		if ctx.Err() != nil {
			return self.cancelled()
		}

		if self.PC < 0 || self.PC >= len(self.Program.Statements) {
			self.log.Debug().Int("pc", self.PC).Msg("Ran past the last statement")
			return Result{Status: Halted, PC: self.PC}
		}

		statement := self.Program.Statements[self.PC]

		self.log.Trace().
			Int("pc", self.PC).
			Int("line", statement.Base().Line).
			Str("statement", statement.Keyword()).
			Msg("Step")

		signal, err := statement.Execute(self.Context)
		if err != nil {
			if result, done := self.intercept(err, statement); done {
				return result
			}
			continue
		}

		if signal == nil {
			self.PC++
			continue
		}

		if result, done := self.apply(signal, statement); done {
			return result
		}
	}
}

// apply performs the transition requested by a signal.
// If the run ends, the result is returned with done set.
func (self *VM) apply(signal Signal, statement Statement) (result Result, done bool) {
	self.log.Debug().
		Int("pc", self.PC).
		Stringer("signal", signal.Kind()).
		Msg("Applying signal")

	var err error

	switch s := signal.(type) {
	case GotoSignal:
		self.PC = s.Target
	case GosubSignal:
		if err = self.push(CallFrame{
			Kind:     GosubFrameKind,
			ReturnPC: self.PC + 1,
			CallerPC: self.PC,
		}); err == nil {
			self.PC = s.Target
		}
	case CallSignal:
		if s.ChunkIndex < 0 || s.ChunkIndex >= len(self.Program.Chunks) {
			return self.fatal(errors.NewFault(
				errors.InternalError,
				fmt.Sprintf("Call to undefined chunk %d", s.ChunkIndex),
				statement.Base().Span,
			)), true
		}
		if err = self.push(CallFrame{
			Kind:     CallFrameKind,
			ReturnPC: self.PC + 1,
			CallerPC: self.PC,
			Bindings: s.Bindings,
		}); err == nil {
			self.bind(s.Bindings)
			self.PC = self.Program.Chunks[s.ChunkIndex].Start
		}
	case ReturnSignal:
		err = self.pop(s.From)
	case HaltSignal:
		self.log.Debug().Int("pc", self.PC).Msg("Halted")
		return Result{Status: Halted, PC: self.PC}, true
	case StopSignal:
		self.PC++
		self.stopped = true
		return Result{Status: Stopped, PC: self.PC}, true
	case ClearSignal:
		err = self.clear()
		if err == nil {
			self.PC++
		}
	case RunSignal:
		if s.Program != "" {
			return Result{Status: Load, Program: s.Program, PC: self.PC}, true
		}
		// Files of the old context are unreachable after the restart.
		if err = self.Context.Files.CloseAll(); err == nil {
			cancelCtx := self.Context.CancelCtx
			self.reset(0)
			self.Context.CancelCtx = cancelCtx
		}
	case WaitSignal:
		if s.Awaitable != nil {
			err = s.Awaitable.Wait()
		}
		if err == nil {
			self.PC++
		}
	case ResumeSignal:
		var pc int
		pc, err = self.Context.ErrorHandling.Resume(s, statement.Base().Span)
		if err == nil {
			self.PC = pc
		}
	default:
		panic("A new signal kind was added without updating this code")
	}

	if err != nil {
		return self.intercept(err, statement)
	}

	return Result{}, false
}

func (self *VM) push(frame CallFrame) error {
	if uint(len(self.CallStack)) >= self.Limits.CallStackMaxSize {
		return errors.Raise(errors.OutOfStackSpace, errors.Span{})
	}
	self.CallStack = append(self.CallStack, frame)
	return nil
}

// bind writes the values of a pushed CALL frame. Nothing is written if the push fails.
func (self *VM) bind(bindings []Binding) {
	for _, binding := range bindings {
		self.Context.Memory.Write(binding.Parameter, binding.Value)
	}
}

func (self *VM) pop(from FrameKind) error {
	if len(self.CallStack) == 0 {
		return errors.Raise(errors.ReturnWithoutGosub, errors.Span{})
	}

	top := self.CallStack[len(self.CallStack)-1]
	if top.Kind != from {
		return errors.Raise(errors.ReturnWithoutGosub, errors.Span{})
	}
	self.CallStack = self.CallStack[:len(self.CallStack)-1]

	// Arguments are written after the parameters are restored, so an argument
	// which is itself a parameter of the caller keeps the callee's value.
	memory := self.Context.Memory
	finals := make([]values.Value, len(top.Bindings))
	for i, binding := range top.Bindings {
		finals[i], _ = memory.Read(binding.Parameter)
	}
	for i := len(top.Bindings) - 1; i >= 0; i-- {
		memory.Write(top.Bindings[i].Parameter, top.Bindings[i].Saved)
	}
	for i, binding := range top.Bindings {
		if binding.Argument != nil && finals[i] != nil {
			memory.Write(*binding.Argument, finals[i])
		}
	}

	self.PC = top.ReturnPC
	return nil
}

func (self *VM) clear() error {
	self.Context.Memory.Clear()
	self.Context.Data.Restore(0)
	self.Context.ErrorHandling.Reset()
	self.Context.Throttle.Reset()
	return self.Context.Files.CloseAll()
}

// intercept routes an error raised at the current statement.
// Trapped faults transfer control to the handler; everything else ends the run.
func (self *VM) intercept(err error, statement Statement) (Result, bool) {
	if goerrors.Is(err, ErrCancelled) {
		return self.cancelled(), true
	}

	node := statement.Base()

	fault, ok := errors.AsFault(err)
	if !ok {
		return self.fatal(errors.NewFault(errors.InternalError, err.Error(), node.Span)), true
	}

	if fault.Span.IsEmpty() {
		fault = errors.NewFault(fault.Code, fault.Message, node.Span)
	}

	target, handled := self.Context.ErrorHandling.Intercept(fault, node.Line, self.PC)
	if !handled {
		return self.fatal(fault), true
	}

	self.log.Debug().
		Int("pc", self.PC).
		Int("code", int(fault.Code)).
		Int("handler", target).
		Msg("Fault trapped")

	self.PC = target
	return Result{}, false
}

func (self *VM) cancelled() Result {
	self.Context.Scheduler.Abort()
	self.log.Debug().Int("pc", self.PC).Msg("Execution cancelled")
	return Result{Status: Cancelled, PC: self.PC}
}
