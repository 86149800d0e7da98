package runtime

type SignalKind uint8

const (
	GotoSignalKind SignalKind = iota
	GosubSignalKind
	CallSignalKind
	ReturnSignalKind
	HaltSignalKind
	StopSignalKind
	ClearSignalKind
	RunSignalKind
	WaitSignalKind
	ResumeSignalKind
)

func (self SignalKind) String() string {
	switch self {
	case GotoSignalKind:
		return "GOTO"
	case GosubSignalKind:
		return "GOSUB"
	case CallSignalKind:
		return "CALL"
	case ReturnSignalKind:
		return "RETURN"
	case HaltSignalKind:
		return "HALT"
	case StopSignalKind:
		return "STOP"
	case ClearSignalKind:
		return "CLEAR"
	case RunSignalKind:
		return "RUN"
	case WaitSignalKind:
		return "WAIT"
	case ResumeSignalKind:
		return "RESUME"
	default:
		panic("A new signal kind was added without updating this code")
	}
}

// Signal is the non-exceptional outcome of executing a statement.
// A nil signal means "fall through to the next statement".
type Signal interface {
	Kind() SignalKind
}

type GotoSignal struct {
	Target int
}

func (_ GotoSignal) Kind() SignalKind { return GotoSignalKind }

type GosubSignal struct {
	Target int
}

func (_ GosubSignal) Kind() SignalKind { return GosubSignalKind }

// CallSignal enters a chunk. Bindings are restored when the matching RETURN pops the frame.
type CallSignal struct {
	ChunkIndex int
	Bindings   []Binding
}

func (_ CallSignal) Kind() SignalKind { return CallSignalKind }

// ReturnSignal pops a frame. From must match the kind of frame on top of the stack.
type ReturnSignal struct {
	From FrameKind
}

func (_ ReturnSignal) Kind() SignalKind { return ReturnSignalKind }

type HaltSignal struct{}

func (_ HaltSignal) Kind() SignalKind { return HaltSignalKind }

type StopSignal struct{}

func (_ StopSignal) Kind() SignalKind { return StopSignalKind }

type ClearSignal struct{}

func (_ ClearSignal) Kind() SignalKind { return ClearSignalKind }

// RunSignal restarts the program, or asks the host to load Program if it is set.
type RunSignal struct {
	Program string
}

func (_ RunSignal) Kind() SignalKind { return RunSignalKind }

type WaitSignal struct {
	Awaitable *Awaitable
}

func (_ WaitSignal) Kind() SignalKind { return WaitSignalKind }

// ResumeSignal leaves an error handler.
// With HasTarget, execution continues at Target; otherwise at the faulting
// statement, or the one after it if Next is set.
type ResumeSignal struct {
	Target    int
	HasTarget bool
	Next      bool
}

func (_ ResumeSignal) Kind() SignalKind { return ResumeSignalKind }
