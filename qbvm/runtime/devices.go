package runtime

import (
	"io"
	"time"
)

// FrameDuration is the length of one display frame.
const FrameDuration = time.Second / 60

// Speaker produces tones. The returned task settles once the tone has played.
type Speaker interface {
	Tone(frequency float64, duration time.Duration) Task
}

type FileMode uint8

const (
	InputMode FileMode = iota
	OutputMode
	AppendMode
)

func (self FileMode) String() string {
	switch self {
	case InputMode:
		return "INPUT"
	case OutputMode:
		return "OUTPUT"
	case AppendMode:
		return "APPEND"
	default:
		panic("A new file mode was added without updating this code")
	}
}

// Disk opens files on behalf of OPEN. Failures should be faults.
type Disk interface {
	Open(name string, mode FileMode) (io.Closer, error)
}

// Devices groups the emulated hardware a program can reach.
// A nil Speaker or Disk makes the related statements fail with
// "Advanced feature unavailable".
type Devices struct {
	Speaker Speaker
	Disk    Disk
	Screen  io.Writer
	Clock   func() time.Time
}

func DefaultDevices(screen io.Writer) Devices {
	if screen == nil {
		screen = io.Discard
	}
	return Devices{
		Speaker: SilentSpeaker{},
		Screen:  screen,
		Clock:   time.Now,
	}
}

// Delay is a task which resolves after d.
func Delay(d time.Duration) Task {
	var timer *time.Timer
	return Task{
		Start: func(resolve func(), _ func(error)) {
			timer = time.AfterFunc(d, resolve)
		},
		Cancel: func() {
			if timer != nil {
				timer.Stop()
			}
		},
	}
}

// SilentSpeaker takes as long as the tone would but makes no sound.
type SilentSpeaker struct{}

func (_ SilentSpeaker) Tone(_ float64, duration time.Duration) Task {
	return Delay(duration)
}
