package statements

import (
	"time"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

const (
	beepFrequency = 800
	beepDuration  = 250 * time.Millisecond

	// SOUND durations are given in timer ticks.
	ticksPerSecond = 1193180.0 / 65535.0
	maxTicks       = 65535
	minFrequency   = 37
	maxFrequency   = 32767

	frameWaitKey = "frame"
)

func tone(ctx *runtime.Context, node *runtime.Node, frequency float64, duration time.Duration) (runtime.Signal, error) {
	if ctx.Devices.Speaker == nil {
		return nil, node.Raise(errors.AdvancedFeatureUnavailable)
	}
	task := ctx.Devices.Speaker.Tone(frequency, duration)
	return runtime.WaitSignal{Awaitable: ctx.Schedule(task)}, nil
}

type Beep struct {
	runtime.Node
}

func (_ *Beep) Keyword() string { return "BEEP" }

func (self *Beep) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	return tone(ctx, &self.Node, beepFrequency, beepDuration)
}

// Sound plays a tone. A frequency of 0 is a rest.
type Sound struct {
	runtime.Node
	Frequency Expr
	Duration  Expr
}

func (_ *Sound) Keyword() string { return "SOUND" }

func (self *Sound) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	frequency, err := evaluateInteger(ctx, &self.Node, self.Frequency)
	if err != nil {
		return nil, err
	}
	if frequency != 0 && (frequency < minFrequency || frequency > maxFrequency) {
		return nil, self.Raise(errors.IllegalFunctionCall)
	}

	// Fractional durations are common in sound effect loops.
	ticks, err := evaluateNumber(ctx, &self.Node, self.Duration)
	if err != nil {
		return nil, err
	}
	if ticks < 0 || ticks > maxTicks {
		return nil, self.Raise(errors.IllegalFunctionCall)
	}

	duration := time.Duration(ticks / ticksPerSecond * float64(time.Second))
	return tone(ctx, &self.Node, float64(frequency), duration)
}

// FrameWait is a busy-wait on the display's vertical retrace.
// Only every Every-th execution in a run actually waits for one frame.
type FrameWait struct {
	runtime.Node
	Every uint
}

func (_ *FrameWait) Keyword() string { return "WAIT" }

func (self *FrameWait) Execute(ctx *runtime.Context) (runtime.Signal, error) {
	if !ctx.Throttle.Tick(frameWaitKey, self.Every) {
		return nil, nil
	}
	return runtime.WaitSignal{Awaitable: ctx.Schedule(runtime.Delay(runtime.FrameDuration))}, nil
}
