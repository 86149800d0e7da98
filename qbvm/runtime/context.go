package runtime

import (
	"context"
	"io"
)

// Context is the per-run aggregate handed to every statement.
// It is recreated on RUN and partially reset on CLEAR.
type Context struct {
	Memory        Memory
	Data          Data
	Files         Files
	ErrorHandling *ErrorHandling
	Random        *RandomNumbers
	Devices       Devices
	Scheduler     *Scheduler
	Throttle      *Throttle
	// Cancelled when the run is aborted from outside. Set by the driver.
	CancelCtx context.Context
}

func NewContext(devices Devices, data []DataItem) *Context {
	return &Context{
		Memory:        NewMemory(),
		Data:          NewDataTable(data),
		Files:         NewFileTable(),
		ErrorHandling: NewErrorHandling(),
		Random:        NewRandomNumbers(),
		Devices:       devices,
		Scheduler:     NewScheduler(),
		Throttle:      NewThrottle(),
		CancelCtx:     context.Background(),
	}
}

// Schedule starts a device task bound to the run's cancellation.
func (self *Context) Schedule(task Task) *Awaitable {
	return self.Scheduler.Schedule(self.CancelCtx, task)
}

func (self *Context) Screen() io.Writer {
	if self.Devices.Screen == nil {
		return io.Discard
	}
	return self.Devices.Screen
}
