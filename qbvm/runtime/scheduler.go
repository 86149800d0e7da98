package runtime

import (
	"context"
	goerrors "errors"
	"sync"
)

// ErrCancelled is returned by Wait if the run was cancelled before the task settled.
var ErrCancelled = goerrors.New("execution cancelled")

// Task is a unit of device work. Start must eventually call resolve or reject
// exactly once, unless Cancel is called first.
type Task struct {
	Start  func(resolve func(), reject func(err error))
	Cancel func()
}

// Awaitable is the handle of a scheduled task.
type Awaitable struct {
	done      chan struct{}
	once      sync.Once
	err       error
	cancel    func()
	cancelCtx context.Context
}

func (self *Awaitable) settle(err error) {
	self.once.Do(func() {
		self.err = err
		close(self.done)
	})
}

// Done is closed once the task has resolved, rejected or was cancelled.
func (self *Awaitable) Done() <-chan struct{} {
	return self.done
}

// Wait blocks until the task settles or the run is cancelled.
// On cancellation the task's Cancel callback runs and ErrCancelled is returned.
func (self *Awaitable) Wait() error {
	select {
	case <-self.done:
		return self.err
	case <-self.cancelCtx.Done():
		self.Cancel()
		return ErrCancelled
	}
}

// Cancel aborts the task if it has not settled yet.
func (self *Awaitable) Cancel() {
	select {
	case <-self.done:
		return
	default:
	}
	if self.cancel != nil {
		self.cancel()
	}
	self.settle(ErrCancelled)
}

// Resolved returns an awaitable that has already settled successfully.
func Resolved() *Awaitable {
	awaitable := &Awaitable{
		done:      make(chan struct{}),
		cancelCtx: context.Background(),
	}
	awaitable.settle(nil)
	return awaitable
}

// Scheduler starts device tasks and keeps track of the ones still outstanding.
type Scheduler struct {
	lock        sync.Mutex
	outstanding map[*Awaitable]struct{}
}

func NewScheduler() *Scheduler {
	return &Scheduler{outstanding: make(map[*Awaitable]struct{})}
}

func (self *Scheduler) Schedule(cancelCtx context.Context, task Task) *Awaitable {
	if cancelCtx == nil {
		cancelCtx = context.Background()
	}

	awaitable := &Awaitable{
		done:      make(chan struct{}),
		cancel:    task.Cancel,
		cancelCtx: cancelCtx,
	}

	self.lock.Lock()
	self.outstanding[awaitable] = struct{}{}
	self.lock.Unlock()

	finish := func(err error) {
		awaitable.settle(err)
		self.lock.Lock()
		delete(self.outstanding, awaitable)
		self.lock.Unlock()
	}

	if task.Start == nil {
		finish(nil)
		return awaitable
	}

	task.Start(
		func() { finish(nil) },
		func(err error) { finish(err) },
	)

	return awaitable
}

// Abort cancels every outstanding task.
func (self *Scheduler) Abort() {
	self.lock.Lock()
	pending := make([]*Awaitable, 0, len(self.outstanding))
	for awaitable := range self.outstanding {
		pending = append(pending, awaitable)
	}
	self.outstanding = make(map[*Awaitable]struct{})
	self.lock.Unlock()

	for _, awaitable := range pending {
		awaitable.Cancel()
	}
}

// Pending returns the number of tasks which have not settled yet.
func (self *Scheduler) Pending() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return len(self.outstanding)
}
