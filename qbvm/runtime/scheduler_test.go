package runtime

import (
	"context"
	goerrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleResolve(t *testing.T) {
	scheduler := NewScheduler()
	awaitable := scheduler.Schedule(context.Background(), Delay(time.Millisecond))
	assert.NoError(t, awaitable.Wait())
	assert.Equal(t, 0, scheduler.Pending())
}

func TestScheduleReject(t *testing.T) {
	failure := goerrors.New("speaker unplugged")

	scheduler := NewScheduler()
	awaitable := scheduler.Schedule(context.Background(), Task{
		Start: func(_ func(), reject func(error)) {
			go reject(failure)
		},
	})

	assert.ErrorIs(t, awaitable.Wait(), failure)
}

func TestScheduleWithoutStartResolves(t *testing.T) {
	awaitable := NewScheduler().Schedule(nil, Task{})
	assert.NoError(t, awaitable.Wait())
	assert.NoError(t, Resolved().Wait())
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cancelled := 0
	awaitable := NewScheduler().Schedule(ctx, Task{
		Start:  func(_ func(), _ func(error)) {},
		Cancel: func() { cancelled++ },
	})

	assert.ErrorIs(t, awaitable.Wait(), ErrCancelled)
	assert.ErrorIs(t, awaitable.Wait(), ErrCancelled)
	assert.Equal(t, 1, cancelled, "cancel runs once")
}

func TestAbort(t *testing.T) {
	scheduler := NewScheduler()

	cancelled := 0
	for i := 0; i < 3; i++ {
		scheduler.Schedule(context.Background(), Task{
			Start:  func(_ func(), _ func(error)) {},
			Cancel: func() { cancelled++ },
		})
	}
	scheduler.Schedule(context.Background(), Delay(0)).Wait()

	assert.Equal(t, 3, scheduler.Pending())
	scheduler.Abort()
	assert.Equal(t, 3, cancelled)
	assert.Equal(t, 0, scheduler.Pending())
}

func TestCancelAfterResolveIsNoop(t *testing.T) {
	cancelled := false
	awaitable := NewScheduler().Schedule(context.Background(), Task{
		Start:  func(resolve func(), _ func(error)) { resolve() },
		Cancel: func() { cancelled = true },
	})

	awaitable.Cancel()
	assert.NoError(t, awaitable.Wait())
	assert.False(t, cancelled)
}
