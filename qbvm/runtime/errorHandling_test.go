package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
)

func TestErrorHandlingInitialState(t *testing.T) {
	handling := NewErrorHandling()
	assert.False(t, handling.Active)
	assert.False(t, handling.HasHandler)
	assert.Equal(t, 0, handling.Erl())
	assert.Equal(t, errors.NoError, handling.Err())
}

func TestInterceptRequiresInactiveHandler(t *testing.T) {
	handling := NewErrorHandling()
	fault := errors.Raise(errors.Overflow, testSpan(10))

	_, handled := handling.Intercept(fault, 10, 3)
	assert.False(t, handled, "no handler installed")

	handling.Install(7, testSpan(5))
	handling.Install(8, testSpan(6))

	target, handled := handling.Intercept(fault, 10, 3)
	require.True(t, handled)
	assert.Equal(t, 8, target, "installing again replaces the target")
	assert.True(t, handling.Active)
	assert.Equal(t, 3, handling.FaultIndex)

	_, handled = handling.Intercept(errors.Raise(errors.TypeMismatch, testSpan(11)), 11, 4)
	assert.False(t, handled, "already handling")
	assert.Equal(t, errors.Overflow, handling.Err(), "first fault is kept")
}

func TestResumeTargets(t *testing.T) {
	type testCase struct {
		Name     string
		Signal   ResumeSignal
		Expected int
	}

	tests := []testCase{
		{Name: "RESUME", Signal: ResumeSignal{}, Expected: 4},
		{Name: "RESUME NEXT", Signal: ResumeSignal{Next: true}, Expected: 5},
		{Name: "RESUME line", Signal: ResumeSignal{Target: 9, HasTarget: true}, Expected: 9},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			handling := NewErrorHandling()
			handling.Install(20, errors.Span{})
			_, handled := handling.Intercept(errors.Raise(errors.Overflow, errors.Span{}), 40, 4)
			require.True(t, handled)

			pc, err := handling.Resume(test.Signal, errors.Span{})
			require.NoError(t, err)
			assert.Equal(t, test.Expected, pc)
			assert.False(t, handling.Active)
			assert.True(t, handling.HasHandler, "the handler stays installed")
			assert.Equal(t, 40, handling.Erl())
		})
	}
}

func TestResumeWhileInactive(t *testing.T) {
	handling := NewErrorHandling()
	_, err := handling.Resume(ResumeSignal{}, testSpan(3))

	fault, ok := errors.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, errors.ResumeWithoutError, fault.Code)
	assert.Equal(t, testSpan(3), fault.Span)
}

func TestDisarmWhileHandling(t *testing.T) {
	handling := NewErrorHandling()
	handling.Install(1, errors.Span{})
	handling.Intercept(errors.Raise(errors.BadFileMode, testSpan(2)), 2, 2)

	err := handling.Disarm(testSpan(9))
	fault, ok := errors.AsFault(err)
	require.True(t, ok)
	assert.Equal(t, errors.BadFileMode, fault.Code)
	assert.Equal(t, testSpan(9), fault.Span)
}

func TestResetClearsEverything(t *testing.T) {
	handling := NewErrorHandling()
	handling.Install(1, errors.Span{})
	handling.Intercept(errors.Raise(errors.Overflow, errors.Span{}), 30, 2)

	handling.Reset()
	assert.Equal(t, *NewErrorHandling(), *handling)
}
