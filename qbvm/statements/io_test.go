package statements

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
	"github.com/retro-basic/qbvm/qbvm/values"
)

func TestReadRestore(t *testing.T) {
	ctx := runtime.NewContext(runtime.DefaultDevices(nil), []runtime.DataItem{
		{Text: "12"},
		{Text: "hello", Quoted: true},
		{Text: " 2.5 "},
		{Text: "70000"},
	})

	i := variable("I%", values.IntegerValueKind)
	s := variable("S$", values.StringValueKind)
	d := variable("D#", values.DoubleValueKind)

	_, err := (&Read{Node: node(1), Variables: []runtime.Variable{i, s, d}}).Execute(ctx)
	require.NoError(t, err)

	v, _ := ctx.Memory.Read(i)
	assert.True(t, v.IsEqual(values.Integer(12)))
	v, _ = ctx.Memory.Read(s)
	assert.True(t, v.IsEqual(values.NewValueString("hello")))
	v, _ = ctx.Memory.Read(d)
	assert.True(t, v.IsEqual(values.Double(2.5)))

	_, err = (&Read{Node: node(2), Variables: []runtime.Variable{i}}).Execute(ctx)
	requireFault(t, err, errors.Overflow)

	_, err = (&Read{Node: node(3), Variables: []runtime.Variable{i}}).Execute(ctx)
	requireFault(t, err, errors.OutOfData)

	_, err = (&Restore{Node: node(4), Pointer: 1}).Execute(ctx)
	require.NoError(t, err)
	_, err = (&Read{Node: node(5), Variables: []runtime.Variable{i}}).Execute(ctx)
	requireFault(t, err, errors.SyntaxError)
}

type recordingSpeaker struct {
	frequency float64
	duration  time.Duration
}

func (self *recordingSpeaker) Tone(frequency float64, duration time.Duration) runtime.Task {
	self.frequency = frequency
	self.duration = duration
	return runtime.Task{Start: func(resolve func(), _ func(error)) { resolve() }}
}

func TestSound(t *testing.T) {
	type testCase struct {
		Name      string
		Frequency Expr
		Duration  Expr
		Fault     errors.Code
		Expected  time.Duration
	}

	tests := []testCase{
		{Name: "One second", Frequency: integer(440), Duration: lit(values.Single(18.2)), Expected: time.Second},
		{Name: "Rest", Frequency: integer(0), Duration: integer(0), Expected: 0},
		{Name: "Inaudible", Frequency: integer(36), Duration: integer(1), Fault: errors.IllegalFunctionCall},
		{Name: "Negative duration", Frequency: integer(440), Duration: integer(-1), Fault: errors.IllegalFunctionCall},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			speaker := &recordingSpeaker{}
			devices := runtime.DefaultDevices(nil)
			devices.Speaker = speaker
			ctx := runtime.NewContext(devices, nil)

			signal, err := (&Sound{Node: node(1), Frequency: test.Frequency, Duration: test.Duration}).Execute(ctx)
			if test.Fault != errors.NoError {
				requireFault(t, err, test.Fault)
				return
			}

			require.NoError(t, err)
			wait, ok := signal.(runtime.WaitSignal)
			require.True(t, ok)
			assert.NoError(t, wait.Awaitable.Wait())
			assert.InDelta(t, test.Expected, speaker.duration, float64(10*time.Millisecond))
		})
	}
}

func TestBeepWithoutSpeaker(t *testing.T) {
	ctx := newContext()
	ctx.Devices.Speaker = nil

	_, err := (&Beep{Node: node(1)}).Execute(ctx)
	requireFault(t, err, errors.AdvancedFeatureUnavailable)
}

func TestBeep(t *testing.T) {
	speaker := &recordingSpeaker{}
	ctx := newContext()
	ctx.Devices.Speaker = speaker

	signal, err := (&Beep{Node: node(1)}).Execute(ctx)
	require.NoError(t, err)
	assert.IsType(t, runtime.WaitSignal{}, signal)
	assert.Equal(t, float64(beepFrequency), speaker.frequency)
}

func TestFrameWaitIsThrottled(t *testing.T) {
	ctx := newContext()
	wait := &FrameWait{Node: node(1), Every: 3}

	waits := 0
	for i := 0; i < 9; i++ {
		signal, err := wait.Execute(ctx)
		require.NoError(t, err)
		if signal != nil {
			waits++
			assert.IsType(t, runtime.WaitSignal{}, signal)
		}
	}
	assert.Equal(t, 3, waits)

	fresh := newContext()
	signal, _ := wait.Execute(fresh)
	assert.Nil(t, signal, "counters belong to the context")
}

func TestPrint(t *testing.T) {
	type testCase struct {
		Name     string
		Items    []PrintItem
		Expected string
	}

	tests := []testCase{
		{Name: "Empty line", Items: nil, Expected: "\n"},
		{
			Name:     "Numbers get sign and trailing space",
			Items:    []PrintItem{{Value: integer(5), Separator: Semicolon}, {Value: integer(-3)}},
			Expected: " 5 -3 \n",
		},
		{
			Name:     "Trailing semicolon suppresses the newline",
			Items:    []PrintItem{{Value: str("A"), Separator: Semicolon}},
			Expected: "A",
		},
		{
			Name:     "Comma advances to the next zone",
			Items:    []PrintItem{{Value: str("AB"), Separator: Comma}, {Value: str("C")}},
			Expected: "AB            C\n",
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var screen bytes.Buffer
			ctx := runtime.NewContext(runtime.DefaultDevices(&screen), nil)

			_, err := (&Print{Node: node(1), Items: test.Items}).Execute(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.Expected, screen.String())
		})
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "IN.TXT"), []byte("data"), 0o644))

	devices := runtime.DefaultDevices(nil)
	ctx := runtime.NewContext(devices, nil)

	_, err := (&Open{Node: node(1), Name: str("OUT.TXT"), Mode: runtime.OutputMode, Number: integer(1)}).Execute(ctx)
	requireFault(t, err, errors.AdvancedFeatureUnavailable)

	ctx.Devices.Disk = runtime.HostDisk{Root: root}

	_, err = (&Open{Node: node(2), Name: str("OUT.TXT"), Mode: runtime.OutputMode, Number: integer(1)}).Execute(ctx)
	require.NoError(t, err)

	_, err = (&Open{Node: node(3), Name: str("OUT.TXT"), Mode: runtime.OutputMode, Number: integer(1)}).Execute(ctx)
	requireFault(t, err, errors.FileAlreadyOpen)

	_, err = (&Open{Node: node(4), Name: str("MISSING.TXT"), Mode: runtime.InputMode, Number: integer(2)}).Execute(ctx)
	fault := requireFault(t, err, errors.FileNotFound)
	assert.Equal(t, span(4), fault.Span)

	_, err = (&Open{Node: node(5), Name: str("IN.TXT"), Mode: runtime.InputMode, Number: integer(0)}).Execute(ctx)
	requireFault(t, err, errors.BadFileNameOrNumber)

	_, err = (&Open{Node: node(6), Name: str("IN.TXT"), Mode: runtime.InputMode, Number: integer(2)}).Execute(ctx)
	require.NoError(t, err)

	_, err = (&Print{Node: node(7), File: integer(1), Items: []PrintItem{{Value: str("HI")}}}).Execute(ctx)
	require.NoError(t, err)

	_, err = (&Print{Node: node(8), File: integer(2), Items: []PrintItem{{Value: str("HI")}}}).Execute(ctx)
	requireFault(t, err, errors.BadFileMode)

	_, err = (&Print{Node: node(9), File: integer(3)}).Execute(ctx)
	fault = requireFault(t, err, errors.BadFileNameOrNumber)
	assert.Equal(t, span(9), fault.Span)

	_, err = (&Close{Node: node(10), Numbers: []Expr{integer(1)}}).Execute(ctx)
	require.NoError(t, err)

	_, err = (&Close{Node: node(11), Numbers: []Expr{integer(1)}}).Execute(ctx)
	requireFault(t, err, errors.BadFileNameOrNumber)

	_, err = (&Close{Node: node(12)}).Execute(ctx)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(root, "OUT.TXT"))
	require.NoError(t, err)
	assert.Equal(t, "HI\n", string(written))
}
