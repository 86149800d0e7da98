package qbvm

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

type test struct {
	Name           string
	File           string
	Skip           bool
	ExpectedStatus runtime.Status
	ExpectedOutput string
	ExpectedCode   errors.Code
	ExpectedLine   uint
}

var tests = []test{
	{
		Name:           "Sum",
		File:           "../test/programs/sum.qbi.yaml",
		ExpectedStatus: runtime.Halted,
		ExpectedOutput: "total 10 \n",
	},
	{
		Name:           "ResumeNext",
		File:           "../test/programs/resume_next.qbi.yaml",
		ExpectedStatus: runtime.Halted,
		ExpectedOutput: " 57  20 \nafter\n",
	},
	{
		Name:           "Factorial",
		File:           "../test/programs/factorial.qbi.yaml",
		ExpectedStatus: runtime.Halted,
		ExpectedOutput: " 120 \n",
	},
	{
		Name:           "SelectCase",
		File:           "../test/programs/select_case.qbi.yaml",
		ExpectedStatus: runtime.Halted,
		ExpectedOutput: "onefewmany\n",
	},
	{
		Name:           "Records",
		File:           "../test/programs/records.qbi.yaml",
		ExpectedStatus: runtime.Halted,
		ExpectedOutput: " 3  6  2  6  1  6 \n",
	},
	{
		Name:           "StackOverflow",
		File:           "../test/programs/stack_overflow.qbi.yaml",
		ExpectedStatus: runtime.Fatal,
		ExpectedCode:   errors.OutOfStackSpace,
		ExpectedLine:   6,
	},
	{
		Name:           "OutOfData",
		File:           "../test/programs/out_of_data.qbi.yaml",
		ExpectedStatus: runtime.Fatal,
		ExpectedOutput: "",
		ExpectedCode:   errors.OutOfData,
		ExpectedLine:   7,
	},
}

func TestPrograms(t *testing.T) {
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			if test.Skip {
				t.Skip()
			}

			var screen bytes.Buffer
			outcome, err := RunFile(context.Background(), test.File, Options{
				Devices: runtime.DefaultDevices(&screen),
			})
			require.NoError(t, err)

			require.Equal(t, test.ExpectedStatus, outcome.Status, spew.Sdump(outcome.Result))
			assert.Equal(t, test.ExpectedOutput, screen.String())

			if test.ExpectedStatus != runtime.Fatal {
				assert.Nil(t, outcome.Fault)
				return
			}

			require.NotNil(t, outcome.Fault)
			assert.Equal(t, test.ExpectedCode, outcome.Fault.Code)
			assert.Equal(t, test.ExpectedLine, outcome.Fault.Span.Start.Line)
			assert.Equal(t, test.File, outcome.Fault.Span.Filename)
			assert.NotEmpty(t, outcome.Trace)
		})
	}
}

func writeImage(t *testing.T, dir string, name string, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func TestRunChainsPrograms(t *testing.T) {
	dir := t.TempDir()
	first := writeImage(t, dir, "first.qbi.yaml", `
chunks:
  - statements:
      - { kind: print, items: [{ value: first }] }
      - { kind: run, name: second }
`)
	writeImage(t, dir, "second.qbi.yaml", `
chunks:
  - statements:
      - { kind: print, items: [{ value: second }] }
`)

	var screen bytes.Buffer
	outcome, err := RunFile(context.Background(), first, Options{Devices: runtime.DefaultDevices(&screen)})
	require.NoError(t, err)

	assert.Equal(t, runtime.Halted, outcome.Status)
	assert.Equal(t, "first\nsecond\n", screen.String())
	assert.Equal(t, filepath.Join(dir, "second.qbi.yaml"), outcome.Program.Name)
}

func TestRunChainedProgramUsesItsOwnDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	first := writeImage(t, dir, "first.qbi.yaml", `
chunks:
  - statements:
      - { kind: run, name: sub/second }
`)
	writeImage(t, filepath.Join(dir, "sub"), "second.qbi.yaml", `
chunks:
  - statements:
      - { kind: open, name: out.txt, mode: output, file: 1 }
      - { kind: print, file: 1, items: [{ value: chained }] }
`)

	outcome, err := RunFile(context.Background(), first, Options{})
	require.NoError(t, err)
	require.Equal(t, runtime.Halted, outcome.Status, spew.Sdump(outcome.Result))

	content, err := os.ReadFile(filepath.Join(dir, "sub", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "chained\n", string(content))

	_, err = os.Stat(filepath.Join(dir, "out.txt"))
	assert.True(t, os.IsNotExist(err))
}

type handle struct {
	bytes.Buffer
	closed bool
}

func (self *handle) Close() error {
	self.closed = true
	return nil
}

type memoryDisk struct {
	opened []*handle
}

func (self *memoryDisk) Open(_ string, _ runtime.FileMode) (io.Closer, error) {
	h := &handle{}
	self.opened = append(self.opened, h)
	return h, nil
}

func TestRunClosesFilesOnExit(t *testing.T) {
	tests := []struct {
		Name           string
		Last           string
		ExpectedStatus runtime.Status
	}{
		{
			Name:           "Halt",
			Last:           "{ kind: end }",
			ExpectedStatus: runtime.Halted,
		},
		{
			Name:           "Fatal fault",
			Last:           "{ kind: error, value: 5 }",
			ExpectedStatus: runtime.Fatal,
		},
		{
			Name:           "Stop without continuing",
			Last:           "{ kind: stop }",
			ExpectedStatus: runtime.Stopped,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			path := writeImage(t, t.TempDir(), "files.qbi.yaml", `
chunks:
  - statements:
      - { kind: open, name: a.txt, mode: output, file: 1 }
      - { kind: open, name: b.txt, mode: output, file: 2 }
      - `+test.Last+`
`)

			disk := &memoryDisk{}
			devices := runtime.DefaultDevices(nil)
			devices.Disk = disk

			outcome, err := RunFile(context.Background(), path, Options{Devices: devices})
			require.NoError(t, err)
			require.Equal(t, test.ExpectedStatus, outcome.Status, spew.Sdump(outcome.Result))

			require.Len(t, disk.opened, 2)
			for _, h := range disk.opened {
				assert.True(t, h.closed)
			}
		})
	}
}

func TestRunMissingChainedProgram(t *testing.T) {
	dir := t.TempDir()
	first := writeImage(t, dir, "first.qbi.yaml", `
chunks:
  - statements:
      - { kind: run, name: missing }
`)

	outcome, err := RunFile(context.Background(), first, Options{})
	require.NoError(t, err)

	require.Equal(t, runtime.Fatal, outcome.Status)
	assert.Equal(t, errors.FileNotFound, outcome.Fault.Code)
	assert.Equal(t, uint(4), outcome.Fault.Span.Start.Line)
}

func TestRunChainLimit(t *testing.T) {
	dir := t.TempDir()
	loop := writeImage(t, dir, "loop.qbi.yaml", `
chunks:
  - statements:
      - { kind: run, name: loop }
`)

	outcome, err := RunFile(context.Background(), loop, Options{MaxLoads: 3})
	require.NoError(t, err)

	require.Equal(t, runtime.Fatal, outcome.Status)
	assert.Equal(t, errors.OutOfMemory, outcome.Fault.Code)
}

func TestRunContinuesAfterStop(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "stop.qbi.yaml", `
chunks:
  - statements:
      - { kind: print, items: [{ value: before }] }
      - { kind: stop }
      - { kind: print, items: [{ value: after }] }
`)

	stops := 0
	var screen bytes.Buffer
	outcome, err := RunFile(context.Background(), path, Options{
		Devices: runtime.DefaultDevices(&screen),
		OnStop: func(vm *runtime.VM) bool {
			stops++
			assert.Equal(t, 2, vm.PC)
			return true
		},
	})
	require.NoError(t, err)

	assert.Equal(t, runtime.Halted, outcome.Status)
	assert.Equal(t, 1, stops)
	assert.Equal(t, "before\nafter\n", screen.String())
}

func TestRunFileLoadError(t *testing.T) {
	_, err := RunFile(context.Background(), filepath.Join(t.TempDir(), "none.qbi.yaml"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "File not found")
}

func TestImagePath(t *testing.T) {
	tests := []struct {
		Name     string
		Dir      string
		Program  string
		Expected string
	}{
		{Name: "bare name", Dir: "progs", Program: "menu", Expected: filepath.Join("progs", "menu.qbi.yaml")},
		{Name: "basic extension", Dir: "progs", Program: "MENU.BAS", Expected: filepath.Join("progs", "MENU.qbi.yaml")},
		{Name: "image", Dir: "progs", Program: "menu.qbi.yaml", Expected: filepath.Join("progs", "menu.qbi.yaml")},
		{Name: "absolute", Dir: "progs", Program: "/srv/menu.yml", Expected: "/srv/menu.yml"},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			assert.Equal(t, test.Expected, ImagePath(test.Dir, test.Program))
		})
	}
}
