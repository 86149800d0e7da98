package runtime

import (
	"fmt"
	"io"
	"sort"

	"github.com/retro-basic/qbvm/qbvm/errors"
)

const maxFileNumber = 255

// Files is the open-file table, keyed by file number.
// Failures are reported as faults so programs can trap them.
type Files interface {
	Open(number int, handle io.Closer) error
	Handle(number int) (io.Closer, error)
	Close(number int) error
	CloseAll() error
}

type FileTable struct {
	handles map[int]io.Closer
}

func NewFileTable() *FileTable {
	return &FileTable{handles: make(map[int]io.Closer)}
}

func checkFileNumber(number int) error {
	if number < 1 || number > maxFileNumber {
		return errors.Raise(errors.BadFileNameOrNumber, errors.Span{})
	}
	return nil
}

func (self *FileTable) Open(number int, handle io.Closer) error {
	if err := checkFileNumber(number); err != nil {
		return err
	}
	if _, found := self.handles[number]; found {
		return errors.Raise(errors.FileAlreadyOpen, errors.Span{})
	}
	self.handles[number] = handle
	return nil
}

func (self *FileTable) Handle(number int) (io.Closer, error) {
	if err := checkFileNumber(number); err != nil {
		return nil, err
	}
	handle, found := self.handles[number]
	if !found {
		return nil, errors.Raise(errors.BadFileNameOrNumber, errors.Span{})
	}
	return handle, nil
}

func (self *FileTable) Close(number int) error {
	handle, err := self.Handle(number)
	if err != nil {
		return err
	}
	delete(self.handles, number)

	if err := handle.Close(); err != nil {
		return errors.NewFault(
			errors.DeviceIOError,
			fmt.Sprintf("%s: %s", errors.DeviceIOError, err.Error()),
			errors.Span{},
		)
	}
	return nil
}

// CloseAll closes every handle in file number order and reports the first failure.
func (self *FileTable) CloseAll() error {
	numbers := make([]int, 0, len(self.handles))
	for number := range self.handles {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	var first error
	for _, number := range numbers {
		if err := self.Close(number); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (self *FileTable) Len() int {
	return len(self.handles)
}
