package runtime

import (
	goerrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/retro-basic/qbvm/qbvm/errors"
)

// HostDisk maps file names onto a directory of the host file system.
type HostDisk struct {
	Root string
}

func (self HostDisk) Open(name string, mode FileMode) (io.Closer, error) {
	if name == "" || strings.ContainsAny(name, "*?") {
		return nil, errors.Raise(errors.BadFileName, errors.Span{})
	}

	path := filepath.Join(self.Root, filepath.Clean("/"+name))

	var file *os.File
	var err error

	switch mode {
	case InputMode:
		file, err = os.Open(path)
	case OutputMode:
		file, err = os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	case AppendMode:
		file, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	default:
		panic("A new file mode was added without updating this code")
	}

	switch {
	case err == nil && mode == InputMode:
		return inputFile{file: file}, nil
	case err == nil:
		return file, nil
	case goerrors.Is(err, fs.ErrNotExist):
		return nil, errors.Raise(errors.FileNotFound, errors.Span{})
	default:
		return nil, errors.NewFault(
			errors.DeviceIOError,
			fmt.Sprintf("%s: %s", errors.DeviceIOError, err.Error()),
			errors.Span{},
		)
	}
}

// inputFile hides the write side of a file opened FOR INPUT.
type inputFile struct {
	file *os.File
}

func (self inputFile) Read(p []byte) (int, error) { return self.file.Read(p) }

func (self inputFile) Close() error { return self.file.Close() }
