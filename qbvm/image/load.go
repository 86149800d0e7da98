package image

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/retro-basic/qbvm/qbvm/errors"
	"github.com/retro-basic/qbvm/qbvm/runtime"
)

var yamlErrorLine = regexp.MustCompile(`^(?:yaml: )?line (\d+): (.*)$`)

// Decode parses an image without linking it.
func Decode(r io.Reader, filename string) (*Image, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var image Image
	if err := decoder.Decode(&image); err != nil {
		if goerrors.Is(err, io.EOF) {
			return nil, &LoadError{
				Code:    errors.SyntaxError,
				Message: "image is empty",
				Span:    errors.Span{Filename: filename},
			}
		}
		return nil, decodeError(err, filename)
	}

	return &image, nil
}

// decodeError reports the first problem found by the YAML decoder.
func decodeError(err error, filename string) *LoadError {
	message := err.Error()
	var typeErr *yaml.TypeError
	if goerrors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		message = typeErr.Errors[0]
	}

	loadErr := &LoadError{
		Code:    errors.SyntaxError,
		Message: message,
		Span:    errors.Span{Filename: filename},
	}

	if match := yamlErrorLine.FindStringSubmatch(message); match != nil {
		line, _ := strconv.ParseUint(match[1], 10, 32)
		loadErr.Message = match[2]
		loadErr.Span.Start = errors.Location{Line: uint(line), Column: 1}
		loadErr.Span.End = loadErr.Span.Start
	}

	return loadErr
}

// Link resolves an image into an executable program.
func Link(image *Image, filename string) (*runtime.Program, error) {
	return newLinker(image, filename).link()
}

// Load decodes and links an image. The YAML text is kept as the program's source.
func Load(r io.Reader, filename string) (*runtime.Program, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	image, err := Decode(bytes.NewReader(source), filename)
	if err != nil {
		return nil, err
	}

	program, err := Link(image, filename)
	if err != nil {
		return nil, err
	}
	if program.Name == "" {
		program.Name = filename
	}
	program.Source = string(source)

	return program, nil
}

func LoadFile(path string) (*runtime.Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{
			Code:    errors.FileNotFound,
			Message: fmt.Sprintf("%s: %s", errors.FileNotFound, err),
			Span:    errors.Span{Filename: path},
		}
	}
	defer file.Close()

	return Load(file, path)
}
