package image

import (
	"fmt"

	"github.com/retro-basic/qbvm/qbvm/errors"
)

// LoadError is a problem found while decoding or linking an image.
type LoadError struct {
	Code    errors.Code
	Message string
	Notes   []string
	Span    errors.Span
}

func (self *LoadError) Error() string {
	if self.Span.IsEmpty() {
		return self.Message
	}
	return fmt.Sprintf("%s at %s", self.Message, self.Span)
}
