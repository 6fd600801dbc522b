package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConverterNotFound reports that the converter binary could not be located.
var ErrConverterNotFound = errors.New("export: converter not found")

// ConversionError reports a converter run that exited with a failure status.
type ConversionError struct {
	ExitCode int
	Stderr   string
}

func (e *ConversionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("export: converter exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("export: converter exited with status %d: %s", e.ExitCode, msg)
}
