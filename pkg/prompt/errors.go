package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoOptions is returned when a select field has nothing to choose from.
	ErrNoOptions = errors.New("prompt: select field has no options")
)
