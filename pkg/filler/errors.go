package filler

import "errors"

var (
	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("filler: template not found")
	// ErrOutputIsTemplate guards the template against being overwritten.
	ErrOutputIsTemplate = errors.New("filler: output path is the template")
)
