package docx

import "errors"

// ErrInvalidDocument is returned when a package is not a readable .docx.
var ErrInvalidDocument = errors.New("docx: invalid document")
