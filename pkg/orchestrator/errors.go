package orchestrator

import "errors"

// ErrMissingName is returned when no output path was requested and the
// collaborator name is empty, so no document name can be derived.
var ErrMissingName = errors.New("orchestrator: collaborator name is required to name the document")
