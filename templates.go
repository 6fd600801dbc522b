package docfill

import (
	"io/fs"

	"github.com/goliatone/go-docfill/pkg/preview"
)

// EmbeddedTemplates exposes the built-in preview templates so callers can
// reuse or extend them without importing the preview package directly.
func EmbeddedTemplates() fs.FS {
	return preview.TemplatesFS()
}
