package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// fieldPatterns constrain well-known text fields. Empty input is always
// accepted since blank fields are legal everywhere.
var fieldPatterns = map[string]string{
	LabelCPF:        `^$|^\d{3}\.?\d{3}\.?\d{3}-?\d{2}$`,
	LabelPostalCode: `^$|^\d{5}-?\d{3}$`,
	LabelEmail:      `^$|^[^@\s]+@[^@\s]+\.[^@\s]+$`,
}

// Issue is a single validation finding for a state document.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// Schema describes a state file for def as an OpenAPI 3 schema object.
// Additional properties stay allowed because loading ignores unknown keys.
func Schema(def *Definition) *openapi3.Schema {
	if def == nil {
		def = DefaultDefinition()
	}
	root := openapi3.NewObjectSchema()
	root.Title = "docfill form state"

	for _, field := range def.Fields {
		prop := openapi3.NewStringSchema()
		prop.Description = field.Help
		switch field.Kind {
		case FieldKindSelect:
			values := make([]any, 0, len(field.Options))
			for _, option := range field.Options {
				values = append(values, option)
			}
			prop = prop.WithEnum(values...)
		case FieldKindDate:
			prop = prop.WithPattern(`^\d{4}-\d{2}-\d{2}$`)
		default:
			if pattern, ok := fieldPatterns[field.Label]; ok {
				prop = prop.WithPattern(pattern)
			}
		}
		root = root.WithProperty(field.Label, prop)
	}

	item := openapi3.NewStringSchema()
	if len(def.Equipment.Catalog) > 0 {
		values := make([]any, 0, len(def.Equipment.Catalog))
		for _, entry := range def.Equipment.Catalog {
			values = append(values, entry)
		}
		item = item.WithEnum(values...)
	}
	root = root.WithProperty(def.Equipment.Label, openapi3.NewArraySchema().WithItems(item).WithUniqueItems(true))
	return root
}

// Validate checks a raw state document against Schema(def). Decoding errors
// are returned as errors; schema violations are returned as issues sorted by
// field.
func Validate(def *Definition, data []byte) ([]Issue, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("form: decode state: %w", err)
	}

	err := Schema(def).VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil, nil
	}

	var issues []Issue
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			issues = append(issues, issueFrom(inner))
		}
	} else {
		issues = append(issues, issueFrom(err))
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues, nil
}

func issueFrom(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return Issue{
			Field:   strings.Join(schemaErr.JSONPointer(), "/"),
			Message: strings.TrimSpace(schemaErr.Reason),
		}
	}
	return Issue{Message: strings.TrimSpace(err.Error())}
}
