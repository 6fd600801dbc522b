package form

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKind identifies how a field is collected and validated.
type FieldKind string

const (
	FieldKindText   FieldKind = "text"
	FieldKindSelect FieldKind = "select"
	FieldKindDate   FieldKind = "date"
)

// Labels of the fields the document template depends on. They double as the
// JSON keys of saved state files.
const (
	LabelName         = "Nome"
	LabelCPF          = "CPF"
	LabelAddress      = "Endereço"
	LabelPostalCode   = "CEP"
	LabelPhone        = "Celular"
	LabelEmail        = "E-mail"
	LabelEquipment    = "Equipamento"
	LabelAssetTag     = "Patrimônio"
	LabelSerialNumber = "Número de Série"
	LabelObservation  = "Observações"
	LabelSignature    = "Assinatura do Colaborador"
	LabelTechnician   = "Responsável Técnico"
	LabelDate         = "Data Completa"
	LabelExtraItem    = "Equipamento Extra"
	LabelAccessories  = "Equipamentos Adicionais"
)

// FieldDefinition describes one labeled form field.
type FieldDefinition struct {
	Label   string    `json:"label" yaml:"label"`
	Kind    FieldKind `json:"kind" yaml:"kind"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Help    string    `json:"help,omitempty" yaml:"help,omitempty"`
}

// EquipmentDefinition describes the checkbox group of additional equipment.
type EquipmentDefinition struct {
	Label   string   `json:"label" yaml:"label"`
	Catalog []string `json:"catalog" yaml:"catalog"`
}

// Definition is the fixed enumeration of fields a State accepts.
type Definition struct {
	Fields    []FieldDefinition   `json:"fields" yaml:"fields"`
	Equipment EquipmentDefinition `json:"equipment" yaml:"equipment"`

	index map[string]int
}

//go:embed definition.yaml
var defaultDefinition []byte

// DefaultDefinition returns the built-in custody term form.
func DefaultDefinition() *Definition {
	def, err := ParseDefinition(defaultDefinition)
	if err != nil {
		panic(fmt.Sprintf("form: embedded definition: %v", err))
	}
	return def
}

// LoadDefinition reads a YAML or JSON definition from disk.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: read definition %s: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("form: definition %s: %w", path, err)
	}
	return def, nil
}

// ParseDefinition decodes and validates a definition document.
func ParseDefinition(data []byte) (*Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("form: definition is empty")
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("form: parse definition: %w", err)
		}
	}

	if err := def.normalise(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) normalise() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("form: definition declares no fields")
	}

	d.index = make(map[string]int, len(d.Fields))
	dates := 0
	for i := range d.Fields {
		field := &d.Fields[i]
		field.Label = strings.TrimSpace(field.Label)
		if field.Label == "" {
			return fmt.Errorf("form: field %d has an empty label", i)
		}
		if _, exists := d.index[field.Label]; exists {
			return fmt.Errorf("form: duplicate field %q", field.Label)
		}
		if field.Kind == "" {
			field.Kind = FieldKindText
		}
		switch field.Kind {
		case FieldKindText:
		case FieldKindSelect:
			if len(field.Options) == 0 {
				return fmt.Errorf("form: select field %q has no options", field.Label)
			}
		case FieldKindDate:
			dates++
		default:
			return fmt.Errorf("form: field %q has unknown kind %q", field.Label, field.Kind)
		}
		d.index[field.Label] = i
	}
	if dates > 1 {
		return fmt.Errorf("form: definition declares %d date fields, at most one is allowed", dates)
	}

	d.Equipment.Label = strings.TrimSpace(d.Equipment.Label)
	if d.Equipment.Label == "" {
		d.Equipment.Label = LabelAccessories
	}
	if _, clash := d.index[d.Equipment.Label]; clash {
		return fmt.Errorf("form: equipment label %q collides with a field", d.Equipment.Label)
	}
	seen := make(map[string]struct{}, len(d.Equipment.Catalog))
	for _, item := range d.Equipment.Catalog {
		if _, dup := seen[item]; dup {
			return fmt.Errorf("form: duplicate equipment %q", item)
		}
		seen[item] = struct{}{}
	}
	return nil
}

// Field returns the definition for label.
func (d *Definition) Field(label string) (FieldDefinition, bool) {
	if d == nil {
		return FieldDefinition{}, false
	}
	idx, ok := d.index[label]
	if !ok {
		return FieldDefinition{}, false
	}
	return d.Fields[idx], true
}

// Labels returns field labels in declaration order.
func (d *Definition) Labels() []string {
	out := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, field.Label)
	}
	return out
}

// DateField returns the label of the date field, if any.
func (d *Definition) DateField() (string, bool) {
	for _, field := range d.Fields {
		if field.Kind == FieldKindDate {
			return field.Label, true
		}
	}
	return "", false
}

// HasOption reports whether value is one of the options of a select field.
func (f FieldDefinition) HasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

// InCatalog reports whether item is part of the equipment catalog.
func (d *Definition) InCatalog(item string) bool {
	for _, candidate := range d.Equipment.Catalog {
		if candidate == item {
			return true
		}
	}
	return false
}
