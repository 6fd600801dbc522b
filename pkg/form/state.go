package form

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODate is the layout used for the date field in state files.
	ISODate = "2006-01-02"
	// DisplayDate is the layout users type and the template prints.
	DisplayDate = "02/01/2006"
)

// State holds the current value of every field of a Definition plus the set
// of selected equipment. Keys never leave the definition's enumeration.
type State struct {
	def       *Definition
	values    map[string]string
	equipment map[string]struct{}
	date      time.Time
}

// NewState returns an empty state dated today. A nil definition selects the
// built-in one.
func NewState(def *Definition) *State {
	if def == nil {
		def = DefaultDefinition()
	}
	s := &State{def: def}
	s.Clear()
	return s
}

// Definition returns the definition backing the state.
func (s *State) Definition() *Definition {
	return s.def
}

// Clear resets text fields to empty and select fields to their first
// option, unselects all equipment and dates the state today.
func (s *State) Clear() {
	s.values = make(map[string]string, len(s.def.Fields))
	for _, field := range s.def.Fields {
		switch field.Kind {
		case FieldKindDate:
			continue
		case FieldKindSelect:
			s.values[field.Label] = field.Options[0]
		default:
			s.values[field.Label] = ""
		}
	}
	s.equipment = make(map[string]struct{})
	s.date = today()
}

// Get returns the value of label. The date field is rendered as ISODate.
// Unknown labels yield the empty string.
func (s *State) Get(label string) string {
	field, ok := s.def.Field(label)
	if !ok {
		return ""
	}
	if field.Kind == FieldKindDate {
		return s.date.Format(ISODate)
	}
	return s.values[label]
}

// Trimmed returns Get(label) without surrounding whitespace.
func (s *State) Trimmed(label string) string {
	return strings.TrimSpace(s.Get(label))
}

// Set assigns value to label. Select fields only accept one of their options
// and the date field accepts ISODate or DisplayDate.
func (s *State) Set(label, value string) error {
	field, ok := s.def.Field(label)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, label)
	}
	switch field.Kind {
	case FieldKindSelect:
		if !field.HasOption(value) {
			return fmt.Errorf("%w: %q is not an option of %q", ErrInvalidOption, value, label)
		}
	case FieldKindDate:
		parsed, err := ParseDate(value)
		if err != nil {
			return fmt.Errorf("form: %s: %w", label, err)
		}
		s.date = parsed
		return nil
	}
	s.values[label] = value
	return nil
}

// Date returns the term date.
func (s *State) Date() time.Time {
	return s.date
}

// SetDate overrides the term date; the time of day is dropped.
func (s *State) SetDate(t time.Time) {
	s.date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Equipment returns the selected equipment in catalog order.
func (s *State) Equipment() []string {
	var out []string
	for _, item := range s.def.Equipment.Catalog {
		if _, ok := s.equipment[item]; ok {
			out = append(out, item)
		}
	}
	return out
}

// Selected reports whether item is checked.
func (s *State) Selected(item string) bool {
	_, ok := s.equipment[item]
	return ok
}

// SetEquipment replaces the selection. Every item must be in the catalog.
func (s *State) SetEquipment(items []string) error {
	next := make(map[string]struct{}, len(items))
	for _, item := range items {
		if !s.def.InCatalog(item) {
			return fmt.Errorf("%w: %q", ErrUnknownEquipment, item)
		}
		next[item] = struct{}{}
	}
	s.equipment = next
	return nil
}

// Select checks or unchecks a single catalog item.
func (s *State) Select(item string, checked bool) error {
	if !s.def.InCatalog(item) {
		return fmt.Errorf("%w: %q", ErrUnknownEquipment, item)
	}
	if checked {
		s.equipment[item] = struct{}{}
	} else {
		delete(s.equipment, item)
	}
	return nil
}

// Accessories lists the selected equipment followed by the free-text extra
// item when one was entered.
func (s *State) Accessories() []string {
	out := s.Equipment()
	if extra := s.Trimmed(LabelExtraItem); extra != "" {
		out = append(out, extra)
	}
	return out
}

// Values returns a copy of the field values keyed by label, including the
// date field.
func (s *State) Values() map[string]string {
	out := make(map[string]string, len(s.def.Fields))
	for _, field := range s.def.Fields {
		out[field.Label] = s.Get(field.Label)
	}
	return out
}

// Clone returns an independent copy sharing the same definition.
func (s *State) Clone() *State {
	clone := &State{
		def:       s.def,
		values:    make(map[string]string, len(s.values)),
		equipment: make(map[string]struct{}, len(s.equipment)),
		date:      s.date,
	}
	for k, v := range s.values {
		clone.values[k] = v
	}
	for k := range s.equipment {
		clone.equipment[k] = struct{}{}
	}
	return clone
}

// ParseDate accepts ISODate or DisplayDate input.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{ISODate, DisplayDate} {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

var now = time.Now

func today() time.Time {
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
