package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// MarshalJSON encodes the state as a flat object with keys in definition
// order and the selected equipment under the equipment label.
func (s *State) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range s.def.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, field.Label, s.Get(field.Label)); err != nil {
			return nil, err
		}
	}
	equipment := s.Equipment()
	if equipment == nil {
		equipment = []string{}
	}
	buf.WriteByte(',')
	if err := writeMember(&buf, s.def.Equipment.Label, equipment); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	if err := encodeRaw(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return encodeRaw(buf, value)
}

// encodeRaw writes value without HTML escaping so labels such as "E-mail"
// and values with '&' stay readable in saved files.
func encodeRaw(buf *bytes.Buffer, value any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("form: encode %v: %w", value, err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON restores values field by field. Unknown keys are ignored,
// missing field keys keep their current value, select values outside the
// option list and equipment outside the catalog are skipped. The equipment
// selection is replaced by the saved list, empty when the list is absent. On a decoding error the
// state is left untouched.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("form: decode state: %w", err)
	}
	if s.def == nil {
		s.def = DefaultDefinition()
		s.Clear()
	}

	staged := s.Clone()
	for _, field := range s.def.Fields {
		payload, ok := raw[field.Label]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(payload, &value); err != nil {
			continue
		}
		// Values the definition rejects are dropped, like a combo box that
		// cannot find the saved text.
		_ = staged.Set(field.Label, value)
	}

	// The saved list is the whole selection: a file without it, or with a
	// malformed one, leaves nothing selected.
	staged.equipment = make(map[string]struct{})
	if payload, ok := raw[s.def.Equipment.Label]; ok {
		var items []string
		if err := json.Unmarshal(payload, &items); err == nil {
			for _, item := range items {
				if s.def.InCatalog(item) {
					staged.equipment[item] = struct{}{}
				}
			}
		}
	}

	s.values = staged.values
	s.equipment = staged.equipment
	s.date = staged.date
	return nil
}

// Save writes the state to path as indented JSON.
func Save(state *State, path string) error {
	if state == nil {
		return errors.New("form: state is nil")
	}
	compact, err := state.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "    "); err != nil {
		return fmt.Errorf("form: indent state: %w", err)
	}
	out.WriteByte('\n')
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("form: write %s: %w", path, err)
	}
	return nil
}

// Load restores state from path. A missing file is a no-op reported as
// loaded=false. Unreadable or malformed files return an error and leave the
// state unchanged.
func Load(path string, state *State) (loaded bool, err error) {
	if state == nil {
		return false, errors.New("form: state is nil")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("form: read %s: %w", path, err)
	}
	if err := state.UnmarshalJSON(data); err != nil {
		return false, fmt.Errorf("form: load %s: %w", path, err)
	}
	return true, nil
}
