package docfill

import (
	"github.com/goliatone/go-docfill/pkg/form"
)

// NewState returns an empty state for the definition at definitionPath, or
// for the built-in form when the path is empty.
func NewState(definitionPath string) (*form.State, error) {
	if definitionPath == "" {
		return form.NewState(nil), nil
	}
	def, err := form.LoadDefinition(definitionPath)
	if err != nil {
		return nil, err
	}
	return form.NewState(def), nil
}

// LoadState restores the saved state at statePath into a new state built
// by NewState. A missing state file yields the empty state.
func LoadState(definitionPath, statePath string) (*form.State, error) {
	state, err := NewState(definitionPath)
	if err != nil {
		return nil, err
	}
	if _, err := form.Load(statePath, state); err != nil {
		return nil, err
	}
	return state, nil
}
