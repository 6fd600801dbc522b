package form

import "errors"

var (
	// ErrUnknownField is returned when a label is not part of the definition.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrInvalidOption is returned when a select field receives a value
	// outside its option list.
	ErrInvalidOption = errors.New("form: invalid option")
	// ErrUnknownEquipment is returned for items missing from the catalog.
	ErrUnknownEquipment = errors.New("form: unknown equipment")
	// ErrInvalidDate is returned when a date cannot be parsed.
	ErrInvalidDate = errors.New("form: invalid date")
)
