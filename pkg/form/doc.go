// Package form holds the custody term form: its fixed field definition, the
// in-memory State users fill, JSON persistence compatible with files written
// by earlier versions of the tool, and an OpenAPI schema used to report
// problems in hand-edited state files.
//
// Field labels are the keys of the state file. Loading is lenient: unknown
// keys, select values outside their option list and equipment outside the
// catalog are ignored, and a missing file leaves the state untouched.
package form
