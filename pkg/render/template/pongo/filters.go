package pongo

import (
	"strings"

	"github.com/flosch/pongo2/v6"
)

// registerFilters installs the package filters. pongo2 filters are process
// wide, so existing names are left alone.
func registerFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("filename") {
		_ = pongo2.RegisterFilter("filename", filterFilename)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterFilename drops characters that are not allowed in file names on
// common filesystems and collapses the whitespace left behind.
func filterFilename(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(SanitizeFilename(in.String())), nil
}

// SanitizeFilename removes path separators and reserved characters from s.
func SanitizeFilename(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		if r < 0x20 {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}
