// Package preview renders a filled form and the marker replacements it would
// produce as a standalone HTML page.
package preview
