// Package pongo renders the HTML preview page and output file name patterns
// with pongo2.
package pongo
