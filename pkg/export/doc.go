// Package export converts generated documents to PDF through an external
// office converter running headless.
package export
