// Package docx edits the text of WordprocessingML (.docx) packages.
//
// A Document exposes the paragraphs of the main document part, split into
// body paragraphs and paragraphs inside table cells. Paragraph text is the
// concatenation of its runs, so a marker split across runs by the word
// processor is still found. Rewriting a paragraph replaces its runs and
// keeps its paragraph properties; untouched paragraphs and every other part
// of the package are written back unchanged.
package docx
