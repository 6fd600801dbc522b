// Package filler applies the custody term marker policy to a .docx
// template.
//
// The policy is a static, ordered table of rules. Body paragraphs holding
// the name marker are rebuilt as the identity clause with the personal data
// in bold; other body paragraphs get literal marker replacements, and the
// signature and technician lines disappear when their field is blank. Table
// cells get their labels completed with the equipment data and are rewritten
// at a smaller point size. Paragraphs whose text does not change keep their
// original formatting.
package filler
