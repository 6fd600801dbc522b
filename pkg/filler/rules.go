package filler

import (
	"strings"

	"github.com/goliatone/go-docfill/pkg/form"
)

// Scope selects which paragraphs a rule inspects.
type Scope int

const (
	// ScopeBody covers paragraphs outside tables.
	ScopeBody Scope = iota
	// ScopeCell covers paragraphs inside table cells.
	ScopeCell
)

func (s Scope) String() string {
	if s == ScopeCell {
		return "cell"
	}
	return "body"
}

// EmptyPolicy decides what happens when a rule's value is blank.
type EmptyPolicy int

const (
	// EmptyKeep substitutes the blank value like any other.
	EmptyKeep EmptyPolicy = iota
	// EmptyOmitLine blanks the whole paragraph, label included.
	EmptyOmitLine
	// EmptySkip leaves the marker untouched.
	EmptySkip
)

// Rule maps one literal marker to a value computed from the form state.
// Label rules keep the marker in place and append the value after it;
// placeholder rules replace the marker.
type Rule struct {
	Marker string
	Scope  Scope
	Field  string
	Label  bool
	Empty  EmptyPolicy
	Value  func(*form.State) string
}

// Markers and labels of the custody term template. A body paragraph holding
// ClauseMarker is rebuilt entirely as the identity clause.
const (
	ClauseMarker   = "[INSERIR NOME]"
	markerCPF      = "[INSERIR CPF]"
	markerAddress  = "[INSERIR ENDEREÇO COMPLETO COM CEP]"
	markerPhone    = "[INSERIR NÚMERO DO CELULAR]"
	markerEmail    = "[INSERIR E-MAIL PESSOAL]"
	markerDate     = "[INSERIR DATA]"
	markerDay      = "[DIA]"
	markerMonth    = "[MÊS]"
	markerYear     = "[ANO]"
	labelSignature = "Assinatura do colaborador:"
	labelTech      = "Responsável técnico:"
	labelEquipment = "Equipamento:"
	labelAssetTag  = "Patrimônio:"
	labelSerial    = "Número de série:"
	labelExtras    = "Equipamentos Adicionais:"
	labelNotes     = "Observações:"
)

// DefaultRules returns the marker policy of the custody term template in
// application order.
func DefaultRules() []Rule {
	return []Rule{
		{Marker: ClauseMarker, Scope: ScopeBody, Field: form.LabelName, Value: field(form.LabelName)},
		{Marker: markerCPF, Scope: ScopeBody, Field: form.LabelCPF, Value: field(form.LabelCPF)},
		{Marker: markerAddress, Scope: ScopeBody, Field: form.LabelAddress, Value: addressWithCEP},
		{Marker: markerPhone, Scope: ScopeBody, Field: form.LabelPhone, Value: field(form.LabelPhone)},
		{Marker: markerEmail, Scope: ScopeBody, Field: form.LabelEmail, Value: field(form.LabelEmail)},
		{Marker: markerDate, Scope: ScopeBody, Field: form.LabelDate, Value: datePart(func(p form.DateParts) string { return p.Compact })},
		{Marker: markerDay, Scope: ScopeBody, Field: form.LabelDate, Value: datePart(func(p form.DateParts) string { return p.Day })},
		{Marker: markerMonth, Scope: ScopeBody, Field: form.LabelDate, Value: datePart(func(p form.DateParts) string { return p.Month })},
		{Marker: markerYear, Scope: ScopeBody, Field: form.LabelDate, Value: datePart(func(p form.DateParts) string { return p.Year })},
		{Marker: labelSignature, Scope: ScopeBody, Field: form.LabelSignature, Label: true, Empty: EmptyOmitLine, Value: trimmed(form.LabelSignature)},
		{Marker: labelTech, Scope: ScopeBody, Field: form.LabelTechnician, Label: true, Empty: EmptyOmitLine, Value: trimmed(form.LabelTechnician)},

		{Marker: labelEquipment, Scope: ScopeCell, Field: form.LabelEquipment, Label: true, Value: field(form.LabelEquipment)},
		{Marker: labelAssetTag, Scope: ScopeCell, Field: form.LabelAssetTag, Label: true, Value: field(form.LabelAssetTag)},
		{Marker: labelSerial, Scope: ScopeCell, Field: form.LabelSerialNumber, Label: true, Value: field(form.LabelSerialNumber)},
		{Marker: labelExtras, Scope: ScopeCell, Field: form.LabelAccessories, Label: true, Empty: EmptySkip, Value: accessories},
		{Marker: labelNotes, Scope: ScopeCell, Field: form.LabelObservation, Label: true, Value: trimmed(form.LabelObservation)},
	}
}

func field(label string) func(*form.State) string {
	return func(s *form.State) string { return s.Get(label) }
}

func trimmed(label string) func(*form.State) string {
	return func(s *form.State) string { return s.Trimmed(label) }
}

func datePart(pick func(form.DateParts) string) func(*form.State) string {
	return func(s *form.State) string { return pick(form.SplitDate(s.Date())) }
}

// addressWithCEP always carries the CEP label, as the template line
// promises one. The identity clause uses addressLine instead.
func addressWithCEP(s *form.State) string {
	return s.Get(form.LabelAddress) + " - CEP: " + s.Get(form.LabelPostalCode)
}

// addressLine joins the address with the postal code when one was given.
func addressLine(s *form.State) string {
	address := s.Get(form.LabelAddress)
	if cep := s.Trimmed(form.LabelPostalCode); cep != "" {
		address += " - CEP: " + cep
	}
	return address
}

func accessories(s *form.State) string {
	return strings.Join(s.Accessories(), ", ")
}

// Substitution is the resolved outcome of a rule for a given state.
type Substitution struct {
	Marker string
	Scope  Scope
	Field  string
	Value  string
	Label  bool
	Omit   bool
	Skip   bool
}

// Resolve evaluates rules against state without touching a document.
func Resolve(rules []Rule, state *form.State) []Substitution {
	out := make([]Substitution, 0, len(rules))
	for _, rule := range rules {
		value := rule.Value(state)
		blank := strings.TrimSpace(value) == ""
		out = append(out, Substitution{
			Marker: rule.Marker,
			Scope:  rule.Scope,
			Field:  rule.Field,
			Value:  value,
			Label:  rule.Label,
			Omit:   blank && rule.Empty == EmptyOmitLine,
			Skip:   blank && rule.Empty == EmptySkip,
		})
	}
	return out
}

// apply runs the rules of one scope over text. It reports the new text, how
// many markers were substituted and whether the line must be blanked.
func apply(subs []Substitution, scope Scope, text string) (string, int, bool) {
	count := 0
	for _, sub := range subs {
		if sub.Scope != scope || !strings.Contains(text, sub.Marker) {
			continue
		}
		if sub.Omit {
			return "", count + 1, true
		}
		if sub.Skip {
			continue
		}
		replacement := sub.Value
		if sub.Label {
			replacement = sub.Marker + " " + sub.Value
		}
		count += strings.Count(text, sub.Marker)
		text = strings.ReplaceAll(text, sub.Marker, replacement)
	}
	return text, count, false
}
