package filler

import (
	"github.com/goliatone/go-docfill/pkg/docx"
	"github.com/goliatone/go-docfill/pkg/form"
)

var (
	plain = docx.RunStyle{Weight: docx.WeightRegular}
	bold  = docx.RunStyle{Weight: docx.WeightBold}
)

// writeClause rebuilds the identity paragraph with the personal data in
// bold. Phone and e-mail segments are dropped when blank.
func writeClause(p *docx.Paragraph, s *form.State) {
	p.Clear()
	p.AddRun("Eu, ", plain)
	p.AddRun(s.Get(form.LabelName), bold)
	p.AddRun(", inscrito no CPF sob nº ", plain)
	p.AddRun(s.Get(form.LabelCPF), bold)
	p.AddRun(", residente e domiciliado na ", plain)
	p.AddRun(addressLine(s), bold)

	if phone := s.Trimmed(form.LabelPhone); phone != "" {
		p.AddRun(", celular: ", plain)
		p.AddRun(phone, bold)
	}
	if email := s.Trimmed(form.LabelEmail); email != "" {
		p.AddRun(", Email pessoal: ", plain)
		p.AddRun(email, bold)
	}
}
