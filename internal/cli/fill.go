package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/orchestrator"
)

type fillOptions struct {
	template    string
	output      string
	sets        []string
	equipment   []string
	interactive bool
	pdf         bool
	noPDF       bool
	save        bool
}

func (a *app) fillCommand() *cobra.Command {
	opts := &fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Generate the term document from the saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFill(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.template, "template", "t", "", "Word template (default from config)")
	flags.StringVarP(&opts.output, "out", "o", "", "output document (default from the file name pattern)")
	flags.StringArrayVar(&opts.sets, "set", nil, "set a field, Label=Value (repeatable)")
	flags.StringArrayVarP(&opts.equipment, "equipment", "e", nil, "select additional equipment (repeatable, replaces the saved selection)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for every field before generating")
	flags.BoolVar(&opts.pdf, "pdf", false, "also export a PDF")
	flags.BoolVar(&opts.noPDF, "no-pdf", false, "skip PDF export even when enabled in config")
	flags.BoolVar(&opts.save, "save", true, "save the state used for the document")
	return cmd
}

func (a *app) runFill(cmd *cobra.Command, opts *fillOptions) error {
	ctx := cmd.Context()
	state, err := a.loadState()
	if err != nil {
		return err
	}
	if err := applyOverrides(state, opts.sets, opts.equipment, cmd.Flags().Changed("equipment")); err != nil {
		return err
	}
	if opts.interactive {
		collected, err := a.collector().Collect(ctx, state)
		if err != nil {
			return err
		}
		state = collected
	}
	if opts.save {
		if err := a.saveState(state); err != nil {
			a.logger.Warn("could not save state", zap.Error(err))
		}
	}

	template := opts.template
	if template == "" {
		template = a.cfg.Template
	}
	exportPDF := (opts.pdf || a.cfg.Export.Enabled) && !opts.noPDF

	resp, err := a.orchestrator().Generate(ctx, orchestrator.Request{
		State:     state,
		Template:  template,
		Output:    opts.output,
		ExportPDF: exportPDF,
	})
	if resp.Document != "" {
		a.printf("Documento gerado: %s\n", resp.Document)
	}
	if resp.PDF != "" {
		a.printf("PDF gerado: %s\n", resp.PDF)
	}
	if resp.Entry != nil {
		a.printf("Registro: %s\n", resp.Entry.ID)
	}
	return err
}

// applyOverrides applies Label=Value pairs and, when replace is set, the
// equipment selection.
func applyOverrides(state *form.State, sets, equipment []string, replace bool) error {
	for _, pair := range sets {
		label, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected Label=Value", pair)
		}
		if err := state.Set(strings.TrimSpace(label), value); err != nil {
			return err
		}
	}
	if replace {
		items := make([]string, 0, len(equipment))
		for _, item := range equipment {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if err := state.SetEquipment(items); err != nil {
			if errors.Is(err, form.ErrUnknownEquipment) {
				return fmt.Errorf("%w (catalog: %s)", err, strings.Join(state.Definition().Equipment.Catalog, ", "))
			}
			return err
		}
	}
	return nil
}
