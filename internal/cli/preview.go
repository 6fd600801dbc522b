package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfill/pkg/preview"
)

func (a *app) previewCommand() *cobra.Command {
	var variant, output string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the state and its replacements as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.loadState()
			if err != nil {
				return err
			}
			renderer, err := preview.New(
				preview.WithLogger(a.logger),
				preview.WithTemplatesDir(a.cfg.Preview.TemplatesDir),
			)
			if err != nil {
				return err
			}
			if variant == "" {
				variant = a.cfg.Preview.Variant
			}
			if output == "" {
				_, err = renderer.Render(cmd.Context(), state, variant, a.out)
				return err
			}
			page, err := renderer.Render(cmd.Context(), state, variant)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(page), 0o644); err != nil {
				return err
			}
			a.printf("Prévia gravada em %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "theme variant, light or dark (default from config)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "write the page to a file instead of stdout")
	return cmd
}
