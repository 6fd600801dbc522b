package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <document.docx>",
		Short: "Convert an existing document to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := a.converter().Convert(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("PDF gerado: %s\n", pdf)
			return nil
		},
	}
}
