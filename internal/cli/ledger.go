package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) ledgerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "List generated documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ledger().List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				a.printf("Nenhum registro.\n")
				return nil
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			a.printfTo(w, "GERADO EM\tNOME\tEQUIPAMENTO\tPATRIMÔNIO\tADICIONAIS\tDOCUMENTO\n")
			for _, e := range entries {
				a.printfTo(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.GeneratedAt.Local().Format("02/01/2006 15:04"),
					e.Name, e.Equipment, e.AssetTag,
					strings.Join(e.Accessories, ", "),
					e.Document,
				)
			}
			return w.Flush()
		},
	}
}
