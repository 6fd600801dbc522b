package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfill/pkg/form"
)

func (a *app) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of state files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.definition()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(form.Schema(def), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			a.printf("%s\n", data)
			return nil
		},
	}
}

func (a *app) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [state.json]",
		Short: "Check a state file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.stateFile()
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			def, err := a.definition()
			if err != nil {
				return err
			}
			issues, err := form.Validate(def, data)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				a.printf("%s: ok\n", path)
				return nil
			}
			for _, issue := range issues {
				a.printf("%s\n", issue)
			}
			return fmt.Errorf("%s: %d issue(s)", path, len(issues))
		},
	}
}
