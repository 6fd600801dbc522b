package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docfill/pkg/prompt"
)

func (a *app) formCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Edit the saved state interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := a.loadState()
			if err != nil {
				return err
			}
			collected, err := a.collector().Collect(ctx, state)
			if err != nil {
				return err
			}
			save, err := a.driver.Confirm(ctx, prompt.ConfirmConfig{Message: "Salvar alterações?", Default: true})
			if err != nil {
				return err
			}
			if !save {
				a.printf("Alterações descartadas.\n")
				return nil
			}
			if err := a.saveState(collected); err != nil {
				return err
			}
			a.printf("Dados salvos em %s\n", a.stateFile())
			return nil
		},
	}
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.loadState()
			if err != nil {
				return err
			}
			def := state.Definition()
			for _, field := range def.Fields {
				a.printf("%s: %s\n", field.Label, state.Get(field.Label))
			}
			a.printf("%s: %s\n", def.Equipment.Label, strings.Join(state.Equipment(), ", "))
			return nil
		},
	}
}

func (a *app) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset every field and save the empty state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.loadState()
			if err != nil {
				return err
			}
			state.Clear()
			if err := a.saveState(state); err != nil {
				return err
			}
			a.printf("Campos limpos.\n")
			return nil
		},
	}
}
