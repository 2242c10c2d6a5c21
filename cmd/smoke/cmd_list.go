package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var suiteOpts suiteOptions

	cmd := &cobra.Command{
		Use:   "list [suite.yaml]",
		Short: "List the checks a run would execute",
		Long: `List the checks of a suite, in run order, without running them.

Suite resolution and flags match "smoke run".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ls, err := loadSuite(cmd, args, &suiteOpts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			list := ls.runner.Checks()

			nameWidth := len("Check")
			kindWidth := len("Type")
			for _, c := range list {
				nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
				kindWidth = max(kindWidth, runewidth.StringWidth(c.Kind))
			}

			fmt.Fprintf(w, "Suite: %s (%d checks)\n\n", ls.spec.Name, len(list)) //nolint:errcheck

			fmt.Fprintf(w, "%s  %s  %s\n", runewidth.FillRight("Check", nameWidth), runewidth.FillRight("Type", kindWidth), "Description") //nolint:errcheck
			for _, c := range list {
				fmt.Fprintf(w, "%s  %s  %s\n", runewidth.FillRight(c.Name, nameWidth), runewidth.FillRight(c.Kind, kindWidth), c.Description) //nolint:errcheck
			}
			return nil
		},
	}

	suiteOpts.bind(cmd)
	return cmd
}
