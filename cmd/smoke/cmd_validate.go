package main

import (
	"fmt"

	"github.com/spboyer/smoke/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "validate <suite.yaml>",
		Short:         "Validate a suite file against the suite schema",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			errs, err := validation.ValidateSuiteFile(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(errs) == 0 {
				fmt.Fprintf(w, "%s is valid\n", args[0]) //nolint:errcheck
				return nil
			}

			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", e) //nolint:errcheck
			}
			return fmt.Errorf("%s has %d schema error(s)", args[0], len(errs))
		},
	}
}
