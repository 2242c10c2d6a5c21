package main

import (
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var (
		suiteOpts suiteOptions
		outOpts   outputOptions
	)

	cmd := &cobra.Command{
		Use:   "run [suite.yaml]",
		Short: "Run a suite of checks",
		Long: `Run every check in a suite file and print one line per check.

With no argument, runs the suite named by paths.suite in .smoke.yaml
(default smoke.yaml). If that file does not exist, runs the built-in
suite: a tautology check followed by an import probe for the default
module.

Import checks locate modules with one of these resolvers:
  search_path  files or package directories under the search directories
  executable   programs on PATH
  registry     modules registered in-process; only usable when smoke is
               embedded as a library that calls probe.Register
  chain        registry, then search_path, then executable

Exit status is 0 when every check passed or was skipped, 1 when any
check failed, and 2 for configuration errors.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ls, err := loadSuite(cmd, args, &suiteOpts)
			if err != nil {
				return err
			}
			if err := outOpts.resolve(ls.cfg); err != nil {
				return err
			}

			_, err = executeSuite(cmd.Context(), cmd.OutOrStdout(), ls, &outOpts)
			return err
		},
	}

	suiteOpts.bind(cmd)
	outOpts.bind(cmd)
	return cmd
}
