package main

import (
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/typetune/internal/logging"
)

func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "typetune",
		Short:         "Infer a music personality type from track metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{Level: logLevel, Output: cmd.ErrOrStderr()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Minimum log level")

	rootCmd.AddCommand(newInferCommand())
	rootCmd.AddCommand(newTypesCommand())

	return rootCmd
}
