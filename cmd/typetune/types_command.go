package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/typetune/internal/core/personality"
)

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List every type code and its listener description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := personality.Codes()
			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				rows = append(rows, []string{code, personality.Explain(code)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Type", "Listener"}, rows, nil))
			return nil
		},
	}
}
