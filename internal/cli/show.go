package cli

import (
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var schemaOnly bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the baseline table",
		Long:  "Load the configured baseline and print its shape and rows, or its columns with --schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if schemaOnly {
				writeSchema(cmd.OutOrStdout(), s.Schema().Columns())
				return nil
			}
			if err := writeState(cmd.OutOrStdout(), s.Describe(), a.flags.jsonMode); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&schemaOnly, "schema", false, "print the columns instead of the rows")
	return cmd
}
