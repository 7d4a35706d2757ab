package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/pkg/tabula"
)

const modulePath = "github.com/mesh-intelligence/tabula"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tabula version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tabula v%s\nmodule: %s\n", tabula.Version, modulePath)
			return nil
		},
	}
}
