package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
)

var flowsCmd = &cobra.Command{
	Use:   "flows",
	Short: "List the flows of the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return cli.ListFlows(os.Stdout, opts.Config)
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <flow>",
	Short: "Export a flow as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		return cli.Graph(os.Stdout, opts.Config, args[0])
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <catalog-file>",
	Short: "Check a catalog file for consistency",
	Long:  `Reports unknown routes, duplicate flow IDs, cycles and flows that do not terminate.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(os.Stdout, args[0])
	},
}

func init() {
	rootCmd.AddCommand(flowsCmd, graphCmd, validateCmd)
}
