package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flow]",
	Short: "Run an interactive session in the terminal",
	Long: `Starts a session at Home, or directly in the given flow.
Type into forms and press Enter to submit them; use :back, :root, :redo,
:first, :fail and :quit to navigate.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd)
		if err != nil {
			return err
		}
		opts.Headless, _ = cmd.Flags().GetBool("headless")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		if len(args) > 0 {
			opts.FlowID = args[0]
		}

		return cli.RunSession(cmd.Context(), opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("headless", false, "Run in headless mode (no banner, plain text)")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON views out, lines in)")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
