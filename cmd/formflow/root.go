package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/formflow/internal/cli"
	"github.com/aretw0/formflow/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "formflow is a multi-step form navigation engine",
	Long: `formflow drives users through flows of screens: a tutorial, one or two
validated forms, a preview and a result. Run it in the terminal, serve it over
HTTP or expose it to agents through MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("catalog", "", "Flow catalog file (YAML or JSON); defaults to the built-in flows")
	rootCmd.PersistentFlags().String("lang", "", "Language of titles and messages (en, ja)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of route and validation events")
}

// loadOptions reads .env and FORMFLOW_* variables, then applies the persistent flags.
func loadOptions(cmd *cobra.Command) (cli.Options, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return cli.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
	}
	if flags.Changed("lang") {
		cfg.Lang, _ = flags.GetString("lang")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Options{}, err
	}

	debug, _ := flags.GetBool("debug")
	return cli.Options{Config: cfg, Debug: debug}, nil
}
