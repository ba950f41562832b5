// Package cli implements the hausbuch command tree
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	app *App
)

var rootCmd = &cobra.Command{
	Use:   "hausbuch",
	Short: "Household inventory and expense tracker",
	Long: `hausbuch tracks household purchases written in a text mini-language:
inventory with a full item lifecycle, recurring subscriptions with
auto-renewal, container deposits (Pfand) and multi-currency spending
normalized through monthly exchange-rate snapshots.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = newApp(cmd.Context(), flagConfig, flagVerbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

// Execute runs the command tree
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.hausbuch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
}
