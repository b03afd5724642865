package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile  string
	debug       bool
	keyPath     string
	metricsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solcastd",
	Short: "solcastd - binary prediction market ledger",
	Long: `solcastd runs a two-outcome pari-mutuel prediction market ledger.

An admin initializes the registry, creates markets and resolves them.
Participants stake on an option while a market is open and withdraw their
share of the pool once it resolves. Every command opens the ledger under
data_dir, applies or queries, and exits.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&keyPath, "key", "", "signer key file")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write engine metrics in text format to this file on exit")
}
