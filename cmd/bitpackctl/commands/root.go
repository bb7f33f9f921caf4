// Package commands implements the bitpackctl CLI commands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// outputFormat controls the output format for decode (table or json).
var outputFormat string

// rootCmd is the top-level cobra command for bitpackctl.
var rootCmd = &cobra.Command{
	Use:   "bitpackctl",
	Short: "Encode, decode, and inspect BitPack mesh frames",
	Long:  "bitpackctl builds and parses BitPack frames offline, without a running relay daemon.",
	// Silence cobra's built-in usage/error printing so we control it.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table",
		"output format: table, json")

	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(keygenCmd())
	rootCmd.AddCommand(challengeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(shellCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
