// Package main provides the operator CLI for deployment and operations tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "operator",
	Short: "her-line operator - deployment and operations CLI",
	Long: `her-line operator - deployment and operations CLI

Examples:
  operator validate                      # Check if all required env vars are set
  operator personas ./personas           # Load and validate persona files
  operator personas --schema             # Print the persona file JSON schema
  operator sign --file callback.json     # Print the X-Line-Signature for a body
  operator classify "ありがとう"            # Show the intent and the rule that matched
  operator preview --persona piona hello # Render a reply without sending it`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "her-line operator v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, validateCmd, personasCmd, signCmd, classifyCmd, previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
