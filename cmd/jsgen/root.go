package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// CheckNodeToolchain verifies that node and npm are available in PATH.
// Returns an error with installation instructions if either is missing.
func CheckNodeToolchain() error {
	if _, err := exec.LookPath("node"); err != nil {
		return fmt.Errorf("node not found in PATH\n\n" +
			"jsgen runs candidate examples under Node.js to validate them.\n\n" +
			"Install it from:\n" +
			"  https://nodejs.org/en/download")
	}
	if _, err := exec.LookPath("npm"); err != nil {
		return fmt.Errorf("npm not found in PATH\n\n" +
			"jsgen installs the target package with npm before validating examples.\n\n" +
			"npm ships with Node.js:\n" +
			"  https://nodejs.org/en/download")
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "jsgen",
	Short: "Runnable usage-example generator for npm packages",
	Long: `jsgen produces runnable usage examples for npm packages.

For a given package it resolves the repository from the npm registry,
reads the README and main module, collects candidate examples from
fenced code blocks and from a Claude model, and keeps only the
candidates that actually run under Node.js in a provisioned
environment. Rejected candidates get one model repair pass.

Accepted examples are written as numbered .js files under the work
directory.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
