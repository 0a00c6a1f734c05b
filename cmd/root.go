// Package cmd provides command-line interface commands for backontime
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	cfgFile   string
	verbosity string
	debugMode bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "backontime",
	Short: "Run backups when watched files change",
	Long: `backontime - change-driven backup daemon

Watches a set of files and directories and runs a backup command for a
location once enough changes have accumulated or enough time has passed.

Features:
  • Change-count and timer triggers per location
  • Rename tracking for watched locations
  • Run history in SQLite
  • Failure notifications (Discord, webhook, email)
  • Control socket for status and manual triggers`,
	Example: `  # Write a configuration interactively
  backontime init

  # Start the daemon
  backontime run

  # Run in the current terminal
  backontime run --foreground

  # Show state of every location
  backontime locations

  # Back up a location on the next pass
  backontime trigger documents`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if debugMode {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile, "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "", "Override the configured verbosity (error, warn, info, debug, trace)")
}
