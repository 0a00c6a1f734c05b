package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/core"
	"github.com/dimasma0305/backontime/internal/log"
)

var runForeground bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the backup daemon",
	Long: `Start watching every configured location and run backups when their triggers fire.

The daemon detaches from the terminal by default, writing its PID and log files to
the paths set in the configuration. Use --foreground to keep it in the current terminal.`,
	Example: `  # Start as daemon
  backontime run

  # Start in foreground with verbose output
  backontime run --foreground --verbosity debug

  # Use another configuration file
  backontime run --config /etc/backontime.yaml`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}

		if runForeground {
			log.Info("Starting backontime in foreground. Press Ctrl+C to stop.")
		} else {
			log.Info("Starting backontime as daemon...")
		}

		if err := core.Start(s, runForeground); err != nil {
			log.Fatal("Failed to start: ", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runForeground, "foreground", "f", false, "Run in foreground instead of daemon mode")
}
