package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/daemon"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	stopPidFile string
	stopTimeout time.Duration
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the backup daemon",
	Long: `Send SIGTERM to the running daemon and wait for it to exit. A backup that is
already running is allowed to finish; after --timeout the daemon is killed.`,
	Example: `  # Stop the daemon
  backontime stop

  # Stop with custom PID file
  backontime stop --pid-file /run/backontime.pid`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}

		pidFile := s.PidFile
		if stopPidFile != "" {
			pidFile = stopPidFile
		}

		log.Info("🛑 Stopping backontime daemon...")
		if err := daemon.StopDaemon(pidFile, stopTimeout); err != nil {
			log.Fatal("Failed to stop daemon: ", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().StringVar(&stopPidFile, "pid-file", "", "Custom PID file location")
	stopCmd.Flags().DurationVar(&stopTimeout, "timeout", 30*time.Second, "Time to wait before killing the daemon")
}
