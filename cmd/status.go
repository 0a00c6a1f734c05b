package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/daemon"
	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	statusPidFile string
	statusJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long:  `Display whether the daemon is running and, when its control socket is reachable, what it is doing.`,
	Example: `  # Show status
  backontime status

  # Show status in JSON format
  backontime status --json`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}

		pidFile := s.PidFile
		if statusPidFile != "" {
			pidFile = statusPidFile
		}

		st := daemon.GetStatus(pidFile)
		st.LogFile = s.LogFile
		if err := daemon.ShowStatus(os.Stdout, st, statusJSON); err != nil {
			log.Error("Failed to show status: %v", err)
			return
		}
		if statusJSON || !st.Running {
			return
		}

		client, err := daemonClient(s)
		if err != nil {
			log.DebugH2("%v", err)
			return
		}
		resp, err := sendOrFail(client.Status())
		if err != nil {
			log.Warn("Control socket unavailable: %v", err)
			return
		}
		socket.PrintStatus(os.Stdout, resp)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Custom PID file location")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status in JSON format")
}
