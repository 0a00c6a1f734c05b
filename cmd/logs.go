package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/daemon"
	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	logsFile     string
	logsLines    int
	logsNoFollow bool
	logsEvents   bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow and display daemon logs",
	Long: `Stream the daemon log file in real-time (like tail -f).

With --events, print the daemon events recorded in the history database instead.`,
	Example: `  # Follow logs
  backontime logs

  # Print the last 100 lines and exit
  backontime logs --lines 100 --no-follow

  # Show recorded daemon events
  backontime logs --events`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}

		if logsEvents {
			client, err := daemonClient(s)
			if err != nil {
				log.Fatal(err)
			}
			resp, err := sendOrFail(client.GetLogs(logsLines))
			if err != nil {
				log.Fatal("Failed to get daemon events: ", err)
			}
			if err := socket.PrintLogs(os.Stdout, resp); err != nil {
				log.Fatal(err)
			}
			return
		}

		logFile := s.LogFile
		if logsFile != "" {
			logFile = logsFile
		}

		if logsNoFollow {
			lines, err := daemon.RecentLines(logFile, logsLines)
			if err != nil {
				log.Fatal("Failed to read logs: ", err)
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return
		}

		log.Info("📋 Following backontime logs: %s", logFile)
		log.Info("Press Ctrl+C to stop following logs")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := daemon.FollowLogs(ctx, logFile, os.Stdout); err != nil {
			log.Fatal("Failed to follow logs: ", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsFile, "log-file", "", "Custom log file location")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines (or events) to show")
	logsCmd.Flags().BoolVar(&logsNoFollow, "no-follow", false, "Print recent lines and exit")
	logsCmd.Flags().BoolVar(&logsEvents, "events", false, "Show daemon events from the history database")
}
