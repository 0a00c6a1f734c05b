package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	historyLocation string
	historyLimit    int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent backup runs",
	Long:  `Show the most recent actions recorded by the daemon, newest first.`,
	Example: `  # Last 20 runs of every location
  backontime history

  # Last 5 runs of one location
  backontime history --location documents --limit 5`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}
		client, err := daemonClient(s)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := sendOrFail(client.GetRuns(historyLocation, historyLimit))
		if err != nil {
			log.Fatal("Failed to get history: ", err)
		}
		if err := socket.PrintRuns(os.Stdout, resp); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyLocation, "location", "l", "", "Only show runs of this location")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs")

	_ = historyCmd.RegisterFlagCompletionFunc("location", validLocationNames)
}
