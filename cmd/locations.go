package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

var locationsCmd = &cobra.Command{
	Use:     "locations",
	Aliases: []string{"ls"},
	Short:   "List watched locations and their trigger state",
	Long:    `Ask the running daemon for every location, its change count, thresholds and last run.`,
	Example: `  backontime locations`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}
		client, err := daemonClient(s)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := sendOrFail(client.ListLocations())
		if err != nil {
			log.Fatal("Failed to list locations: ", err)
		}
		if err := socket.PrintLocations(os.Stdout, resp); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
