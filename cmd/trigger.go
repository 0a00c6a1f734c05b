package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/log"
)

var triggerCmd = &cobra.Command{
	Use:               "trigger <location>",
	Short:             "Back up a location on the next evaluation pass",
	Long:              `Mark a location so the daemon runs its action on the next pass, whatever its thresholds say.`,
	Example:           `  backontime trigger documents`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: validLocationNames,
	Run: func(_ *cobra.Command, args []string) {
		s, err := runtimeSettings()
		if err != nil {
			log.Fatal("Failed to load configuration: ", err)
		}
		client, err := daemonClient(s)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := sendOrFail(client.Trigger(args[0]))
		if err != nil {
			log.Fatal("Failed to trigger: ", err)
		}
		log.Info("✅ %s", resp.Message)
	},
}

func init() {
	rootCmd.AddCommand(triggerCmd)
}
