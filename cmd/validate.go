package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/log"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file",
	Long:  `Load and validate the configuration file, then print the locations it defines.`,
	Example: `  backontime validate
  backontime validate --config /etc/backontime.yaml`,
	Run: func(_ *cobra.Command, _ []string) {
		s, err := loadSettings()
		if err != nil {
			log.Fatal("Invalid configuration: ", err)
		}
		if err := printSettings(os.Stdout, s); err != nil {
			log.Fatal(err)
		}
		log.Info("✅ %s is valid", cfgFile)
	},
}

func printSettings(w io.Writer, s *config.Settings) error {
	fmt.Fprintf(w, "verbosity: %s, interval: %s, debounce: %s, workers: %d\n",
		s.Verbosity, s.Interval, s.Debounce, s.Workers)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tRECURSIVE\tCHANGES\tTIMER\tEXEC")
	for _, d := range s.Locations {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\n", d.Name, d.Path, d.Recursive, d.Changes, d.Timer, d.Exec)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
