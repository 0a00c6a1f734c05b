package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/config"
)

// validLocationNames returns the configured location names for shell completion.
func validLocationNames(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := configuredLocations(cfgFile)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// configuredLocations lists the location names in the configuration file at path.
func configuredLocations(path string) ([]string, error) {
	s, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.Locations))
	for _, d := range s.Locations {
		names = append(names, d.Name)
	}
	return names, nil
}
