package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/log"
)

var (
	initPath    string
	initExec    string
	initChanges string
	initTimer   string
	initForce   bool
)

const defaultInitExec = "tar czf {{name}}.tar.gz {{path}}"

// initAnswers holds one location as entered by the user. Thresholds stay strings
// so that an empty answer means "unset".
type initAnswers struct {
	Path    string `survey:"path"`
	Changes string `survey:"changes"`
	Timer   string `survey:"timer"`
	Exec    string `survey:"exec"`
}

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Write a new configuration file",
	Long: `Create a configuration file with one or more backup locations.

You can provide a single location via flags or be prompted for input interactively.
In the command, {{path}} is replaced by the location's path and {{name}} by its name.`,
	Example: `  # Initialize with prompts
  backontime init

  # Initialize with flags
  backontime init --path ~/Documents --changes 20 --timer 60 --exec "restic backup {{path}}"`,
	Run: func(_ *cobra.Command, _ []string) {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			log.Fatal(fmt.Sprintf("%s already exists, use --force to overwrite it", cfgFile))
		}

		var (
			c   config.Config
			err error
		)
		if initPath != "" {
			c, err = configFromAnswers([]initAnswers{{Path: initPath, Changes: initChanges, Timer: initTimer, Exec: initExec}}, "")
		} else {
			c, err = askConfig()
		}
		if err != nil {
			log.Fatal(err)
		}

		if err := config.WriteYamlFile(cfgFile, c); err != nil {
			log.Fatal("Failed to write configuration: ", err)
		}
		log.Info("Configuration written to %s", cfgFile)
		log.InfoH2("Start the daemon with: backontime run --config %s", cfgFile)
	},
}

func askConfig() (config.Config, error) {
	questions := []*survey.Question{
		{
			Name:     "path",
			Prompt:   &survey.Input{Message: "Path to watch:"},
			Validate: survey.Required,
		},
		{
			Name:     "changes",
			Prompt:   &survey.Input{Message: "Back up after this many changes (empty to disable):", Default: "10"},
			Validate: validThreshold,
		},
		{
			Name:     "timer",
			Prompt:   &survey.Input{Message: "Back up after this many minutes (empty to disable):", Default: "60"},
			Validate: validThreshold,
		},
		{
			Name:     "exec",
			Prompt:   &survey.Input{Message: "Backup command:", Default: defaultInitExec},
			Validate: survey.Required,
		},
	}

	var all []initAnswers
	for {
		var a initAnswers
		if err := survey.Ask(questions, &a); err != nil {
			return config.Config{}, fmt.Errorf("init canceled: %w", err)
		}
		all = append(all, a)

		more := false
		if err := survey.AskOne(&survey.Confirm{Message: "Add another location?"}, &more); err != nil {
			return config.Config{}, fmt.Errorf("init canceled: %w", err)
		}
		if !more {
			break
		}
	}

	level := "info"
	if err := survey.AskOne(&survey.Select{
		Message: "Verbosity:",
		Options: []string{"error", "warn", "info", "debug", "trace"},
		Default: level,
	}, &level); err != nil {
		return config.Config{}, fmt.Errorf("init canceled: %w", err)
	}

	return configFromAnswers(all, level)
}

func validThreshold(ans interface{}) error {
	s, _ := ans.(string)
	_, err := parseThreshold(s)
	return err
}

func parseThreshold(s string) (*uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%q is not a non-negative number", s)
	}
	v := uint32(n)
	return &v, nil
}

// configFromAnswers builds a configuration and checks it with the same rules the
// daemon applies at startup.
func configFromAnswers(all []initAnswers, level string) (config.Config, error) {
	c := config.Config{Verbosity: level}
	for _, a := range all {
		b := config.BackupConfig{Path: strings.TrimSpace(a.Path), Exec: strings.TrimSpace(a.Exec)}
		if b.Exec == "" {
			b.Exec = defaultInitExec
		}

		var err error
		if b.Changes, err = parseThreshold(a.Changes); err != nil {
			return config.Config{}, fmt.Errorf("changes: %w", err)
		}
		if b.Timer, err = parseThreshold(a.Timer); err != nil {
			return config.Config{}, fmt.Errorf("timer: %w", err)
		}
		c.Backups = append(c.Backups, b)
	}

	if _, err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initPath, "path", "", "Path to watch (skips the prompts)")
	initCmd.Flags().StringVar(&initExec, "exec", defaultInitExec, "Backup command")
	initCmd.Flags().StringVar(&initChanges, "changes", "", "Back up after this many changes")
	initCmd.Flags().StringVar(&initTimer, "timer", "", "Back up after this many minutes")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
}
