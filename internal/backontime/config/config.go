//nolint:revive // Config struct field names match YAML structure
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/backontime/location"
	"github.com/dimasma0305/backontime/internal/log"
)

const (
	DefaultConfigFile = "backontime.yaml"
	StateDir          = ".backontime"
)

// Config is the on-disk configuration file.
type Config struct {
	Verbosity      string         `yaml:"verbosity,omitempty"`
	Interval       time.Duration  `yaml:"interval,omitempty"`
	Debounce       time.Duration  `yaml:"debounce,omitempty"`
	Workers        int            `yaml:"workers,omitempty"`
	ResetOnFailure *bool          `yaml:"reset_on_failure,omitempty"`
	History        HistoryConfig  `yaml:"history,omitempty"`
	Socket         SocketConfig   `yaml:"socket,omitempty"`
	Daemon         DaemonConfig   `yaml:"daemon,omitempty"`
	Notify         NotifyConfig   `yaml:"notify,omitempty"`
	Backups        []BackupConfig `yaml:"backup"`
}

// BackupConfig is one `backup` entry before validation.
type BackupConfig struct {
	Path      string        `yaml:"path"`
	Name      string        `yaml:"name,omitempty"`
	Recursive *bool         `yaml:"recursive,omitempty"`
	Changes   *uint32       `yaml:"changes,omitempty"`
	Timer     *uint32       `yaml:"timer,omitempty"`
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	Exec      string        `yaml:"exec"`
}

type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

type SocketConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

type DaemonConfig struct {
	PidFile string `yaml:"pid_file,omitempty"`
	LogFile string `yaml:"log_file,omitempty"`
}

type EmailConfig struct {
	Host     string   `yaml:"host,omitempty"`
	Port     int      `yaml:"port,omitempty"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	From     string   `yaml:"from,omitempty"`
	To       []string `yaml:"to,omitempty"`
}

type NotifyConfig struct {
	DiscordWebhook string      `yaml:"discord_webhook,omitempty"`
	WebhookURL     string      `yaml:"webhook_url,omitempty"`
	Email          EmailConfig `yaml:"email,omitempty"`
}

// Settings is the validated configuration handed to the daemon.
type Settings struct {
	Verbosity      log.Level
	Interval       time.Duration
	Debounce       time.Duration
	Workers        int
	ResetOnFailure bool

	HistoryEnabled bool
	HistoryPath    string
	SocketEnabled  bool
	SocketPath     string
	PidFile        string
	LogFile        string

	Notify    NotifyConfig
	Locations []location.Descriptor
}

// Defaults for unset fields
var Defaults = Settings{
	Verbosity:      log.LevelInfo,
	Interval:       time.Minute,
	Debounce:       time.Minute,
	Workers:        1,
	ResetOnFailure: true,
	HistoryEnabled: true,
	HistoryPath:    filepath.Join(StateDir, "history.db"),
	SocketEnabled:  true,
	SocketPath:     filepath.Join(StateDir, "backontime.sock"),
	PidFile:        filepath.Join(StateDir, "backontime.pid"),
	LogFile:        filepath.Join(StateDir, "backontime.log"),
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Settings, error) {
	var c Config
	if err := ParseYamlFromFile(path, &c); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errors.ErrConfigNotFound, path)
		}
		return nil, err
	}
	return c.Validate()
}

// Parse validates configuration from raw YAML.
func Parse(b []byte) (*Settings, error) {
	var c Config
	if err := ParseYamlFromBytes(b, &c); err != nil {
		return nil, err
	}
	return c.Validate()
}

// Validate applies defaults and turns every backup entry into a location descriptor.
func (c *Config) Validate() (*Settings, error) {
	s := Defaults
	s.Notify = c.Notify

	level, err := log.ParseLevel(c.Verbosity)
	if err != nil {
		return nil, fmt.Errorf("%w: verbosity %q", errors.ErrUnknownVariant, c.Verbosity)
	}
	s.Verbosity = level

	if c.Interval < 0 || c.Debounce < 0 || c.Workers < 0 {
		return nil, fmt.Errorf("%w: interval, debounce and workers must not be negative", errors.ErrInvalidConfig)
	}
	if c.Interval > 0 {
		s.Interval = c.Interval
	}
	if c.Debounce > 0 {
		s.Debounce = c.Debounce
	}
	if c.Workers > 0 {
		s.Workers = c.Workers
	}
	if c.ResetOnFailure != nil {
		s.ResetOnFailure = *c.ResetOnFailure
	}

	if c.History.Enabled != nil {
		s.HistoryEnabled = *c.History.Enabled
	}
	if c.History.Path != "" {
		s.HistoryPath = c.History.Path
	}
	if c.Socket.Enabled != nil {
		s.SocketEnabled = *c.Socket.Enabled
	}
	if c.Socket.Path != "" {
		s.SocketPath = c.Socket.Path
	}
	if c.Daemon.PidFile != "" {
		s.PidFile = c.Daemon.PidFile
	}
	if c.Daemon.LogFile != "" {
		s.LogFile = c.Daemon.LogFile
	}

	s.Locations = make([]location.Descriptor, 0, len(c.Backups))
	for i := range c.Backups {
		d, err := c.Backups[i].descriptor()
		if err != nil {
			return nil, fmt.Errorf("backup #%d: %w", i+1, err)
		}
		s.Locations = append(s.Locations, d)
	}

	return &s, nil
}

func (b *BackupConfig) descriptor() (location.Descriptor, error) {
	if strings.TrimSpace(b.Path) == "" {
		return location.Descriptor{}, fmt.Errorf("%w: path", errors.ErrMissingRequired)
	}
	if strings.TrimSpace(b.Exec) == "" {
		return location.Descriptor{}, fmt.Errorf("%w: exec", errors.ErrMissingRequired)
	}
	if b.Changes == nil && b.Timer == nil {
		return location.Descriptor{}, fmt.Errorf("%w: both \"timer\" and \"changes\" are unset", errors.ErrMissingRequired)
	}

	path, err := filepath.Abs(b.Path)
	if err != nil {
		return location.Descriptor{}, fmt.Errorf("%w: %s: %v", errors.ErrInvalidPath, b.Path, err)
	}

	name := b.Name
	if name == "" {
		name, err = lastComponent(path)
		if err != nil {
			return location.Descriptor{}, err
		}
	}

	d := location.Descriptor{
		Name:      name,
		Path:      path,
		Recursive: resolveRecursive(path, b.Recursive),
		Timeout:   b.Timeout,
		Exec:      substitute(b.Exec, path, name),
	}
	if b.Changes != nil {
		d.Changes = location.Limit(*b.Changes)
	}
	if b.Timer != nil {
		d.Timer = location.Limit(*b.Timer)
	}
	if !d.Changes.IsSet() && !d.Timer.IsSet() {
		return location.Descriptor{}, fmt.Errorf("%w: %s: \"timer\" and \"changes\" are both zero", errors.ErrInvalidConfig, path)
	}
	if d.Timeout < 0 {
		return location.Descriptor{}, fmt.Errorf("%w: %s: negative timeout", errors.ErrInvalidConfig, path)
	}

	return d, nil
}

func lastComponent(path string) (string, error) {
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q has no last component", errors.ErrInvalidPath, path)
	}
	return name, nil
}

// resolveRecursive defaults recursion to "is a directory" and downgrades
// recursive watches on plain files.
func resolveRecursive(path string, configured *bool) bool {
	info, err := os.Stat(path)
	isDir := err == nil && info.IsDir()
	isFile := err == nil && !info.IsDir()

	if configured == nil {
		return isDir
	}
	if *configured && isFile {
		log.Warn("%s is a file, but recursive is \"true\"", path)
		return false
	}
	if !*configured && isDir {
		log.Warn("%s is a directory, but recursive is \"false\"", path)
	}
	return *configured
}

func substitute(exec, path, name string) string {
	return strings.NewReplacer("{{path}}", path, "{{name}}", name).Replace(exec)
}
