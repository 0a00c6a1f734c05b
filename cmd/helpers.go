package cmd

import (
	"fmt"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/backontime/socket"
	"github.com/dimasma0305/backontime/internal/log"
)

// loadSettings loads the configuration file and applies --verbosity on top of it.
func loadSettings() (*config.Settings, error) {
	s, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyVerbosity(s); err != nil {
		return nil, err
	}
	return s, nil
}

// runtimeSettings is like loadSettings, but falls back to the defaults when the
// configuration file does not exist. Commands that only talk to a running daemon
// use it so they keep working from any directory.
func runtimeSettings() (*config.Settings, error) {
	s, err := loadSettings()
	if errors.Is(err, errors.ErrConfigNotFound) {
		log.Debug("%v, using defaults", err)
		d := config.Defaults
		return &d, applyVerbosity(&d)
	}
	return s, err
}

func applyVerbosity(s *config.Settings) error {
	if verbosity != "" {
		level, err := log.ParseLevel(verbosity)
		if err != nil {
			return fmt.Errorf("%w: verbosity %q", errors.ErrUnknownVariant, verbosity)
		}
		s.Verbosity = level
	}
	if debugMode && s.Verbosity < log.LevelDebug {
		s.Verbosity = log.LevelDebug
	}
	log.SetLevel(s.Verbosity)
	return nil
}

// daemonClient returns a socket client for the daemon described by s.
func daemonClient(s *config.Settings) (*socket.Client, error) {
	if !s.SocketEnabled {
		return nil, errors.ErrSocketDisabled
	}
	return socket.NewClient(s.SocketPath), nil
}

// sendOrFail turns an unsuccessful response into an error.
func sendOrFail(resp *socket.Response, err error) (*socket.Response, error) {
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return resp, nil
}
