package core

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	godaemon "github.com/sevlyar/go-daemon"

	"github.com/dimasma0305/backontime/internal/backontime/config"
	"github.com/dimasma0305/backontime/internal/backontime/daemon"
	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/log"
)

// Start runs the daemon. In foreground mode it blocks until SIGINT or SIGTERM; in
// daemon mode the parent returns as soon as the background child is started.
func Start(s *config.Settings, foreground bool) error {
	if len(s.Locations) == 0 {
		log.Error("%v, nothing to do", errors.ErrNoLocations)
		return nil
	}

	if foreground {
		return startForeground(s)
	}
	return startAsDaemon(s)
}

func startForeground(s *config.Settings) error {
	if st := daemon.GetStatus(s.PidFile); st.Running {
		return fmt.Errorf("daemon already running (PID %d)", st.PID)
	}
	if err := daemon.EnsureDirectoriesExist(s.PidFile); err != nil {
		return err
	}
	if err := daemon.WritePIDFile(s.PidFile, os.Getpid()); err != nil {
		return err
	}
	defer func() {
		if err := daemon.RemovePIDFile(s.PidFile); err != nil {
			log.Warn("Failed to remove PID file: %v", err)
		}
	}()

	return run(s)
}

func startAsDaemon(s *config.Settings) error {
	if !godaemon.WasReborn() {
		if st := daemon.GetStatus(s.PidFile); st.Running {
			return fmt.Errorf("daemon already running (PID %d)", st.PID)
		}
		if err := daemon.EnsureDirectoriesExist(s.PidFile, s.LogFile); err != nil {
			return err
		}
	}

	dctx := &godaemon.Context{
		PidFileName: s.PidFile,
		PidFilePerm: 0644,
		LogFileName: s.LogFile,
		LogFilePerm: 0640,
		WorkDir:     "./",
		Umask:       027,
	}

	child, err := dctx.Reborn()
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	if child != nil {
		log.Info("Daemon started (PID %d)", child.Pid)
		log.InfoH2("PID file: %s", s.PidFile)
		log.InfoH2("Log file: %s", s.LogFile)
		return nil
	}
	defer func() {
		if err := dctx.Release(); err != nil {
			log.Warn("Failed to release PID file: %v", err)
		}
	}()

	return run(s)
}

func run(s *config.Settings) error {
	b, err := New(s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return b.Run(ctx)
}
