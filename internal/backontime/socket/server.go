package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
	"github.com/dimasma0305/backontime/internal/log"
)

// CommandHandler processes socket commands
type CommandHandler interface {
	HandleCommand(cmd Command) Response
}

// Server handles Unix socket server operations
type Server struct {
	socketPath string
	listener   net.Listener
	mu         sync.RWMutex
	enabled    bool
	handler    CommandHandler
}

// NewServer creates a new socket server
func NewServer(socketPath string, enabled bool, handler CommandHandler) *Server {
	return &Server{
		socketPath: socketPath,
		enabled:    enabled,
		handler:    handler,
	}
}

// Init creates the socket. A leftover socket file from a previous run is replaced.
func (s *Server) Init() error {
	if !s.enabled {
		log.DebugH2("Control socket disabled")
		return nil
	}

	socketPath := s.socketPath
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		log.Warn("Failed to remove existing socket file: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0750); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create Unix socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.DebugH2("Control socket listening on %s", socketPath)
	return nil
}

// Close closes the listener and removes the socket file
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	err := s.listener.Close()
	s.listener = nil

	if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
		log.Warn("Failed to remove socket file: %v", removeErr)
	}
	return err
}

// Run accepts connections until ctx is cancelled or the server is closed. Each
// connection is served on its own goroutine.
func (s *Server) Run(ctx context.Context) {
	s.mu.RLock()
	listener := s.listener
	s.mu.RUnlock()

	if listener == nil {
		return
	}

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Error("Failed to accept socket connection: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	_ = conn.SetDeadline(time.Now().Add(30 * time.Second))

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	var cmd Command
	if err := decoder.Decode(&cmd); err != nil {
		_ = encoder.Encode(Fail("Failed to decode command: %v", err))
		return
	}

	log.Trace("socket: %s %v", cmd.Action, cmd.Data)
	if err := encoder.Encode(s.handler.HandleCommand(cmd)); err != nil {
		log.Error("Failed to send socket response: %v", err)
	}
}

// IsEnabled returns whether the socket server is enabled
func (s *Server) IsEnabled() bool {
	return s.enabled
}
