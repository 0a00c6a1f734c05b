package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dimasma0305/backontime/internal/backontime/errors"
)

// Client talks to a running daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new client for socketPath
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    30 * time.Second,
	}
}

// SetTimeout sets the connection timeout for the client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SendCommand sends a command to the daemon and returns the response. A daemon
// that cannot be reached yields ErrDaemonNotRunning.
func (c *Client) SendCommand(action string, data map[string]interface{}) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to %s: %v", errors.ErrDaemonNotRunning, c.socketPath, err)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(Command{Action: action, Data: data}); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &response, nil
}

// Status gets the daemon status
func (c *Client) Status() (*Response, error) {
	return c.SendCommand(ActionStatus, nil)
}

// ListLocations gets every location with its trigger state
func (c *Client) ListLocations() (*Response, error) {
	return c.SendCommand(ActionListLocations, nil)
}

// GetRuns gets recent runs, optionally for one location
func (c *Client) GetRuns(location string, limit int) (*Response, error) {
	data := map[string]interface{}{"limit": limit}
	if location != "" {
		data["location"] = location
	}
	return c.SendCommand(ActionGetRuns, data)
}

// GetLogs gets recent daemon events
func (c *Client) GetLogs(limit int) (*Response, error) {
	return c.SendCommand(ActionGetLogs, map[string]interface{}{"limit": limit})
}

// Trigger forces the named location to fire on the next evaluation pass
func (c *Client) Trigger(name string) (*Response, error) {
	return c.SendCommand(ActionTrigger, map[string]interface{}{"location": name})
}

// IsRunning reports whether a daemon answers on the socket
func (c *Client) IsRunning() bool {
	response, err := c.Status()
	return err == nil && response.Success
}
