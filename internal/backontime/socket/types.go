// Package socket is the daemon's JSON-over-Unix-socket control channel.
package socket

import (
	"encoding/json"
	"fmt"
)

// Actions understood by the daemon
const (
	ActionStatus        = "status"
	ActionListLocations = "list_locations"
	ActionGetRuns       = "get_runs"
	ActionGetLogs       = "get_logs"
	ActionTrigger       = "trigger"
)

// Command is a request sent to the daemon.
type Command struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Response is the daemon's answer to a Command.
type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Fail builds an unsuccessful response.
func Fail(format string, args ...interface{}) Response {
	return Response{Success: false, Error: fmt.Sprintf(format, args...)}
}

// String returns a string argument, or "" when absent.
func (c Command) String(key string) string {
	s, _ := c.Data[key].(string)
	return s
}

// Int returns an integer argument. JSON numbers arrive as float64.
func (c Command) Int(key string, def int) int {
	switch v := c.Data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// Decode converts Data[key] into out by way of JSON.
func (r *Response) Decode(key string, out interface{}) error {
	raw, ok := r.Data[key]
	if !ok {
		return fmt.Errorf("response has no %q field", key)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
