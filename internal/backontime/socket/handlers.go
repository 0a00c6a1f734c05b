package socket

// Handler implements each action of the control socket.
type Handler interface {
	HandleStatus(cmd Command) Response
	HandleListLocations(cmd Command) Response
	HandleGetRuns(cmd Command) Response
	HandleGetLogs(cmd Command) Response
	HandleTrigger(cmd Command) Response
}

// Dispatcher implements CommandHandler by routing to Handler methods
type Dispatcher struct {
	handler Handler
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{handler: handler}
}

// HandleCommand routes cmd by its action
func (d *Dispatcher) HandleCommand(cmd Command) Response {
	switch cmd.Action {
	case ActionStatus:
		return d.handler.HandleStatus(cmd)
	case ActionListLocations:
		return d.handler.HandleListLocations(cmd)
	case ActionGetRuns:
		return d.handler.HandleGetRuns(cmd)
	case ActionGetLogs:
		return d.handler.HandleGetLogs(cmd)
	case ActionTrigger:
		return d.handler.HandleTrigger(cmd)
	default:
		return Fail("Unknown command: %s", cmd.Action)
	}
}
