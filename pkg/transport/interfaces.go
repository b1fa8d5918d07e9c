package transport

import "github.com/activelook-protocol/activelook-go/pkg/wire"

// CommandSender is the master-side surface applications drive.
type CommandSender interface {
	Send(cmd wire.Command) error
	SendWithResponse(cmd wire.Command) (wire.Response, error)
}

// CommandReceiver is the device-side surface a glasses implementation
// serves.
type CommandReceiver interface {
	ReadCommand() (*CommandFrame, error)
	WriteResponse(resp wire.Response, queryID []byte) error
	WriteFlowStatus(status FlowStatus) error
}

// Compile-time interface satisfaction checks.
var (
	_ CommandSender   = (*Client)(nil)
	_ CommandReceiver = (*Server)(nil)
)
