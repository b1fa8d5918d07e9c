package transport

import "fmt"

// FlowStatus is a byte pushed by the glasses on the flow control
// characteristic, either pacing the sender or reporting a transport
// level fault.
type FlowStatus uint8

const (
	// FlowCanSend signals the glasses are ready for more data.
	FlowCanSend FlowStatus = 0x01
	// FlowShouldWait asks the sender to pause until the next
	// FlowCanSend.
	FlowShouldWait FlowStatus = 0x02
	// FlowMessageError reports a malformed frame.
	FlowMessageError FlowStatus = 0x03
	// FlowQueueOverflow reports the receive queue overflowed.
	FlowQueueOverflow FlowStatus = 0x04
	// FlowReservedError is emitted for faults with no dedicated code.
	FlowReservedError FlowStatus = 0x05
	// FlowMissingCfgWrite reports a configuration operation attempted
	// without a prior configuration write.
	FlowMissingCfgWrite FlowStatus = 0x06
)

// IsError reports whether the status is a fault rather than a pacing
// signal.
func (f FlowStatus) IsError() bool {
	return f >= FlowMessageError && f <= FlowMissingCfgWrite
}

func (f FlowStatus) String() string {
	switch f {
	case FlowCanSend:
		return "CanSend"
	case FlowShouldWait:
		return "ShouldWait"
	case FlowMessageError:
		return "MessageError"
	case FlowQueueOverflow:
		return "QueueOverflow"
	case FlowReservedError:
		return "ReservedError"
	case FlowMissingCfgWrite:
		return "MissingCfgWrite"
	default:
		return fmt.Sprintf("FlowStatus(0x%02X)", uint8(f))
	}
}
