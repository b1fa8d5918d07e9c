package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the client or server instance
	// (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole indicates whether this end is the master or the
	// glasses side.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame   *FrameEvent     `cbor:"7,keyasint,omitempty"`  // Packet layer
	Message *MessageEvent   `cbor:"8,keyasint,omitempty"`  // Codec layer (decoded)
	Flow    *FlowEvent      `cbor:"9,keyasint,omitempty"`  // Control characteristic
	Error   *ErrorEventData `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerPacket is the framing layer (raw bytes).
	LayerPacket Layer = 0
	// LayerCodec is the command/response encoding layer.
	LayerCodec Layer = 1
	// LayerControl is the flow-control characteristic.
	LayerControl Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerPacket:
		return "PACKET"
	case LayerCodec:
		return "CODEC"
	case LayerControl:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (command/response).
	CategoryMessage Category = 0
	// CategoryFlow indicates a flow-control byte.
	CategoryFlow Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryFlow:
		return "FLOW"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates which side of the link produced the event.
type Role uint8

const (
	// RoleMaster is the phone/computer side driving the glasses.
	RoleMaster Role = 0
	// RoleGlasses is the device side (firmware or emulator).
	RoleGlasses Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleMaster:
		return "MASTER"
	case RoleGlasses:
		return "GLASSES"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the packet layer.
type FrameEvent struct {
	// Size is the full frame size in bytes, delimiters included.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded command or response.
type MessageEvent struct {
	// CommandID is the catalog identifier of the message.
	CommandID uint8 `cbor:"1,keyasint"`

	// QueryID is the raw correlation id carried by the frame, if any.
	QueryID []byte `cbor:"2,keyasint,omitempty"`

	// PayloadSize is the encoded payload length in bytes.
	PayloadSize int `cbor:"3,keyasint,omitempty"`
}

// FlowEvent captures a byte received or sent on the flow-control
// characteristic.
type FlowEvent struct {
	// Status is the raw flow-control value.
	Status uint8 `cbor:"1,keyasint"`
}

// ErrorEventData captures error details.
type ErrorEventData struct {
	// Message is the error description.
	Message string `cbor:"1,keyasint"`
}
