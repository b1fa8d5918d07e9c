package transport

import (
	"time"

	"github.com/activelook-protocol/activelook-go/pkg/log"
)

// maxLogFrameDataSize caps the raw bytes captured per frame event.
const maxLogFrameDataSize = 4096

func frameEvent(connID string, role log.Role, direction log.Direction, frame []byte) log.Event {
	data := frame
	truncated := false
	if len(data) > maxLogFrameDataSize {
		data = data[:maxLogFrameDataSize]
		truncated = true
	}
	captured := make([]byte, len(data))
	copy(captured, data)
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerPacket,
		Category:     log.CategoryMessage,
		LocalRole:    role,
		Frame: &log.FrameEvent{
			Size:      len(frame),
			Data:      captured,
			Truncated: truncated,
		},
	}
}

func messageEvent(connID string, role log.Role, direction log.Direction, commandID uint8, queryID []byte, payloadSize int) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerCodec,
		Category:     log.CategoryMessage,
		LocalRole:    role,
		Message: &log.MessageEvent{
			CommandID:   commandID,
			QueryID:     queryID,
			PayloadSize: payloadSize,
		},
	}
}

func flowEvent(connID string, role log.Role, direction log.Direction, status FlowStatus) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerControl,
		Category:     log.CategoryFlow,
		LocalRole:    role,
		Flow:         &log.FlowEvent{Status: uint8(status)},
	}
}

func errorEvent(connID string, role log.Role, direction log.Direction, layer log.Layer, err error) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        layer,
		Category:     log.CategoryError,
		LocalRole:    role,
		Error:        &log.ErrorEventData{Message: err.Error()},
	}
}
