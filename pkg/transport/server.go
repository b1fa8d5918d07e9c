package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// ServerConfig tunes a Server. The zero value is usable.
type ServerConfig struct {
	// Logger receives protocol trace events. Nil disables tracing.
	Logger log.Logger
}

// Server is the glasses-side peer. It reads framed commands from the
// write stream and frames responses onto the notify stream. The caller
// decides which responses to emit and echoes the query ID of the
// command being answered.
type Server struct {
	rx   io.Reader
	tx   io.Writer
	ctrl io.Writer

	config ServerConfig
	connID string

	// pending accumulates a chunked frame until it is complete.
	pending []byte
}

// CommandFrame pairs a decoded command with the correlation id it
// arrived with. Pass QueryID back to WriteResponse when answering.
type CommandFrame struct {
	Command wire.Command
	QueryID []byte
}

// NewServer wraps the three characteristic streams of the device side:
// rx carries incoming writes, tx carries notifications, ctrl carries
// flow control bytes.
func NewServer(rx io.Reader, tx io.Writer, ctrl io.Writer, config ServerConfig) *Server {
	if config.Logger == nil {
		config.Logger = log.NoopLogger{}
	}
	return &Server{
		rx:     rx,
		tx:     tx,
		ctrl:   ctrl,
		config: config,
		connID: uuid.New().String(),
	}
}

// ConnectionID returns the identifier tagged onto this server's trace
// events.
func (s *Server) ConnectionID() string {
	return s.connID
}

// ReadCommand makes a single read attempt and decodes one command
// frame. It returns ErrNoData when nothing is pending, or while a
// chunked frame is still arriving.
//
// Large payloads cross the link as several writes: a frame whose
// declared length exceeds the bytes read so far is buffered until the
// remaining chunks arrive, the way the glasses firmware reassembles
// oversized writes.
func (s *Server) ReadCommand() (*CommandFrame, error) {
	buf := make([]byte, MaxFrameSize)
	n, err := s.rx.Read(buf)
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, ErrNoData
	}

	data, complete := s.accumulate(buf[:n])
	if !complete {
		return nil, ErrNoData
	}

	frame, err := DecodeFrame(data)
	if err != nil {
		s.config.Logger.Log(errorEvent(s.connID, log.RoleGlasses, log.DirectionIn, log.LayerPacket, err))
		return nil, err
	}
	s.config.Logger.Log(frameEvent(s.connID, log.RoleGlasses, log.DirectionIn, data))

	cmd, err := wire.DecodeCommand(wire.CommandID(frame.CommandID), frame.Payload)
	if err != nil {
		s.config.Logger.Log(errorEvent(s.connID, log.RoleGlasses, log.DirectionIn, log.LayerCodec, err))
		return nil, err
	}
	s.config.Logger.Log(messageEvent(s.connID, log.RoleGlasses, log.DirectionIn, frame.CommandID, frame.QueryID, len(frame.Payload)))

	var queryID []byte
	if len(frame.QueryID) > 0 {
		queryID = make([]byte, len(frame.QueryID))
		copy(queryID, frame.QueryID)
	}
	return &CommandFrame{Command: cmd, QueryID: queryID}, nil
}

// accumulate merges read bytes with any buffered partial frame and
// reports whether a full frame is available. Incomplete data stays
// buffered; anything overlong or malformed is flushed to the decoder,
// which rejects it.
func (s *Server) accumulate(read []byte) ([]byte, bool) {
	data := read
	if len(s.pending) > 0 {
		s.pending = append(s.pending, read...)
		data = s.pending
	}

	declared, ok := declaredFrameLength(data)
	if ok && len(data) < declared && len(data) <= MaxFrameSize {
		if len(s.pending) == 0 {
			s.pending = append(s.pending, read...)
		}
		return nil, false
	}

	s.pending = nil
	return data, true
}

// declaredFrameLength reads the total frame length out of a header.
// ok is false when too few bytes have arrived to carry the length
// field, or when the bytes are not a frame start at all.
func declaredFrameLength(buf []byte) (int, bool) {
	if len(buf) < 4 || buf[0] != FrameStart {
		return 0, false
	}
	if buf[2]&formatExtendedLength == 0 {
		return int(buf[3]), true
	}
	if len(buf) < 5 {
		return 0, false
	}
	return int(buf[3])<<8 | int(buf[4]), true
}

// WriteResponse frames resp with the given query ID and writes it as a
// notification.
func (s *Server) WriteResponse(resp wire.Response, queryID []byte) error {
	id, payload := wire.EncodeResponse(resp)
	frame, err := EncodeFrame(uint8(id), payload, queryID)
	if err != nil {
		return err
	}
	if _, err := s.tx.Write(frame); err != nil {
		s.config.Logger.Log(errorEvent(s.connID, log.RoleGlasses, log.DirectionOut, log.LayerPacket, err))
		return fmt.Errorf("write failed: %w", err)
	}
	s.config.Logger.Log(frameEvent(s.connID, log.RoleGlasses, log.DirectionOut, frame))
	s.config.Logger.Log(messageEvent(s.connID, log.RoleGlasses, log.DirectionOut, uint8(id), queryID, len(payload)))
	return nil
}

// WriteFlowStatus pushes a flow control byte to the peer.
func (s *Server) WriteFlowStatus(status FlowStatus) error {
	if _, err := s.ctrl.Write([]byte{byte(status)}); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	s.config.Logger.Log(flowEvent(s.connID, log.RoleGlasses, log.DirectionOut, status))
	return nil
}
