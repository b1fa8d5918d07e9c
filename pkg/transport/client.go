package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// QueryIDSize is the width of the correlation counter the client puts
// on the wire.
const QueryIDSize = 4

var (
	// ErrNoData indicates a read attempt yielded nothing.
	ErrNoData = errors.New("no data available")

	// ErrIncorrectQueryID indicates a response carried a correlation
	// id that does not match the command it should answer.
	ErrIncorrectQueryID = errors.New("response query ID does not match sent command")

	// ErrNoResponse indicates the attempt budget ran out before a
	// well-formed response arrived.
	ErrNoResponse = errors.New("no response")
)

// ClientConfig tunes a Client. The zero value is usable.
type ClientConfig struct {
	// MaxReadAttempts bounds the number of read attempts made while
	// awaiting a response. Zero retries indefinitely, matching the
	// behavior of a link where the peer always answers.
	MaxReadAttempts int

	// Logger receives protocol trace events. Nil disables tracing.
	Logger log.Logger
}

// Client is the master-side peer. It frames commands onto the write
// stream, correlates responses arriving on the notify stream and
// surfaces flow control bytes from the control stream.
//
// rx and ctrl must deliver one complete notification per Read, which
// is what a GATT stack provides. Client is not safe for concurrent
// use; BLE links are serial anyway.
type Client struct {
	rx   io.Reader
	tx   io.Writer
	ctrl io.Reader

	config  ClientConfig
	connID  string
	queryID uint32
}

// ResponseFrame pairs a decoded response with the correlation id the
// glasses echoed back.
type ResponseFrame struct {
	Response wire.Response
	QueryID  []byte
}

// NewClient wraps the three characteristic streams of a glasses link:
// rx carries notifications, tx carries writes, ctrl carries flow
// control bytes.
func NewClient(rx io.Reader, tx io.Writer, ctrl io.Reader, config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = log.NoopLogger{}
	}
	return &Client{
		rx:     rx,
		tx:     tx,
		ctrl:   ctrl,
		config: config,
		connID: uuid.New().String(),
	}
}

// ConnectionID returns the identifier tagged onto this client's trace
// events.
func (c *Client) ConnectionID() string {
	return c.connID
}

func (c *Client) nextQueryID() []byte {
	c.queryID++
	queryID := make([]byte, QueryIDSize)
	binary.BigEndian.PutUint32(queryID, c.queryID)
	return queryID
}

// Send frames cmd with a fresh query ID and writes it in one piece.
func (c *Client) Send(cmd wire.Command) error {
	_, err := c.sendCommand(cmd)
	return err
}

func (c *Client) sendCommand(cmd wire.Command) (uint32, error) {
	id, payload := wire.EncodeCommand(cmd)
	queryID := c.nextQueryID()

	frame, err := EncodeFrame(uint8(id), payload, queryID)
	if err != nil {
		return 0, err
	}
	if _, err := c.tx.Write(frame); err != nil {
		c.config.Logger.Log(errorEvent(c.connID, log.RoleMaster, log.DirectionOut, log.LayerPacket, err))
		return 0, fmt.Errorf("write failed: %w", err)
	}
	c.config.Logger.Log(frameEvent(c.connID, log.RoleMaster, log.DirectionOut, frame))
	c.config.Logger.Log(messageEvent(c.connID, log.RoleMaster, log.DirectionOut, uint8(id), queryID, len(payload)))
	return c.queryID, nil
}

// SendChunked frames cmd and writes it as a sequence of MTU-sized
// pieces: envelope header first, then the payload chunks from
// SplitCommand, then the end delimiter. The glasses reassemble on the
// declared length and trailing delimiter.
func (c *Client) SendChunked(cmd wire.Command, chunkSize int) error {
	id, payload := wire.EncodeCommand(cmd)
	queryID := c.nextQueryID()

	frame, err := EncodeFrame(uint8(id), payload, queryID)
	if err != nil {
		return err
	}
	if chunkSize <= 0 || len(frame) <= chunkSize {
		if _, err := c.tx.Write(frame); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
		c.config.Logger.Log(frameEvent(c.connID, log.RoleMaster, log.DirectionOut, frame))
		return nil
	}

	header := frame[:len(frame)-len(payload)-1]
	pieces := append([][]byte{header}, SplitCommand(cmd, chunkSize)...)
	pieces = append(pieces, []byte{FrameEnd})
	for _, piece := range pieces {
		if _, err := c.tx.Write(piece); err != nil {
			c.config.Logger.Log(errorEvent(c.connID, log.RoleMaster, log.DirectionOut, log.LayerPacket, err))
			return fmt.Errorf("write failed: %w", err)
		}
	}
	c.config.Logger.Log(frameEvent(c.connID, log.RoleMaster, log.DirectionOut, frame))
	return nil
}

// SendWithResponse frames cmd, writes it, then reads notifications
// until a well-formed response arrives. Reads that yield nothing or
// fail to parse are retried; a response whose query ID does not match
// the sent command fails with ErrIncorrectQueryID.
func (c *Client) SendWithResponse(cmd wire.Command) (wire.Response, error) {
	sent, err := c.sendCommand(cmd)
	if err != nil {
		return nil, err
	}

	attempts := 0
	for {
		frame, resp, err := c.readResponse()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("link closed: %w", err)
			}
			attempts++
			if c.config.MaxReadAttempts > 0 && attempts >= c.config.MaxReadAttempts {
				return nil, fmt.Errorf("%w after %d read attempts", ErrNoResponse, attempts)
			}
			continue
		}
		if len(frame.QueryID) != QueryIDSize || binary.BigEndian.Uint32(frame.QueryID) != sent {
			return nil, ErrIncorrectQueryID
		}
		return resp, nil
	}
}

// ReadNotification makes a single read attempt on the notify stream.
// It returns ErrNoData when nothing is pending and a decode error when
// the bytes read do not form a valid response frame.
func (c *Client) ReadNotification() (*ResponseFrame, error) {
	frame, resp, err := c.readResponse()
	if err != nil {
		return nil, err
	}
	return &ResponseFrame{Response: resp, QueryID: frame.QueryID}, nil
}

func (c *Client) readResponse() (Frame, wire.Response, error) {
	buf := make([]byte, MaxFrameSize)
	n, err := c.rx.Read(buf)
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return Frame{}, nil, io.EOF
		}
		return Frame{}, nil, ErrNoData
	}

	frame, err := DecodeFrame(buf[:n])
	if err != nil {
		c.config.Logger.Log(errorEvent(c.connID, log.RoleMaster, log.DirectionIn, log.LayerPacket, err))
		return Frame{}, nil, err
	}
	c.config.Logger.Log(frameEvent(c.connID, log.RoleMaster, log.DirectionIn, buf[:n]))

	resp, err := wire.DecodeResponse(wire.CommandID(frame.CommandID), frame.Payload)
	if err != nil {
		c.config.Logger.Log(errorEvent(c.connID, log.RoleMaster, log.DirectionIn, log.LayerCodec, err))
		return Frame{}, nil, err
	}
	c.config.Logger.Log(messageEvent(c.connID, log.RoleMaster, log.DirectionIn, frame.CommandID, frame.QueryID, len(frame.Payload)))
	return frame, resp, nil
}

// ReadControl makes a single read attempt on the flow control stream.
func (c *Client) ReadControl() (FlowStatus, error) {
	var buf [1]byte
	n, err := c.ctrl.Read(buf[:])
	if n == 0 {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, ErrNoData
	}
	status := FlowStatus(buf[0])
	c.config.Logger.Log(flowEvent(c.connID, log.RoleMaster, log.DirectionIn, status))
	return status, nil
}
