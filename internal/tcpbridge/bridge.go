// Package tcpbridge carries the glasses link over a single TCP
// connection, standing in for the BLE GATT characteristics during
// development and testing.
//
// BLE gives the protocol two independent flows: the data
// characteristics carrying frames and the control characteristic
// carrying flow bytes. The bridge multiplexes both over one stream
// with a minimal envelope per message:
//
//	| channel | length  | payload |
//	| 1B      | 2B (BE) | nB      |
//
// Each Channel behaves like a GATT characteristic: one Write sends one
// message, one Read delivers one whole message.
package tcpbridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Channel identifiers on the wire.
const (
	ChannelData    = 0x00
	ChannelControl = 0x01
)

// MaxMessageSize bounds a single bridged message.
const MaxMessageSize = 0xFFFF

var ErrMessageTooLarge = errors.New("message too large")

// Bridge multiplexes message channels over one stream. A background
// loop dispatches incoming messages to their channel; both channels
// read as closed once the stream fails or ends.
type Bridge struct {
	conn io.ReadWriter

	writeMu sync.Mutex

	channels map[byte]chan []byte
}

// New wraps conn and starts the dispatch loop.
func New(conn io.ReadWriter) *Bridge {
	b := &Bridge{
		conn: conn,
		channels: map[byte]chan []byte{
			ChannelData:    make(chan []byte, 64),
			ChannelControl: make(chan []byte, 64),
		},
	}
	go b.readLoop()
	return b
}

// Data returns the channel carrying protocol frames.
func (b *Bridge) Data() *Channel {
	return &Channel{bridge: b, id: ChannelData}
}

// Control returns the channel carrying flow control bytes.
func (b *Bridge) Control() *Channel {
	return &Channel{bridge: b, id: ChannelControl}
}

func (b *Bridge) readLoop() {
	defer func() {
		for _, ch := range b.channels {
			close(ch)
		}
	}()

	var header [3]byte
	for {
		if _, err := io.ReadFull(b.conn, header[:]); err != nil {
			return
		}
		payload := make([]byte, binary.BigEndian.Uint16(header[1:3]))
		if _, err := io.ReadFull(b.conn, payload); err != nil {
			return
		}
		ch, ok := b.channels[header[0]]
		if !ok {
			// Unknown channel, skip the message.
			continue
		}
		ch <- payload
	}
}

func (b *Bridge) write(id byte, payload []byte) (int, error) {
	if len(payload) > MaxMessageSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(payload))
	}
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	var header [3]byte
	header[0] = id
	binary.BigEndian.PutUint16(header[1:3], uint16(len(payload)))
	if _, err := b.conn.Write(header[:]); err != nil {
		return 0, err
	}
	if _, err := b.conn.Write(payload); err != nil {
		return 0, err
	}
	return len(payload), nil
}

// Channel is one multiplexed flow. Reads block until a message for
// this channel arrives and return io.EOF once the bridge is down.
type Channel struct {
	bridge *Bridge
	id     byte
}

func (c *Channel) Read(p []byte) (int, error) {
	msg, ok := <-c.bridge.channels[c.id]
	if !ok {
		return 0, io.EOF
	}
	return copy(p, msg), nil
}

func (c *Channel) Write(p []byte) (int, error) {
	return c.bridge.write(c.id, p)
}
