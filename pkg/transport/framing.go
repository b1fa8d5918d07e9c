package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Framing constants fixed by the glasses firmware.
const (
	FrameStart = 0xFF
	FrameEnd   = 0xAA

	// MinFrameSize is the size of an empty frame: both delimiters,
	// the command ID, the format byte and a 1-byte length.
	MinFrameSize = 5

	// MaxFrameSize bounds a frame carrying the largest payload, the
	// longest query ID and a 2-byte length field.
	MaxFrameSize = 533

	MaxPayloadSize = 512
	MaxQueryIDSize = 15
)

// Format byte layout. The top three bits are reserved: emitted as zero
// and ignored on decode.
const (
	formatExtendedLength = 0x10
	formatQueryIDMask    = 0x0F
)

var (
	ErrFrameTooSmall       = errors.New("frame too small")
	ErrFrameTooLarge       = errors.New("frame too large")
	ErrFrameDelimiter      = errors.New("invalid frame delimiter")
	ErrFrameLengthMismatch = errors.New("frame length mismatch")
	ErrQueryIDTooLong      = errors.New("query ID too long")
)

// Frame is a decoded packet envelope. QueryID and Payload alias the
// buffer handed to DecodeFrame.
type Frame struct {
	CommandID      uint8
	ExtendedLength bool
	Length         uint16
	QueryID        []byte
	Payload        []byte
}

// EncodeFrame builds the delimited frame for a command or response
// payload. The declared length covers the entire frame, delimiters
// included; payloads pushing it past 255 switch the frame to the
// 2-byte length form.
func EncodeFrame(commandID uint8, payload, queryID []byte) ([]byte, error) {
	if len(queryID) > MaxQueryIDSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum %d", ErrQueryIDTooLong, len(queryID), MaxQueryIDSize)
	}

	length := MinFrameSize + len(queryID) + len(payload)
	extended := length > 0xFF
	if extended {
		length++ // second length byte counts itself
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, maximum %d", ErrFrameTooLarge, length, MaxFrameSize)
	}

	format := byte(len(queryID)) & formatQueryIDMask
	if extended {
		format |= formatExtendedLength
	}

	buf := make([]byte, 0, length)
	buf = append(buf, FrameStart, commandID, format)
	if extended {
		buf = binary.BigEndian.AppendUint16(buf, uint16(length))
	} else {
		buf = append(buf, byte(length))
	}
	buf = append(buf, queryID...)
	buf = append(buf, payload...)
	buf = append(buf, FrameEnd)
	return buf, nil
}

// DecodeFrame validates the envelope of buf and splits it into its
// fields. The payload is handed back unparsed.
func DecodeFrame(buf []byte) (Frame, error) {
	if len(buf) < MinFrameSize {
		return Frame{}, fmt.Errorf("%w: %d bytes, minimum %d", ErrFrameTooSmall, len(buf), MinFrameSize)
	}
	if buf[0] != FrameStart || buf[len(buf)-1] != FrameEnd {
		return Frame{}, fmt.Errorf("%w: got 0x%02X...0x%02X", ErrFrameDelimiter, buf[0], buf[len(buf)-1])
	}

	frame := Frame{CommandID: buf[1]}
	format := buf[2]
	frame.ExtendedLength = format&formatExtendedLength != 0
	queryIDLen := int(format & formatQueryIDMask)

	offset := 4
	if frame.ExtendedLength {
		if len(buf) < MinFrameSize+1 {
			return Frame{}, fmt.Errorf("%w: %d bytes with extended length", ErrFrameTooSmall, len(buf))
		}
		frame.Length = binary.BigEndian.Uint16(buf[3:5])
		offset = 5
	} else {
		frame.Length = uint16(buf[3])
	}

	if int(frame.Length) != len(buf) {
		return Frame{}, fmt.Errorf("%w: declared %d, got %d bytes", ErrFrameLengthMismatch, frame.Length, len(buf))
	}
	if offset+queryIDLen > len(buf)-1 {
		return Frame{}, fmt.Errorf("%w: query ID overruns frame", ErrFrameLengthMismatch)
	}

	if queryIDLen > 0 {
		frame.QueryID = buf[offset : offset+queryIDLen]
	}
	if payload := buf[offset+queryIDLen : len(buf)-1]; len(payload) > 0 {
		frame.Payload = payload
	}
	return frame, nil
}
