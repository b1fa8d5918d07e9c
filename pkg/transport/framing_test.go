package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrameMinimal(t *testing.T) {
	frame, err := EncodeFrame(0x00, []byte{0x01}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0x06, 0x01, 0xAA}, frame)
}

func TestEncodeFrameEmptyPayload(t *testing.T) {
	frame, err := EncodeFrame(0x01, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x01, 0x00, 0x05, 0xAA}, frame)
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		commandID uint8
		payload   []byte
		queryID   []byte
		extended  bool
	}{
		{name: "no payload no query ID", commandID: 0x01},
		{name: "payload only", commandID: 0x37, payload: []byte{0x01, 0x02, 0x03}},
		{name: "4-byte query ID", commandID: 0x05, payload: []byte{0x50}, queryID: []byte{0x00, 0x00, 0x00, 0x2A}},
		{name: "maximum query ID", commandID: 0x42, payload: []byte{0xAB}, queryID: bytes.Repeat([]byte{0x11}, MaxQueryIDSize)},
		{name: "extended length", commandID: 0x41, payload: bytes.Repeat([]byte{0xCD}, 300), extended: true},
		{name: "largest frame", commandID: 0x44, payload: bytes.Repeat([]byte{0xEF}, MaxPayloadSize), queryID: bytes.Repeat([]byte{0x22}, MaxQueryIDSize), extended: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeFrame(tc.commandID, tc.payload, tc.queryID)
			require.NoError(t, err)
			require.LessOrEqual(t, len(encoded), MaxFrameSize)

			frame, err := DecodeFrame(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.commandID, frame.CommandID)
			assert.Equal(t, tc.extended, frame.ExtendedLength)
			assert.Equal(t, uint16(len(encoded)), frame.Length)
			assert.Equal(t, tc.queryID, frame.QueryID)
			assert.Equal(t, tc.payload, frame.Payload)
		})
	}
}

func TestEncodeFrameExtendedLengthBoundary(t *testing.T) {
	// 250 payload bytes give a 255-byte frame, the largest short form.
	short, err := EncodeFrame(0x41, bytes.Repeat([]byte{0x00}, 250), nil)
	require.NoError(t, err)
	assert.Len(t, short, 255)
	assert.Equal(t, byte(0x00), short[2])

	// One more byte tips the frame into the 2-byte length form, which
	// adds the second length byte to the count.
	long, err := EncodeFrame(0x41, bytes.Repeat([]byte{0x00}, 251), nil)
	require.NoError(t, err)
	assert.Len(t, long, 257)
	assert.Equal(t, byte(formatExtendedLength), long[2])
	assert.Equal(t, []byte{0x01, 0x01}, long[3:5])
}

func TestEncodeFrameQueryIDTooLong(t *testing.T) {
	_, err := EncodeFrame(0x01, nil, bytes.Repeat([]byte{0x00}, MaxQueryIDSize+1))
	assert.ErrorIs(t, err, ErrQueryIDTooLong)
}

func TestEncodeFrameTooLarge(t *testing.T) {
	_, err := EncodeFrame(0x41, bytes.Repeat([]byte{0x00}, MaxPayloadSize+1), bytes.Repeat([]byte{0x00}, MaxQueryIDSize))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestDecodeFrameTooSmall(t *testing.T) {
	for _, buf := range [][]byte{nil, {0xFF}, {0xFF, 0xAA}, {0xFF, 0x01, 0x00, 0xAA}} {
		_, err := DecodeFrame(buf)
		assert.ErrorIs(t, err, ErrFrameTooSmall)
	}
}

func TestDecodeFrameBadDelimiters(t *testing.T) {
	_, err := DecodeFrame([]byte{0x00, 0x01, 0x00, 0x05, 0xAA})
	assert.ErrorIs(t, err, ErrFrameDelimiter)

	_, err = DecodeFrame([]byte{0xFF, 0x01, 0x00, 0x05, 0xAB})
	assert.ErrorIs(t, err, ErrFrameDelimiter)
}

func TestDecodeFrameLengthMismatch(t *testing.T) {
	_, err := DecodeFrame([]byte{0xFF, 0x01, 0x00, 0x42, 0xAA})
	assert.ErrorIs(t, err, ErrFrameLengthMismatch)
}

func TestDecodeFrameQueryIDOverrun(t *testing.T) {
	// Declared length matches the buffer but the query ID length in
	// the format byte runs past the end delimiter.
	_, err := DecodeFrame([]byte{0xFF, 0x01, 0x0F, 0x05, 0xAA})
	assert.ErrorIs(t, err, ErrFrameLengthMismatch)
}

func TestDecodeFrameIgnoresReservedBits(t *testing.T) {
	frame, err := DecodeFrame([]byte{0xFF, 0x05, 0xE0, 0x06, 0x42, 0xAA})
	require.NoError(t, err)
	assert.Equal(t, uint8(0x05), frame.CommandID)
	assert.False(t, frame.ExtendedLength)
	assert.Equal(t, []byte{0x42}, frame.Payload)
}
