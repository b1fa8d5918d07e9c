package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Big-endian append helpers shared by the encoders.

func appendU16(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

func appendI16(dst []byte, v int16) []byte {
	return binary.BigEndian.AppendUint16(dst, uint16(v))
}

func appendU32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

func encodeBool(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// payloadReader walks a payload buffer during decoding. The first
// out-of-bounds access latches an error; subsequent reads return zero
// values so variant decoders can run straight through and check the
// error once at the end.
type payloadReader struct {
	data []byte
	off  int
	err  error
}

func newPayloadReader(data []byte) *payloadReader {
	return &payloadReader{data: data}
}

// need reserves n bytes, latching ErrShortPayload when the buffer is
// exhausted.
func (r *payloadReader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrShortPayload, n, r.off, len(r.data)-r.off)
		return false
	}
	return true
}

func (r *payloadReader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *payloadReader) i8() int8 {
	return int8(r.u8())
}

func (r *payloadReader) boolean() bool {
	return r.u8() != 0
}

func (r *payloadReader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *payloadReader) i16() int16 {
	return int16(r.u16())
}

func (r *payloadReader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *payloadReader) skip(n int) {
	if r.need(n) {
		r.off += n
	}
}

func (r *payloadReader) key() [4]byte {
	var k [4]byte
	if r.need(4) {
		copy(k[:], r.data[r.off:])
		r.off += 4
	}
	return k
}

func (r *payloadReader) point() Point {
	return Point{X: r.i16(), Y: r.i16()}
}

// cstring reads a fixed-capacity NUL-terminated text field: up to
// capacity bytes, stopping at the first NUL or at the end of the
// payload, whichever comes first. The shortest valid form is a single
// NUL, so a field starting at end of data is a short payload.
func (r *payloadReader) cstring(capacity int) CString {
	if !r.need(1) {
		return CString{capacity: capacity}
	}
	limit := capacity
	if rem := len(r.data) - r.off; rem < limit {
		limit = rem
	}
	window := r.data[r.off : r.off+limit]
	if i := bytes.IndexByte(window, 0); i >= 0 {
		r.off += i + 1
		return CString{text: string(window[:i]), capacity: capacity}
	}
	r.off += limit
	return CString{text: string(window), capacity: capacity}
}

// remaining returns the number of unread payload bytes.
func (r *payloadReader) remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.data) - r.off
}

// rest consumes every remaining payload byte. Returns nil when nothing
// remains, so zero-length trailing sequences round-trip to nil slices.
func (r *payloadReader) rest() []byte {
	if r.err != nil || r.off >= len(r.data) {
		return nil
	}
	out := make([]byte, len(r.data)-r.off)
	copy(out, r.data[r.off:])
	r.off = len(r.data)
	return out
}
