// Package wire defines the binary command and response catalogs for
// ActiveLook smart glasses.
//
// The glasses speak a tagged binary protocol over BLE GATT
// characteristics. Every command and every response is identified by a
// one-byte command ID and carries a fixed, big-endian payload layout.
// Commands and responses occupy the same 0-255 ID space but are looked
// up in separate catalogs.
//
// # Split encoding
//
// Unlike an ordinary tagged union, the command ID is not adjacent to its
// payload on the wire: the packet layer (pkg/transport) emits the ID as
// part of the frame header, well before the payload bytes. The codec
// therefore exposes the two halves independently:
//
//	id, payload := wire.EncodeCommand(cmd)
//	cmd, err := wire.DecodeCommand(id, payload)
//
// The packet layer is the only place where ID and payload meet.
//
// # Field encodings
//
//   - Multi-byte integers are big-endian.
//   - Coordinates are signed 16-bit pairs (Point).
//   - Names and free text are fixed-capacity NUL-terminated strings
//     (CString): encoding truncates to the capacity and appends a single
//     NUL only when the text is shorter than the capacity.
//   - A variant may end with a read-to-end field (pixel data, item
//     lists) that consumes every remaining payload byte.
package wire
