// Package transport implements the packet layer of the glasses
// protocol: delimited framing, MTU-aware chunking, and the client and
// server peers that move commands and responses over a byte link.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│  Commands / Responses (wire)   │
//	├────────────────────────────────┤
//	│  Delimited packet framing      │
//	├────────────────────────────────┤
//	│  Chunking (MTU-sized writes)   │
//	├────────────────────────────────┤
//	│  BLE GATT characteristics      │
//	└────────────────────────────────┘
//
// # Frame layout
//
// Every packet is delimited by a start byte 0xFF and an end byte 0xAA.
// Between them sit the command ID, a format byte, a 1- or 2-byte length
// covering the whole frame, an optional query ID of up to 15 bytes, and
// the payload:
//
//	| 0xFF  | ID | format | length  | query ID | payload | 0xAA |
//	| 1B    | 1B | 1B     | 1B / 2B | 0-15B    | nB      | 1B   |
//
// The format byte carries three reserved bits (emitted zero, ignored on
// decode), the extended-length bit selecting the 2-byte length field,
// and the query ID length in its low nibble.
//
// # Transport collaborators
//
// The concrete byte link is out of scope: clients and servers take
// io.Reader/io.Writer pairs standing in for the BLE notify and write
// characteristics. Each Read must deliver one complete notification,
// which is what a GATT stack provides; the test harness and the TCP
// bridge in cmd/ behave the same way.
package transport
