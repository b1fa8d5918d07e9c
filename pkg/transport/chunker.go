package transport

import (
	"github.com/activelook-protocol/activelook-go/pkg/wire"
)

// DefaultChunkSize fits a 247-byte data-length-extension MTU after ATT
// overhead. Links negotiating a smaller MTU pass their own size.
const DefaultChunkSize = 240

// Split cuts payload into consecutive chunks of at most chunkSize
// bytes. Chunks alias payload; concatenating them in order restores it
// exactly. A non-positive chunkSize yields the payload as one chunk.
func Split(payload []byte, chunkSize int) [][]byte {
	if len(payload) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		return [][]byte{payload}
	}
	chunks := make([][]byte, 0, (len(payload)+chunkSize-1)/chunkSize)
	for offset := 0; offset < len(payload); offset += chunkSize {
		end := min(offset+chunkSize, len(payload))
		chunks = append(chunks, payload[offset:end])
	}
	return chunks
}

// RowBytes returns the size of one pixel row for the given width and
// encoding. The 4 bit per pixel encodings pack two pixels per byte,
// the 1 bit encoding eight.
func RowBytes(width uint16, format wire.ImgFormat) int {
	w := int(width)
	switch format {
	case wire.Img8bpp:
		return w
	case wire.Img1bpp:
		return (w + 7) / 8
	default:
		return (w + 1) / 2
	}
}

// SplitCommand cuts an encoded command payload into transport-sized
// chunks. Image uploads get special treatment: the fixed header forms
// its own first chunk regardless of chunkSize, and the pixel data is
// grouped so that no row straddles a chunk boundary. Everything else
// uses the plain Split rule.
func SplitCommand(cmd wire.Command, chunkSize int) [][]byte {
	_, payload := wire.EncodeCommand(cmd)
	switch c := cmd.(type) {
	case wire.ImgSave:
		return splitImage(payload, wire.ImgSaveHeaderSize, RowBytes(c.Width, c.Format), chunkSize)
	case wire.ImgStream:
		return splitImage(payload, wire.ImgStreamHeaderSize, RowBytes(c.Width, streamImgFormat(c.Format)), chunkSize)
	default:
		return Split(payload, chunkSize)
	}
}

func streamImgFormat(format wire.StreamFormat) wire.ImgFormat {
	if format == wire.Stream1bpp {
		return wire.Img1bpp
	}
	return wire.Img4bppHeatshrink
}

func splitImage(payload []byte, headerSize, rowBytes, chunkSize int) [][]byte {
	if len(payload) < headerSize || chunkSize <= 0 {
		return Split(payload, chunkSize)
	}
	chunks := [][]byte{payload[:headerSize]}
	data := payload[headerSize:]
	if len(data) == 0 {
		return chunks
	}
	if rowBytes <= 0 {
		return append(chunks, Split(data, chunkSize)...)
	}

	group := (chunkSize / rowBytes) * rowBytes
	if group == 0 {
		// A single row exceeds the chunk size: fall back to the
		// plain rule within each row so boundaries still land on
		// row edges.
		for offset := 0; offset < len(data); offset += rowBytes {
			end := min(offset+rowBytes, len(data))
			chunks = append(chunks, Split(data[offset:end], chunkSize)...)
		}
		return chunks
	}
	for offset := 0; offset < len(data); offset += group {
		end := min(offset+group, len(data))
		chunks = append(chunks, data[offset:end])
	}
	return chunks
}
