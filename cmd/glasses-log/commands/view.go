// Package commands implements the glasses-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/activelook-protocol/activelook-go/pkg/log"
	"github.com/activelook-protocol/activelook-go/pkg/transport"
)

// ViewFilter specifies criteria for filtering events in the view
// command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
}

// RunView prints the trace file in human-readable form.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if !filter.matches(event) {
			continue
		}
		formatEvent(w, event)
	}
	return nil
}

func (f ViewFilter) matches(event log.Event) bool {
	if f.Layer != nil && event.Layer != *f.Layer {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)

	var typeLabel string
	switch {
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Message != nil:
		typeLabel = fmt.Sprintf("Message 0x%02X", event.Message.CommandID)
	case event.Flow != nil:
		typeLabel = transport.FlowStatus(event.Flow.Status).String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [conn:%s] %-7s %-3s %s %s\n",
		ts, connID, event.LocalRole, event.Direction, event.Layer, typeLabel)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.Error != nil:
		fmt.Fprintf(w, "  %s\n", event.Error.Message)
	}

	fmt.Fprintln(w)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	if len(msg.QueryID) > 0 {
		fmt.Fprintf(w, "  QueryID: %s\n", hex.EncodeToString(msg.QueryID))
	}
	fmt.Fprintf(w, "  Payload: %d bytes\n", msg.PayloadSize)
}

// ParseLayerFlag converts a -layer flag value.
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "packet":
		return log.LayerPacket, nil
	case "codec":
		return log.LayerCodec, nil
	case "control":
		return log.LayerControl, nil
	default:
		return 0, fmt.Errorf("unknown layer %q (packet, codec, control)", s)
	}
}

// ParseDirectionFlag converts a -direction flag value.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (in, out)", s)
	}
}

// ParseCategoryFlag converts a -category flag value.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "flow":
		return log.CategoryFlow, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (message, flow, error)", s)
	}
}
