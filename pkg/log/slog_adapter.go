package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add type-specific attributes
	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Message != nil:
		attrs = append(attrs,
			slog.String("command_id", commandIDString(event.Message.CommandID)),
			slog.Int("payload_size", event.Message.PayloadSize),
		)
		if len(event.Message.QueryID) > 0 {
			attrs = append(attrs, slog.Any("query_id", event.Message.QueryID))
		}
	case event.Flow != nil:
		attrs = append(attrs, slog.Int("flow_status", int(event.Flow.Status)))
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol event", attrs...)
}

func commandIDString(id uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hex[id>>4], hex[id&0x0F]})
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
