package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol lines in console.
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
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch event.Category {
	case CategoryLine:
		attrs = append(attrs, slog.String("line", event.Line))
		if event.Status != "" {
			attrs = append(attrs, slog.String("status", event.Status))
		}
		if event.Subunit != "" {
			attrs = append(attrs,
				slog.String("subunit", event.Subunit),
				slog.String("function", event.Function),
				slog.String("value", event.Value),
			)
		}
	case CategoryState:
		if event.State != nil {
			attrs = append(attrs,
				slog.String("old_state", event.State.OldState),
				slog.String("new_state", event.State.NewState),
			)
		}
	case CategoryError:
		attrs = append(attrs, slog.String("error", event.Error))
		if event.Line != "" {
			attrs = append(attrs, slog.String("line", event.Line))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
