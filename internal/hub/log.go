package hub

import (
	"context"
	"log/slog"

	"go.klb.dev/clipcount/internal/history"
)

// LogRecord logs a copy event at INFO (kind, measurement) and DEBUG
// (preview). Previews can contain copied secrets, so they stay out of the
// default level.
func LogRecord(event string, rec history.Record) {
	switch rec.Kind {
	case history.KindFiles:
		slog.Info(event, "kind", rec.Kind, "files", rec.Files, "bytes", rec.Bytes)
	default:
		slog.Info(event, "kind", rec.Kind, "chars", rec.Chars)
	}

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("copy preview", "time", rec.Time, "preview", rec.Preview)
}
