package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// newJSONHandler writes one object per record. Publish latency is emitted
// as an integer latency_ms field.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					if attr.Value.Kind() == slog.KindTime {
						return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
					}
					attr.Key = "ts"
					return attr
				case slog.LevelKey:
					return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			if attr.Key == FieldLatency && attr.Value.Kind() == slog.KindDuration {
				return slog.Int64(FieldLatency+"_ms", latencyMillis(attr.Value.Duration()))
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
