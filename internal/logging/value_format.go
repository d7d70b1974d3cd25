package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// latencyMillis renders a publish latency as whole milliseconds, rounding
// sub-millisecond round trips up so they never print as zero.
func latencyMillis(d time.Duration) int64 {
	if d > 0 && d < time.Millisecond {
		return 1
	}
	return d.Round(time.Millisecond).Milliseconds()
}

func isLatencyKey(key string) bool {
	return key == FieldLatency || strings.HasSuffix(key, "."+FieldLatency)
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return unquoted(formatAttrValue("", v))
}

// formatAttrValue renders one console value. Latency prints as integer
// milliseconds with an ms suffix; other durations round to the millisecond.
func formatAttrValue(key string, v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		if isLatencyKey(key) {
			return strconv.FormatInt(latencyMillis(v.Duration()), 10) + "ms"
		}
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteIfNeeded(err.Error())
		}
		return quoteIfNeeded(fmt.Sprint(v.Any()))
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return strconv.Quote(s)
		}
	}
	return s
}

func unquoted(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
