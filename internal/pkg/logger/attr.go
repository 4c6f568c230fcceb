package logger

import (
	"log/slog"
	"time"
)

// Error puts err under "error". A nil error yields an empty attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func AccountID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("account_id", id)
}

func ToolID(id string) slog.Attr {
	return slog.String("tool_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RetryCount(n int) slog.Attr {
	return slog.Int("retry_count", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}
