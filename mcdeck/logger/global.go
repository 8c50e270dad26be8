package logger

import (
	"log/slog"
	"time"
)

// LogCommand logs CLI command execution
func LogCommand(name string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", name),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Command failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Info("Command executed", attrs...)
	}
}

// LogSet logs card set and deck operations
func LogSet(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "set")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogFetch logs card database network operations
func LogFetch(url string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "net"),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Fetch failed", append(attrs,
			slog.String("url", url),
			slog.Any("error", err),
		)...)
	} else {
		slog.Info("Fetch completed", append(attrs,
			slog.String("url", url),
		)...)
	}
}

// LogSystem logs system events
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
