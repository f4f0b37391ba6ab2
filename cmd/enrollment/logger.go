package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/config"
	goerrors "github.com/goliatone/go-errors"
)

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = &colorHandler{mu: &sync.Mutex{}, level: level}
	}

	return slog.New(handler)
}

// colorHandler writes one colored line per record
type colorHandler struct {
	mu    *sync.Mutex
	level slog.Level
	attrs []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	buf.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprint(color.Output, buf.String())
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{mu: h.mu, level: h.level, attrs: newAttrs}
}

func (h *colorHandler) WithGroup(string) slog.Handler {
	return h
}

// slogAdapter satisfies enrollment.Logger. Rich errors passed as values
// are expanded into their category, code and metadata.
type slogAdapter struct {
	logger *slog.Logger
}

var _ enrollment.Logger = slogAdapter{}

func (l slogAdapter) Debug(msg string, args ...any) {
	l.logger.Debug(msg, expandErrors(args)...)
}

func (l slogAdapter) Info(msg string, args ...any) {
	l.logger.Info(msg, expandErrors(args)...)
}

func (l slogAdapter) Warn(msg string, args ...any) {
	l.logger.Warn(msg, expandErrors(args)...)
}

func (l slogAdapter) Error(msg string, args ...any) {
	l.logger.Error(msg, expandErrors(args)...)
}

func expandErrors(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		err, ok := arg.(error)
		if !ok {
			out = append(out, arg)
			continue
		}

		out = append(out, err.Error())
		for _, attr := range goerrors.ToSlogAttributes(err) {
			out = append(out, attr)
		}
	}
	return out
}
