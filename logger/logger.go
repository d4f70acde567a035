// Package logger holds the process-wide structured logger.
//
// Production (APP_ENV=production) writes JSON lines; anything else writes
// human-readable text at debug level.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"mingsmenu/config"
)

var L *slog.Logger

func init() {
	Setup()
}

// Setup loads .env and configures L for the resulting APP_ENV.
func Setup() {
	err := config.LoadEnv()
	Configure(config.IsProduction())
	if err != nil {
		L.Warn("ignoring .env", "error", err)
	}
}

// Configure replaces L and the slog default with a stdout logger.
func Configure(production bool) {
	L = New(os.Stdout, production)
	slog.SetDefault(L)
}

// New builds a logger writing to w.
func New(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the request logging
// middleware, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// Inject stores log in ctx for WithCtx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
