// Package logx holds the pslog helpers shared by the restore pipeline.
package logx

import (
	"context"

	"pkt.systems/pslog"
)

type contextKey int

const sessionKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with a restore session id when present.
func WithSession(log pslog.Logger, sessionID string) pslog.Logger {
	if sessionID != "" {
		log = log.With("session", sessionID)
	}
	return log
}

// WithStage annotates the logger with the stage label and its position.
func WithStage(log pslog.Logger, label string, index, total int) pslog.Logger {
	return log.With("stage", label, "step", index+1, "steps", total)
}

// WithDevice annotates the logger with the target device when one is pinned.
func WithDevice(log pslog.Logger, udid string) pslog.Logger {
	if udid != "" {
		log = log.With("udid", udid)
	}
	return log
}

// ContextWithSession attaches a session-annotated logger to ctx. Calling it
// again with the same id does not repeat the field.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil || sessionID == "" {
		return ctx
	}
	if current, ok := ctx.Value(sessionKey).(string); ok && current == sessionID {
		return ctx
	}
	ctx = pslog.ContextWithLogger(ctx, WithSession(pslog.Ctx(ctx), sessionID))
	return context.WithValue(ctx, sessionKey, sessionID)
}

// SessionID returns the session id stored by ContextWithSession.
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey).(string)
	return id
}
