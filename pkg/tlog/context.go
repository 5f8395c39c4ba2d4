package tlog

import (
	"context"
	"log/slog"
	"vidgrab/pkg/util"
)

// contextHandler lifts well-known context values into log attributes.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if reqID, ok := ctx.Value(util.RequestIDContextKey).(string); ok {
		record.AddAttrs(slog.String("request_id", reqID))
	}
	if jobID, ok := ctx.Value(util.JobIDContextKey).(string); ok {
		record.AddAttrs(slog.String("job_id", jobID))
	}

	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{h.Handler.WithGroup(name)}
}
