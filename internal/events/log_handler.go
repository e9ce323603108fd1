package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/quizchain-api/internal/platform/logger"
)

// LogHandler writes one structured log line per task event.
// Submissions are logged at info, creations at debug.
type LogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*LogHandler)(nil)

// NewLogHandler creates a LogHandler. A nil logger falls back to slog.Default().
func NewLogHandler(l *slog.Logger) *LogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LogHandler{logger: l.With(slog.String("component", "task_events"))}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	switch event.Type {
	case EventTypeTaskCreated:
		var p TaskCreatedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		log.DebugContext(ctx, "task created",
			slog.String("event_id", event.ID.String()),
			slog.String("task_id", p.TaskID),
			slog.String("task_name", p.TaskName),
			slog.Time("expires_at", p.ExpiresAt))

	case EventTypeTaskAnswered:
		var p TaskAnsweredPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		attrs := []any{
			slog.String("event_id", event.ID.String()),
			slog.String("task_id", p.TaskID),
			slog.String("task_name", p.TaskName),
			slog.Bool("correct", p.Correct),
		}
		if p.Finished {
			attrs = append(attrs, slog.Bool("finished", true))
		}
		if p.NextTaskID != "" {
			attrs = append(attrs, slog.String("next_task_id", p.NextTaskID))
		}
		log.InfoContext(ctx, "task answered", attrs...)

	default:
		log.WarnContext(ctx, "unknown event type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
	}

	return nil
}
