package notify

import (
	"context"
	"log/slog"
)

// SlogHook mirrors every notification to a structured logger, so the
// ledger stays inspectable even after entries are evicted.
type SlogHook struct {
	logger *slog.Logger
}

// NewSlogHook creates a hook writing to l. Nil means slog.Default().
func NewSlogHook(l *slog.Logger) *SlogHook {
	if l == nil {
		l = slog.Default()
	}
	return &SlogHook{logger: l}
}

// OnNotification implements Hook.
func (h *SlogHook) OnNotification(n Notification) {
	level := slog.LevelInfo
	switch n.Kind {
	case KindWarning:
		level = slog.LevelWarn
	case KindError:
		level = slog.LevelError
	}
	h.logger.Log(context.Background(), level, n.Title,
		"id", n.ID, "kind", string(n.Kind), "message", n.Message)
}
