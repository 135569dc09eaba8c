package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/coverletter/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes generated letters to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each letter via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs company, title, path and source URL. Logging does not fail.
func (n *LogNotifier) Notify(_ context.Context, rec model.Record) error {
	n.logger.Info("cover letter ready",
		"company", rec.CompanyName,
		"title", rec.PostTitle,
		"path", rec.PlacedPath,
		"url", rec.URL,
	)
	return nil
}
