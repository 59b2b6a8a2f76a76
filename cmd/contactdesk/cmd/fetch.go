package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/contactdesk/contactdesk/internal/dashboard"
)

// fetchMessages refreshes ctrl and returns the loaded list. A failed refresh
// returns the same reason the dashboard banner would show.
func fetchMessages(ctx context.Context, ctrl *dashboard.Controller) ([]dashboard.Message, error) {
	if err := ctrl.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.New(ctrl.State().Snapshot().Error)
	}
	return ctrl.State().Snapshot().Messages, nil
}

// messageJSON is the --json rendering of a message.
type messageJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toMessageJSON(m dashboard.Message) messageJSON {
	out := messageJSON{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Message: m.Message,
	}
	if !m.CreatedAt.IsZero() {
		out.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	}
	return out
}

// formatTime renders t for CLI output, or "-" when unknown.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
