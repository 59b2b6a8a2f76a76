package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Fallback texts used when the service gives no reason.
const (
	ListFailedText   = "Failed to load messages"
	DeleteFailedText = "Failed to delete"
	GenericErrorText = "Something went wrong"

	// DeletePrompt is the question put to the confirmation gate.
	DeletePrompt = "Delete this message?"
)

// ErrDeclined is returned by Delete when the confirmation gate says no.
var ErrDeclined = errors.New("delete declined")

// ErrRefreshInProgress is returned by Refresh while another refresh on the
// same controller has not returned. The state is left untouched.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// MessageService is the remote source of truth for messages.
type MessageService interface {
	ListMessages(ctx context.Context) ([]Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// ConfirmFunc is a yes/no gate shown to the operator before a delete.
type ConfirmFunc func(prompt string) bool

// Confirmed is a gate for callers that already asked the operator.
func Confirmed(string) bool { return true }

// reasoner is implemented by errors that carry a server-supplied reason.
type reasoner interface {
	Reason() string
}

// Controller runs the refresh and delete flows against a MessageService and
// applies their outcomes to a Container.
type Controller struct {
	service    MessageService
	state      *Container
	logger     *slog.Logger
	refreshing atomic.Bool // single-flight guard for Refresh
}

// NewController creates a controller that records into state.
func NewController(service MessageService, state *Container) *Controller {
	return &Controller{
		service: service,
		state:   state,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger for the controller.
func (c *Controller) WithLogger(logger *slog.Logger) *Controller {
	c.logger = logger
	return c
}

// State returns the container the controller writes to.
func (c *Controller) State() *Container {
	return c.state
}

// Refresh reloads the full message list. On failure the previous list is
// kept and the reason is shown inline. The returned error is informational;
// the outcome is already recorded in the state.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer c.refreshing.Store(false)

	c.state.Update(State.StartRefresh)

	msgs, err := c.list(ctx)
	if err != nil {
		reason := listFailureReason(err)
		c.logger.Warn("refresh failed", "error", err)
		c.state.Update(func(s State) State { return s.FailRefresh(reason) })
		return fmt.Errorf("refresh: %w", err)
	}

	if err := validateIDs(msgs); err != nil {
		c.logger.Warn("refresh rejected", "error", err)
		c.state.Update(func(s State) State { return s.FailRefresh(err.Error()) })
		return fmt.Errorf("refresh: %w", err)
	}

	c.logger.Debug("refreshed messages", "count", len(msgs))
	c.state.Update(func(s State) State { return s.FinishRefresh(msgs) })
	return nil
}

// Delete removes the message with the given id after confirm approves.
// A declined confirmation returns ErrDeclined and changes nothing.
// On failure the reason is raised as a blocking alert.
func (c *Controller) Delete(ctx context.Context, id string, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(DeletePrompt) {
		return ErrDeclined
	}

	c.state.Update(func(s State) State { return s.StartDelete(id) })

	if err := c.remove(ctx, id); err != nil {
		reason := deleteFailureReason(err)
		c.logger.Warn("delete failed", "id", id, "error", err)
		c.state.Update(func(s State) State { return s.FailDelete(id, reason) })
		return fmt.Errorf("delete %s: %w", id, err)
	}

	c.logger.Debug("deleted message", "id", id)
	c.state.Update(func(s State) State { return s.FinishDelete(id) })
	return nil
}

// Select shows m in the detail pane.
func (c *Controller) Select(m Message) {
	c.state.Update(func(s State) State { return s.Select(m) })
}

// ClearSelection empties the detail pane.
func (c *Controller) ClearSelection() {
	c.state.Update(State.ClearSelection)
}

// DismissAlert acknowledges the blocking alert.
func (c *Controller) DismissAlert() {
	c.state.Update(State.DismissAlert)
}

// list calls the service, converting a panic into an error so that the busy
// flag is always released.
func (c *Controller) list(ctx context.Context) (msgs []Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list panic: %v", r)
		}
	}()
	return c.service.ListMessages(ctx)
}

func (c *Controller) remove(ctx context.Context, id string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delete panic: %v", r)
		}
	}()
	return c.service.DeleteMessage(ctx, id)
}

// validateIDs rejects a list whose messages cannot be told apart: every
// message needs a non-empty id and no id may repeat. Positions are 1-based.
func validateIDs(msgs []Message) error {
	seen := make(map[string]struct{}, len(msgs))
	for i, m := range msgs {
		if m.ID == "" {
			return fmt.Errorf("invalid response: message %d has no id", i+1)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("invalid response: duplicate message id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

func listFailureReason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		if reason := r.Reason(); reason != "" {
			return reason
		}
		return ListFailedText
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorText
}

func deleteFailureReason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		if reason := r.Reason(); reason != "" {
			return reason
		}
	}
	return DeleteFailedText
}
