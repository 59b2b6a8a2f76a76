// Package watch refreshes the dashboard on a cron schedule and reports
// submissions that arrived since the previous refresh.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/contactdesk/contactdesk/internal/dashboard"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 1m"

// ErrStopped is returned by Trigger after Stop.
var ErrStopped = errors.New("watcher is stopped")

// ErrBusy is returned by Trigger while a refresh is already running.
var ErrBusy = errors.New("refresh already running")

// parser accepts standard 5-field expressions and descriptors such as
// "@hourly" or "@every 30s".
var parser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NewFunc is called with the messages that appeared since the last
// successful refresh, in server order.
type NewFunc func(msgs []dashboard.Message)

// Status describes the watcher's progress.
type Status struct {
	Schedule  string    `json:"schedule"`
	Running   bool      `json:"running"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run,omitempty"`
	NextRun   time.Time `json:"next_run"`
	LastError string    `json:"last_error,omitempty"`
	Known     int       `json:"known"`
}

// Watcher runs Controller.Refresh on a schedule.
type Watcher struct {
	cron     *cron.Cron
	ctrl     *dashboard.Controller
	schedule string
	entry    cron.EntryID
	onNew    NewFunc
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	runs    int
	lastRun time.Time
	lastErr error
	known   map[string]bool // ids seen in the last successful refresh
	primed  bool            // true once the first refresh has succeeded

	ctx     context.Context    // cancelled on Stop
	cancel  context.CancelFunc // cancels ctx
	wg      sync.WaitGroup     // tracks running refreshes
	stopped bool
}

// New creates a watcher that refreshes ctrl on schedule. An empty schedule
// uses DefaultSchedule.
func New(ctrl *dashboard.Controller, schedule string) (*Watcher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		cron:     cron.New(cron.WithParser(parser)),
		ctrl:     ctrl,
		schedule: schedule,
		logger:   slog.Default(),
		known:    make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}

	entry, err := w.cron.AddFunc(schedule, func() {
		if err := w.Trigger(); err != nil && !errors.Is(err, ErrBusy) {
			w.logger.Debug("scheduled refresh skipped", "error", err)
		}
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	w.entry = entry
	return w, nil
}

// WithLogger sets the logger for the watcher.
func (w *Watcher) WithLogger(logger *slog.Logger) *Watcher {
	w.logger = logger
	return w
}

// OnNew registers fn to receive newly arrived messages.
func (w *Watcher) OnNew(fn NewFunc) *Watcher {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onNew = fn
	return w
}

// Start runs an immediate refresh and then follows the schedule.
func (w *Watcher) Start() {
	w.cron.Start()
	w.logger.Info("watch started",
		"schedule", w.schedule,
		"next_run", w.cron.Entry(w.entry).Next)
	_ = w.Trigger()
}

// Stop halts the schedule, cancels a running refresh, and returns a context
// that is done when all work has finished.
func (w *Watcher) Stop() context.Context {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	cronCtx := w.cron.Stop()
	w.cancel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronCtx.Done()
		w.wg.Wait()
		cancel()
	}()
	return ctx
}

// Trigger starts a refresh outside the schedule.
func (w *Watcher) Trigger() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return ErrStopped
	}
	if w.running {
		return ErrBusy
	}
	w.running = true
	w.wg.Add(1)
	go w.run()
	return nil
}

// run performs one refresh. The caller must have set running and called wg.Add.
func (w *Watcher) run() {
	defer w.wg.Done()
	start := time.Now()

	err := w.ctrl.Refresh(w.ctx)
	msgs := w.ctrl.State().Snapshot().Messages

	w.mu.Lock()
	w.lastErr = err
	primed := w.primed
	var fresh []dashboard.Message
	if err == nil {
		w.lastRun = time.Now()
		fresh = w.diff(msgs)
		w.primed = true
	}
	onNew := w.onNew
	w.mu.Unlock()

	// The run counts as finished only after callbacks return.
	defer func() {
		w.mu.Lock()
		w.running = false
		w.runs++
		w.mu.Unlock()
	}()

	if err != nil {
		w.logger.Error("refresh failed", "duration", time.Since(start), "error", err)
		return
	}
	if !primed {
		w.logger.Info("watching messages", "count", len(msgs))
		return
	}

	w.logger.Debug("refresh completed", "count", len(msgs), "new", len(fresh), "duration", time.Since(start))
	for _, m := range fresh {
		w.logger.Info("new message", "id", m.ID, "name", m.Name, "email", m.Email, "created_at", m.CreatedAt)
	}
	if len(fresh) > 0 && onNew != nil {
		onNew(fresh)
	}
}

// diff returns the messages not present in the previous refresh and
// replaces the known set. Must be called with mu held.
func (w *Watcher) diff(msgs []dashboard.Message) []dashboard.Message {
	var fresh []dashboard.Message
	next := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		next[m.ID] = true
		if w.primed && !w.known[m.ID] {
			fresh = append(fresh, m)
		}
	}
	w.known = next
	return fresh
}

// Status returns the watcher's current status.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := Status{
		Schedule: w.schedule,
		Running:  w.running,
		Runs:     w.runs,
		LastRun:  w.lastRun,
		NextRun:  w.cron.Entry(w.entry).Next,
		Known:    len(w.known),
	}
	if w.lastErr != nil {
		st.LastError = w.lastErr.Error()
	}
	return st
}

// ValidateSchedule validates a cron expression without scheduling anything.
func ValidateSchedule(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}
	return nil
}
