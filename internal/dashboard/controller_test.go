package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeService implements MessageService for tests.
type fakeService struct {
	list      []Message
	listErr   error
	deleteErr error
	panicOn   string

	deleted  []string
	onDelete func()
	onList   func()
}

func (f *fakeService) ListMessages(ctx context.Context) ([]Message, error) {
	if f.onList != nil {
		f.onList()
	}
	if f.panicOn == "list" {
		panic("boom")
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}

func (f *fakeService) DeleteMessage(ctx context.Context, id string) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	if f.panicOn == "delete" {
		panic("boom")
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// serverError mimics a backend failure carrying an optional reason.
type serverError struct{ reason string }

func (e *serverError) Error() string  { return "API error: " + e.reason }
func (e *serverError) Reason() string { return e.reason }

func twoMessages() []Message {
	return []Message{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}
}

func newTestController(svc *fakeService, initial State) *Controller {
	return NewController(svc, NewContainer(initial))
}

func TestRefresh_Success(t *testing.T) {
	svc := &fakeService{list: twoMessages()}
	c := newTestController(svc, State{Error: "previous"})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	s := c.State().Snapshot()
	if diff := cmp.Diff(twoMessages(), s.Messages); diff != "" {
		t.Errorf("Messages mismatch (-want +got):\n%s", diff)
	}
	if s.Error != "" {
		t.Errorf("Error = %q, want empty", s.Error)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
}

func TestRefresh_BusyWhileInFlight(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc, State{Error: "old"})
	svc.onList = func() {
		s := c.State().Snapshot()
		if !s.Busy.Refreshing {
			t.Error("Refreshing should be set during the list call")
		}
		if s.Error != "" {
			t.Errorf("Error should be cleared at attempt start, got %q", s.Error)
		}
	}
	_ = c.Refresh(context.Background())
}

func TestRefresh_EmptyListIsSuccess(t *testing.T) {
	svc := &fakeService{list: []Message{}}
	c := newTestController(svc, State{Messages: twoMessages()})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	s := c.State().Snapshot()
	if !s.Empty() || s.Error != "" || !s.Loaded {
		t.Errorf("state = %+v, want loaded empty store without error", s)
	}
}

func TestRefresh_BackendFailureUsesReason(t *testing.T) {
	svc := &fakeService{listErr: &serverError{reason: "DB down"}}
	c := newTestController(svc, State{Messages: twoMessages()})

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should return an error")
	}
	s := c.State().Snapshot()
	if s.Error != "DB down" {
		t.Errorf("Error = %q, want %q", s.Error, "DB down")
	}
	if diff := cmp.Diff(twoMessages(), s.Messages); diff != "" {
		t.Errorf("store changed (-want +got):\n%s", diff)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
}

func TestRefresh_BackendFailureWithoutReason(t *testing.T) {
	svc := &fakeService{listErr: &serverError{}}
	c := newTestController(svc, State{})
	_ = c.Refresh(context.Background())
	if got := c.State().Snapshot().Error; got != ListFailedText {
		t.Errorf("Error = %q, want %q", got, ListFailedText)
	}
}

func TestRefresh_TransportFailure(t *testing.T) {
	svc := &fakeService{listErr: errors.New("connection refused")}
	c := newTestController(svc, State{Messages: twoMessages()})
	_ = c.Refresh(context.Background())
	s := c.State().Snapshot()
	if s.Error != "connection refused" {
		t.Errorf("Error = %q", s.Error)
	}
	if len(s.Messages) != 2 {
		t.Errorf("store changed: %+v", s.Messages)
	}
}

func TestRefresh_PanicReleasesBusy(t *testing.T) {
	svc := &fakeService{panicOn: "list"}
	c := newTestController(svc, State{})
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should report the panic as an error")
	}
	s := c.State().Snapshot()
	if !s.Busy.Idle() || s.Error == "" {
		t.Errorf("state = %+v, want idle with error", s)
	}
}

func TestRefresh_DuplicateIDsRejected(t *testing.T) {
	svc := &fakeService{list: []Message{{ID: "1"}, {ID: "1"}}}
	c := newTestController(svc, State{Messages: twoMessages()})
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should reject duplicate ids")
	}
	s := c.State().Snapshot()
	if len(s.Messages) != 2 || s.Error == "" {
		t.Errorf("state = %+v, want prior store and an error", s)
	}
}

func TestRefresh_MissingIDRejected(t *testing.T) {
	tests := []struct {
		name string
		list []Message
		want string
	}{
		{"single", []Message{{Name: "A"}}, "invalid response: message 1 has no id"},
		{"after valid", []Message{{ID: "1"}, {Name: "B"}}, "invalid response: message 2 has no id"},
		{"two missing", []Message{{Name: "A"}, {Name: "B"}}, "invalid response: message 1 has no id"},
		{"duplicate", []Message{{ID: "1"}, {ID: "1"}}, `invalid response: duplicate message id "1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(&fakeService{list: tt.list}, State{Messages: twoMessages()})
			if err := c.Refresh(context.Background()); err == nil {
				t.Fatal("Refresh() should reject the list")
			}
			s := c.State().Snapshot()
			if s.Error != tt.want {
				t.Errorf("Error = %q, want %q", s.Error, tt.want)
			}
			if diff := cmp.Diff(twoMessages(), s.Messages); diff != "" {
				t.Errorf("store changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRefresh_SingleFlight(t *testing.T) {
	svc := &fakeService{list: twoMessages()}
	c := newTestController(svc, State{})

	var nested error
	svc.onList = func() {
		svc.onList = nil
		nested = c.Refresh(context.Background())
		if !c.State().Snapshot().Busy.Refreshing {
			t.Error("Refreshing cleared while the first refresh is still in flight")
		}
	}

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !errors.Is(nested, ErrRefreshInProgress) {
		t.Errorf("overlapping Refresh() = %v, want ErrRefreshInProgress", nested)
	}
	if s := c.State().Snapshot(); !s.Busy.Idle() || len(s.Messages) != 2 {
		t.Errorf("state = %+v, want idle with two messages", s)
	}

	// The guard is released once the refresh returns.
	if err := c.Refresh(context.Background()); err != nil {
		t.Errorf("Refresh() after completion = %v", err)
	}
}

func TestDelete_SelectedMessage(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc, State{Messages: twoMessages()})
	c.Select(twoMessages()[1])

	if err := c.Delete(context.Background(), "2", Confirmed); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	s := c.State().Snapshot()
	if diff := cmp.Diff([]Message{{ID: "1", Name: "A"}}, s.Messages); diff != "" {
		t.Errorf("Messages mismatch (-want +got):\n%s", diff)
	}
	if s.Selected != nil {
		t.Errorf("Selected = %+v, want nil", s.Selected)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
	if diff := cmp.Diff([]string{"2"}, svc.deleted); diff != "" {
		t.Errorf("deleted mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete_BusyWhileInFlight(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc, State{Messages: twoMessages()})
	svc.onDelete = func() {
		if !c.State().Snapshot().Busy.IsDeleting("1") {
			t.Error("Deleting should name the message during the call")
		}
	}
	_ = c.Delete(context.Background(), "1", Confirmed)
}

func TestDelete_Declined(t *testing.T) {
	svc := &fakeService{}
	initial := State{Messages: twoMessages()}.Select(twoMessages()[0])
	c := newTestController(svc, initial)

	notified := false
	c.State().Subscribe(func(State) { notified = true })

	var prompt string
	err := c.Delete(context.Background(), "1", func(p string) bool {
		prompt = p
		return false
	})
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("Delete() error = %v, want ErrDeclined", err)
	}
	if prompt != DeletePrompt {
		t.Errorf("prompt = %q, want %q", prompt, DeletePrompt)
	}
	if notified {
		t.Error("declined delete should not touch state")
	}
	if len(svc.deleted) != 0 {
		t.Error("declined delete should not call the service")
	}
	if diff := cmp.Diff(initial, c.State().Snapshot()); diff != "" {
		t.Errorf("state changed (-want +got):\n%s", diff)
	}
}

func TestDelete_NilGateDeclines(t *testing.T) {
	c := newTestController(&fakeService{}, State{Messages: twoMessages()})
	if err := c.Delete(context.Background(), "1", nil); !errors.Is(err, ErrDeclined) {
		t.Errorf("Delete(nil gate) error = %v, want ErrDeclined", err)
	}
}

func TestDelete_NetworkFailureAlertsWithFallback(t *testing.T) {
	svc := &fakeService{deleteErr: errors.New("dial tcp: connection refused")}
	initial := State{Messages: twoMessages(), Error: "inline"}.Select(twoMessages()[1])
	c := newTestController(svc, initial)

	if err := c.Delete(context.Background(), "2", Confirmed); err == nil {
		t.Fatal("Delete() should fail")
	}

	s := c.State().Snapshot()
	if s.Alert != DeleteFailedText {
		t.Errorf("Alert = %q, want %q", s.Alert, DeleteFailedText)
	}
	if s.Error != "inline" {
		t.Errorf("Error = %q, inline error must not change", s.Error)
	}
	if diff := cmp.Diff(twoMessages(), s.Messages); diff != "" {
		t.Errorf("store changed (-want +got):\n%s", diff)
	}
	if !s.IsSelected("2") {
		t.Errorf("Selected = %+v, want unchanged", s.Selected)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
}

func TestDelete_BackendReasonAlerted(t *testing.T) {
	svc := &fakeService{deleteErr: &serverError{reason: "Message not found"}}
	c := newTestController(svc, State{Messages: twoMessages()})
	_ = c.Delete(context.Background(), "1", Confirmed)
	if got := c.State().Snapshot().Alert; got != "Message not found" {
		t.Errorf("Alert = %q", got)
	}
	c.DismissAlert()
	if got := c.State().Snapshot().Alert; got != "" {
		t.Errorf("Alert after dismiss = %q", got)
	}
}

func TestDelete_PanicReleasesBusy(t *testing.T) {
	svc := &fakeService{panicOn: "delete"}
	c := newTestController(svc, State{Messages: twoMessages()})
	_ = c.Delete(context.Background(), "1", Confirmed)
	s := c.State().Snapshot()
	if !s.Busy.Idle() || s.Alert != DeleteFailedText {
		t.Errorf("state = %+v, want idle with alert", s)
	}
}

func TestClearSelection(t *testing.T) {
	c := newTestController(&fakeService{}, State{Messages: twoMessages()})
	c.Select(twoMessages()[0])
	c.ClearSelection()
	if c.State().Snapshot().Selected != nil {
		t.Error("ClearSelection should empty the selection")
	}
}
