// Package dashboard holds the client-side state of the contact message
// dashboard: the cached message list, the selected message, the busy
// indicators and the two user-facing notification slots.
//
// State is a plain value. Every change goes through one of the transition
// methods below, which return a new State and never mutate the receiver's
// backing arrays. Container wraps a State for concurrent use and notifies
// subscribers after each transition.
package dashboard

import "time"

// Message is one contact form submission as returned by the message service.
type Message struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// Operation is the advisory busy indicator for in-flight network calls.
// It drives labels and disabled controls; it is not a lock.
type Operation struct {
	Refreshing bool
	Deleting   string // id of the message being deleted, empty when none
}

// Idle reports whether no operation is in flight.
func (o Operation) Idle() bool {
	return !o.Refreshing && o.Deleting == ""
}

// IsDeleting reports whether a delete of id is in flight.
func (o Operation) IsDeleting(id string) bool {
	return id != "" && o.Deleting == id
}

// State is the complete dashboard state.
type State struct {
	// Messages mirrors the last successful list, in server order.
	Messages []Message
	// Selected is the message shown in the detail pane, nil when none.
	Selected *Message
	// Busy tracks in-flight refresh and delete calls.
	Busy Operation
	// Error is the inline banner text, driven by refresh outcomes.
	Error string
	// Alert is the blocking notification text, driven by delete failures.
	Alert string
	// Loaded is true once any refresh has succeeded.
	Loaded bool
}

// Empty reports whether the store holds no messages.
func (s State) Empty() bool {
	return len(s.Messages) == 0
}

// Find returns the stored message with the given id.
func (s State) Find(id string) (Message, bool) {
	for _, m := range s.Messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// IsSelected reports whether id is the current selection.
func (s State) IsSelected(id string) bool {
	return s.Selected != nil && s.Selected.ID == id
}

// StartRefresh marks a refresh as in flight and clears the inline error.
func (s State) StartRefresh() State {
	s.Busy.Refreshing = true
	s.Error = ""
	return s
}

// FinishRefresh replaces the store with msgs, in the order given.
// The selection is kept as-is, even if it no longer matches the new list.
func (s State) FinishRefresh(msgs []Message) State {
	s.Messages = append([]Message(nil), msgs...)
	s.Busy.Refreshing = false
	s.Error = ""
	s.Loaded = true
	return s
}

// FailRefresh records reason in the inline error slot and leaves the store alone.
func (s State) FailRefresh(reason string) State {
	s.Busy.Refreshing = false
	s.Error = reason
	return s
}

// Select sets the selection to a copy of m.
func (s State) Select(m Message) State {
	s.Selected = &m
	return s
}

// ClearSelection empties the selection.
func (s State) ClearSelection() State {
	s.Selected = nil
	return s
}

// StartDelete marks a delete of id as in flight.
func (s State) StartDelete(id string) State {
	s.Busy.Deleting = id
	return s
}

// FinishDelete removes id from the store and drops the selection if it
// pointed at id.
func (s State) FinishDelete(id string) State {
	kept := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.Messages = kept
	if s.IsSelected(id) {
		s.Selected = nil
	}
	s = s.endDelete(id)
	return s
}

// FailDelete raises the blocking alert. Store, selection and the inline
// error are untouched.
func (s State) FailDelete(id, reason string) State {
	s.Alert = reason
	return s.endDelete(id)
}

// DismissAlert clears the blocking alert.
func (s State) DismissAlert() State {
	s.Alert = ""
	return s
}

func (s State) endDelete(id string) State {
	if s.Busy.Deleting == id {
		s.Busy.Deleting = ""
	}
	return s
}
