package dashboard

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestFinishRefresh_ReplacesInServerOrder(t *testing.T) {
	s := State{Messages: []Message{{ID: "old"}}, Error: "stale"}
	s = s.StartRefresh()
	if !s.Busy.Refreshing {
		t.Fatal("StartRefresh should set Refreshing")
	}
	if s.Error != "" {
		t.Errorf("StartRefresh should clear Error, got %q", s.Error)
	}

	s = s.FinishRefresh([]Message{{ID: "3"}, {ID: "1"}, {ID: "2"}})
	if diff := cmp.Diff([]string{"3", "1", "2"}, ids(s.Messages)); diff != "" {
		t.Errorf("Messages mismatch (-want +got):\n%s", diff)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
	if !s.Loaded {
		t.Error("Loaded should be true after a successful refresh")
	}
}

func TestFinishRefresh_CopiesInput(t *testing.T) {
	in := []Message{{ID: "1"}, {ID: "2"}}
	s := State{}.FinishRefresh(in)
	in[0].ID = "mutated"
	if s.Messages[0].ID != "1" {
		t.Errorf("store shares backing array with caller: got %q", s.Messages[0].ID)
	}
}

func TestFailRefresh_KeepsStore(t *testing.T) {
	before := []Message{{ID: "1", Name: "A"}}
	s := State{Messages: before}.StartRefresh().FailRefresh("DB down")
	if diff := cmp.Diff(before, s.Messages); diff != "" {
		t.Errorf("store changed on failure (-want +got):\n%s", diff)
	}
	if s.Error != "DB down" {
		t.Errorf("Error = %q, want %q", s.Error, "DB down")
	}
	if s.Busy.Refreshing {
		t.Error("Refreshing should be released on failure")
	}
}

func TestRefresh_KeepsStaleSelection(t *testing.T) {
	s := State{Messages: []Message{{ID: "1", Name: "A"}}}
	s = s.Select(s.Messages[0])
	s = s.StartRefresh().FinishRefresh([]Message{{ID: "1", Name: "A (edited)"}})
	if s.Selected == nil || s.Selected.Name != "A" {
		t.Errorf("Selected = %+v, want the value captured at selection time", s.Selected)
	}
}

func TestSelect_StoresCopy(t *testing.T) {
	m := Message{ID: "1", Name: "A"}
	s := State{}.Select(m)
	m.Name = "changed"
	if s.Selected.Name != "A" {
		t.Errorf("Selected.Name = %q, want A", s.Selected.Name)
	}
	if !s.IsSelected("1") || s.IsSelected("2") {
		t.Error("IsSelected mismatch")
	}
	if s.ClearSelection().Selected != nil {
		t.Error("ClearSelection should empty the selection")
	}
}

func TestFinishDelete_RemovesAndClearsSelection(t *testing.T) {
	s := State{Messages: []Message{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}}
	s = s.Select(s.Messages[1]).StartDelete("2")
	if !s.Busy.IsDeleting("2") || s.Busy.IsDeleting("1") {
		t.Fatalf("Busy = %+v, want deleting 2", s.Busy)
	}

	s = s.FinishDelete("2")
	if diff := cmp.Diff([]string{"1"}, ids(s.Messages)); diff != "" {
		t.Errorf("Messages mismatch (-want +got):\n%s", diff)
	}
	if s.Selected != nil {
		t.Errorf("Selected = %+v, want nil", s.Selected)
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
}

func TestFinishDelete_KeepsOtherSelection(t *testing.T) {
	s := State{Messages: []Message{{ID: "1"}, {ID: "2"}}}
	s = s.Select(s.Messages[0]).StartDelete("2").FinishDelete("2")
	if !s.IsSelected("1") {
		t.Errorf("Selected = %+v, want 1", s.Selected)
	}
}

func TestFinishDelete_DoesNotAliasPreviousStore(t *testing.T) {
	prev := State{Messages: []Message{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	_ = prev.FinishDelete("1")
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(prev.Messages)); diff != "" {
		t.Errorf("previous snapshot modified (-want +got):\n%s", diff)
	}
}

func TestFailDelete_RaisesAlertOnly(t *testing.T) {
	s := State{Messages: []Message{{ID: "1"}}, Error: "refresh error"}
	s = s.Select(s.Messages[0]).StartDelete("1").FailDelete("1", "Failed to delete")
	if s.Alert != "Failed to delete" {
		t.Errorf("Alert = %q", s.Alert)
	}
	if s.Error != "refresh error" {
		t.Errorf("Error = %q, want inline error untouched", s.Error)
	}
	if len(s.Messages) != 1 || !s.IsSelected("1") {
		t.Error("store or selection changed on failed delete")
	}
	if !s.Busy.Idle() {
		t.Errorf("Busy = %+v, want idle", s.Busy)
	}
	if s.DismissAlert().Alert != "" {
		t.Error("DismissAlert should clear the alert")
	}
}

func TestEndDelete_LeavesOtherTokens(t *testing.T) {
	s := State{}.StartRefresh().StartDelete("b")
	s = s.FailDelete("a", "x")
	if !s.Busy.IsDeleting("b") || !s.Busy.Refreshing {
		t.Errorf("Busy = %+v, unrelated tokens should survive", s.Busy)
	}
}

func TestFind(t *testing.T) {
	s := State{Messages: []Message{{ID: "1", Name: "A"}}}
	if m, ok := s.Find("1"); !ok || m.Name != "A" {
		t.Errorf("Find(1) = %+v, %v", m, ok)
	}
	if _, ok := s.Find("nope"); ok {
		t.Error("Find(nope) should miss")
	}
}
