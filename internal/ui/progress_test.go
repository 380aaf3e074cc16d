package ui

import (
	"strings"
	"testing"

	"typedid/internal/pipeline"
)

func TestApplyEventTracksCompletion(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("gen", []string{"OrderId", "UserId", "OrderId"}, events).(*progressModel)
	if len(m.items) != 2 {
		t.Fatalf("duplicate targets not collapsed: %d items", len(m.items))
	}

	m.applyEvent(pipeline.Event{Target: "OrderId", Stage: pipeline.StageExtract, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "extracting" {
		t.Fatalf("status = %q", got)
	}
	if p := m.percent(); p != 0.1 {
		t.Fatalf("percent = %v, want 0.1", p)
	}

	m.applyEvent(pipeline.Event{Target: "OrderId", Stage: pipeline.StageEmit, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Target: "UserId", Stage: pipeline.StageEmit, Status: pipeline.StatusSkipped})
	if got := m.items[1].status; got != "skipped" {
		t.Fatalf("status = %q", got)
	}
	if p := m.percent(); p != 1 {
		t.Fatalf("percent = %v, want 1", p)
	}

	// неизвестные цели игнорируются
	m.applyEvent(pipeline.Event{Target: "Other", Stage: pipeline.StageEmit, Status: pipeline.StatusError})
	if m.items[0].status != "done" {
		t.Fatalf("unrelated event changed state")
	}
}

func TestViewListsTargets(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	m := NewProgressModel("gen", []string{"OrderId"}, events)
	next, _ := m.Update(doneMsg{})
	view := next.View()
	if !strings.Contains(view, "done: gen") || !strings.Contains(view, "OrderId") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"Namespace.Outer.OrderId", 10, "Namespa..."},
		{"abcdef", 3, "abc"},
		{"идентификатор", 8, "идент..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
