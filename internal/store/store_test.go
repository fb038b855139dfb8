package store

import (
	"fmt"
	"testing"
	"time"

	"voxhire/agent/internal/types"
)

func TestCreateAndGetSession(t *testing.T) {
	st := New()
	s := &types.Session{ID: "abc123", CreatedAt: time.Now()}
	if err := st.CreateSession(s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	got := st.GetSession("abc123")
	if got == nil || got.ID != s.ID {
		t.Fatalf("expected session %q, got %#v", s.ID, got)
	}
	if err := st.CreateSession(s); err != ErrSessionExists {
		t.Fatalf("expected ErrSessionExists, got %v", err)
	}
}

func TestEventCapKeepsTruncationMarker(t *testing.T) {
	st := New()
	_ = st.CreateSession(&types.Session{ID: "s1", CreatedAt: time.Now()})
	for i := 0; i < 300; i++ {
		st.AppendEvent("s1", fmt.Sprintf("evt_%d", i), nil)
	}
	evts := st.ListEvents("s1")
	if len(evts) != 200 {
		t.Fatalf("expected 200 events after cap, got %d", len(evts))
	}
	if evts[len(evts)-1].Type != "events_truncated" {
		t.Fatalf("expected truncation marker last, got %q", evts[len(evts)-1].Type)
	}
}
