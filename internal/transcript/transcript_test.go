package transcript

import "testing"

func TestAppendKeepsOrder(t *testing.T) {
	l := NewLog()
	l.Append(RoleAgent, "First question?")
	l.Append(RoleCandidate, "An answer.")
	l.Append(RoleAgent, "Second question?")

	e := l.Entries()
	if len(e) != 3 {
		t.Fatalf("entries = %d, want 3", len(e))
	}
	if e[0].Role != RoleAgent || e[1].Role != RoleCandidate || e[2].Role != RoleAgent {
		t.Fatalf("roles out of order: %+v", e)
	}
}

func TestConsecutiveCandidateDuplicateDropped(t *testing.T) {
	l := NewLog()
	l.Append(RoleAgent, "Question?")
	l.Append(RoleCandidate, "Same thing.")
	l.Append(RoleCandidate, "Same thing.")
	if l.Len() != 2 {
		t.Fatalf("entries = %d, want duplicate dropped", l.Len())
	}

	// Not consecutive: keep both.
	l.Append(RoleAgent, "Next?")
	l.Append(RoleCandidate, "Same thing.")
	if l.Len() != 4 {
		t.Fatalf("entries = %d, non-consecutive repeat wrongly dropped", l.Len())
	}
}

func TestEmptyTextIgnored(t *testing.T) {
	l := NewLog()
	l.Append(RoleAgent, "")
	if l.Len() != 0 {
		t.Fatal("empty entry stored")
	}
}

func TestEntriesIsACopy(t *testing.T) {
	l := NewLog()
	l.Append(RoleAgent, "a")
	e := l.Entries()
	e[0].Text = "mutated"
	if l.Entries()[0].Text != "a" {
		t.Fatal("Entries exposed internal slice")
	}
}
