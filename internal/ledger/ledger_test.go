package ledger

import (
	"testing"
)

func records() []QuestionRecord {
	return []QuestionRecord{
		{ID: 10, SectionID: 1, Prompt: "q one"},
		{ID: 20, SectionID: 1, Prompt: "q two"},
		{ID: 30, SectionID: 2, Prompt: "q three"},
	}
}

func TestRecordAnswerAdvances(t *testing.T) {
	l := New(records())
	if got := l.CurrentQuestion(); got == nil || got.ID != 10 {
		t.Fatalf("current = %+v, want ID 10", got)
	}
	l.RecordAnswer("first")
	if got := l.CurrentQuestion(); got == nil || got.ID != 20 {
		t.Fatalf("current after answer = %+v, want ID 20", got)
	}
	if l.Records()[0].Answer != "first" {
		t.Fatalf("answer not stored: %+v", l.Records()[0])
	}
}

func TestRecordAnswerEmptyIsNoOp(t *testing.T) {
	l := New(records())
	l.RecordAnswer("   ")
	if got := l.CurrentQuestion(); got == nil || got.ID != 10 {
		t.Fatalf("blank answer moved pointer: %+v", got)
	}
	if l.Records()[0].Answer != "" {
		t.Fatal("blank answer stored")
	}
}

func TestFirstUnansweredHealsPointerDrift(t *testing.T) {
	l := New(records())
	// Jump the pointer past an unanswered question.
	l.SetCurrent(30)
	l.RecordAnswer("third")
	if got := l.FirstUnanswered(); got == nil || got.ID != 10 {
		t.Fatalf("first unanswered = %+v, want ID 10", got)
	}
	l.SetCurrent(10)
	l.RecordAnswer("first")
	l.RecordAnswer("second")
	if !l.IsComplete() {
		t.Fatalf("not complete after all answered: %+v", l.Records())
	}
	if l.FirstUnanswered() != nil {
		t.Fatal("FirstUnanswered non-nil on complete ledger")
	}
}

func TestFirstUnansweredInSection(t *testing.T) {
	l := New(records())
	if got := l.FirstUnansweredInSection(2); got == nil || got.ID != 30 {
		t.Fatalf("section 2 target = %+v, want ID 30", got)
	}
	if got := l.FirstUnansweredInSection(99); got != nil {
		t.Fatalf("unknown section = %+v, want nil", got)
	}

	// With the first question answered, a jump into its section resolves to
	// the next unanswered one.
	l.RecordAnswer("first")
	if got := l.FirstUnansweredInSection(1); got == nil || got.ID != 20 {
		t.Fatalf("section 1 target = %+v, want ID 20", got)
	}

	// A fully answered section offers nothing to jump to.
	l.SetCurrent(30)
	l.RecordAnswer("third")
	if got := l.FirstUnansweredInSection(2); got != nil {
		t.Fatalf("answered section = %+v, want nil", got)
	}
}

func TestRecordAnswerNeverOverwrites(t *testing.T) {
	l := New(records())
	l.RecordAnswer("first")

	// Drift the pointer back onto the answered record.
	l.SetCurrent(10)
	l.RecordAnswer("rewrite attempt")
	if got := l.Records()[0].Answer; got != "first" {
		t.Fatalf("answer overwritten: %q", got)
	}
}

func TestRecordAnswerPastEnd(t *testing.T) {
	l := New(records())
	l.RecordAnswer("a")
	l.RecordAnswer("b")
	l.RecordAnswer("c")
	if l.CurrentQuestion() != nil {
		t.Fatal("current question non-nil past end")
	}
	// Further answers must not panic or overwrite.
	l.RecordAnswer("d")
	if l.Records()[2].Answer != "c" {
		t.Fatalf("overflow answer overwrote: %+v", l.Records()[2])
	}
}

func TestProgress(t *testing.T) {
	l := New(records())
	l.RecordAnswer("a")
	p := l.Progress()
	if len(p) != 2 {
		t.Fatalf("progress sections = %d, want 2", len(p))
	}
	if p[0].SectionID != 1 || p[0].Answered != 1 || p[0].Total != 2 {
		t.Fatalf("section 1 progress = %+v", p[0])
	}
	if p[1].SectionID != 2 || p[1].Answered != 0 || p[1].Total != 1 {
		t.Fatalf("section 2 progress = %+v", p[1])
	}
}
