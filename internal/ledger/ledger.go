package ledger

import (
	"strings"

	"voxhire/agent/internal/script"
)

// QuestionRecord is one question slot in the interview. Identity is the ID;
// Answer is written at most once under normal flow and its non-emptiness
// defines "answered".
type QuestionRecord struct {
	ID        int64
	SectionID int64
	Prompt    string
	Answer    string
}

// SectionProgress is a read-only projection for the presentation layer.
type SectionProgress struct {
	SectionID int64 `json:"section_id"`
	Title     string `json:"title"`
	Answered  int    `json:"answered"`
	Total     int    `json:"total"`
}

// Ledger holds the ordered question records plus the pointer to the current
// question. The pointer can drift (e.g. after a section jump); readers that
// need correctness use FirstUnanswered rather than trusting the pointer.
type Ledger struct {
	records []QuestionRecord
	titles  map[int64]string // section id -> title
	current int
}

// FromScript builds a ledger from a validated interview script. Prompts are
// stored in spoken form (options included for multiple choice).
func FromScript(iv *script.Interview) *Ledger {
	l := &Ledger{titles: make(map[int64]string)}
	for _, sec := range iv.Sections {
		l.titles[sec.ID] = sec.Title
		for _, q := range sec.Questions {
			l.records = append(l.records, QuestionRecord{
				ID:        q.ID,
				SectionID: sec.ID,
				Prompt:    q.SpokenPrompt(),
			})
		}
	}
	return l
}

// New builds a ledger directly from records; used by tests.
func New(records []QuestionRecord) *Ledger {
	l := &Ledger{titles: make(map[int64]string)}
	l.records = append(l.records, records...)
	return l
}

// Len returns the number of questions.
func (l *Ledger) Len() int { return len(l.records) }

// CurrentQuestion returns the record at the pointer, or nil when the pointer
// is past the end.
func (l *Ledger) CurrentQuestion() *QuestionRecord {
	if l.current < 0 || l.current >= len(l.records) {
		return nil
	}
	rec := l.records[l.current]
	return &rec
}

// RecordAnswer writes text into the current record and advances the pointer,
// clamped to the ledger length. Empty text is a no-op, and an answer is
// written at most once: a drifted pointer on an already-answered record
// never overwrites it. The ledger never raises.
func (l *Ledger) RecordAnswer(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if l.current < 0 || l.current >= len(l.records) {
		return
	}
	if strings.TrimSpace(l.records[l.current].Answer) != "" {
		return
	}
	l.records[l.current].Answer = text
	l.current++
	if l.current > len(l.records) {
		l.current = len(l.records)
	}
}

// FirstUnanswered scans in interview order for the first record without an
// answer. This, not the raw pointer, is the source of truth for what to ask
// next; it makes the ledger resilient to pointer drift.
func (l *Ledger) FirstUnanswered() *QuestionRecord {
	for i := range l.records {
		if strings.TrimSpace(l.records[i].Answer) == "" {
			rec := l.records[i]
			return &rec
		}
	}
	return nil
}

// FirstUnansweredInSection scans the given section only. Returns nil for an
// unknown or fully answered section; re-asking an answered question would
// overwrite its answer.
func (l *Ledger) FirstUnansweredInSection(sectionID int64) *QuestionRecord {
	for i := range l.records {
		if l.records[i].SectionID != sectionID {
			continue
		}
		if strings.TrimSpace(l.records[i].Answer) == "" {
			rec := l.records[i]
			return &rec
		}
	}
	return nil
}

// SetCurrent moves the pointer to the record with the given id. Unknown ids
// are ignored.
func (l *Ledger) SetCurrent(id int64) {
	for i := range l.records {
		if l.records[i].ID == id {
			l.current = i
			return
		}
	}
}

// IsComplete reports whether every question has a non-empty answer.
func (l *Ledger) IsComplete() bool { return l.FirstUnanswered() == nil }

// Records returns a copy of all records in interview order.
func (l *Ledger) Records() []QuestionRecord {
	out := make([]QuestionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Progress derives per-section answered/total counts, in first-appearance
// order of the sections.
func (l *Ledger) Progress() []SectionProgress {
	var order []int64
	bySec := make(map[int64]*SectionProgress)
	for i := range l.records {
		sid := l.records[i].SectionID
		p := bySec[sid]
		if p == nil {
			p = &SectionProgress{SectionID: sid, Title: l.titles[sid]}
			bySec[sid] = p
			order = append(order, sid)
		}
		p.Total++
		if strings.TrimSpace(l.records[i].Answer) != "" {
			p.Answered++
		}
	}
	out := make([]SectionProgress, 0, len(order))
	for _, sid := range order {
		out = append(out, *bySec[sid])
	}
	return out
}
