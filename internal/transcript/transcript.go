package transcript

// Role identifies the speaker of a transcript entry.
type Role string

const (
	RoleAgent     Role = "agent"
	RoleCandidate Role = "candidate"
)

type Entry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Log is the append-only conversation record used for the submission
// payload. It is never read back into decision logic, except to drop a
// candidate entry identical to the immediately preceding candidate entry.
type Log struct {
	entries []Entry
}

func NewLog() *Log { return &Log{} }

// Append adds an entry. A candidate entry equal to the last candidate entry
// is dropped (duplicate recognition delivery).
func (l *Log) Append(role Role, text string) {
	if text == "" {
		return
	}
	if role == RoleCandidate {
		if n := len(l.entries); n > 0 {
			last := l.entries[n-1]
			if last.Role == RoleCandidate && last.Text == text {
				return
			}
		}
	}
	l.entries = append(l.entries, Entry{Role: role, Text: text})
}

// Entries returns a copy of the log in order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) Len() int { return len(l.entries) }
