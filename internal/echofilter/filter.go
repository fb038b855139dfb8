package echofilter

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// Verdict classifies an inbound recognized utterance.
type Verdict int

const (
	Genuine Verdict = iota
	Echo            // indistinguishable from the question the agent just asked
	Duplicate       // identical to the previous accepted utterance
)

func (v Verdict) String() string {
	switch v {
	case Echo:
		return "echo"
	case Duplicate:
		return "duplicate"
	default:
		return "genuine"
	}
}

// Filter decides whether inbound speech is a real candidate answer or a
// playback echo of the agent's own utterance. Speaker/mic coupling on
// shared-device setups frequently feeds synthesized speech straight back
// into the recognizer.
type Filter struct {
	lastAccepted string
}

func New() *Filter { return &Filter{} }

// Normalize lower-cases, strips everything outside [a-z0-9] and whitespace,
// collapses whitespace runs and trims.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ', r == '\t', r == '\n', r == '\r':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Classify applies the echo and duplicate checks against the expected
// utterance (the question text currently in flight).
//
// The containment check knowingly rejects a genuine answer that restates the
// question verbatim; that is the accepted tradeoff for having no false
// negatives on verbatim playback.
func (f *Filter) Classify(expected, heard string) Verdict {
	ne := Normalize(expected)
	nh := Normalize(heard)
	if ne != "" && (nh == ne || strings.Contains(nh, ne)) {
		metricRejections.WithLabelValues("echo").Inc()
		metricEchoDistance.Observe(float64(matchr.Levenshtein(ne, nh)))
		return Echo
	}
	if nh != "" && nh == Normalize(f.lastAccepted) {
		metricRejections.WithLabelValues("duplicate").Inc()
		return Duplicate
	}
	return Genuine
}

// MarkAccepted records the utterance that was just accepted so an identical
// redelivery by the transport is discarded.
func (f *Filter) MarkAccepted(text string) { f.lastAccepted = text }
