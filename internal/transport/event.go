package transport

import (
	"encoding/json"
	"strings"
)

// Kind is the closed set of inbound event classifications. Everything the
// wire can carry is reduced to one of these at the boundary; the turn loop
// never probes raw payloads.
type Kind int

const (
	KindUnknown Kind = iota
	KindTranscriptDelta // partial candidate recognition
	KindTranscriptFinal // completed candidate recognition
	KindAgentDelta      // remote agent streaming text
	KindAgentDone       // remote agent finished a response
)

func (k Kind) String() string {
	switch k {
	case KindTranscriptDelta:
		return "transcript_delta"
	case KindTranscriptFinal:
		return "transcript_final"
	case KindAgentDelta:
		return "agent_delta"
	case KindAgentDone:
		return "agent_done"
	default:
		return "unknown"
	}
}

// Event is an outbound structured message.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Message is a decoded inbound frame.
type Message struct {
	Kind Kind
	Type string
	Text string
	Raw  map[string]any
}

// Decode classifies a raw inbound frame. Frames that are not JSON objects or
// match no known shape come back as KindUnknown and are counted, never
// surfaced as errors.
func Decode(data []byte) Message {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		metricDecode.WithLabelValues("unparseable").Inc()
		return Message{Kind: KindUnknown}
	}
	typ, _ := m["type"].(string)
	t := strings.ToLower(typ)
	msg := Message{Type: typ, Raw: m}

	switch {
	case strings.Contains(t, "transcription") && strings.Contains(t, "delta"):
		msg.Kind = KindTranscriptDelta
	case strings.Contains(t, "transcription") && strings.Contains(t, "completed"):
		msg.Kind = KindTranscriptFinal
	case strings.Contains(t, "response") && strings.Contains(t, "delta"):
		msg.Kind = KindAgentDelta
	case strings.Contains(t, "response") && (strings.Contains(t, "completed") || strings.Contains(t, "done")):
		msg.Kind = KindAgentDone
	default:
		msg.Kind = KindUnknown
	}
	msg.Text = extractText(m)
	metricDecode.WithLabelValues(msg.Kind.String()).Inc()
	return msg
}

// extractText pulls free text out of a payload in a fixed priority order:
// direct text field, transcript, delta (string or nested), value/output
// fields, then a compact serialization of the whole payload as a last
// resort.
func extractText(m map[string]any) string {
	if s, ok := m["text"].(string); ok && s != "" {
		return s
	}
	if s, ok := m["transcript"].(string); ok && s != "" {
		return s
	}
	switch d := m["delta"].(type) {
	case string:
		if d != "" {
			return d
		}
	case map[string]any:
		if s, ok := d["text"].(string); ok && s != "" {
			return s
		}
	}
	if v, ok := m["value"].(map[string]any); ok {
		if s, ok := v["text"].(string); ok && s != "" {
			return s
		}
	}
	if o, ok := m["output"].(map[string]any); ok {
		if s, ok := o["text"].(string); ok && s != "" {
			return s
		}
	}
	if arr, ok := m["output_text"].([]any); ok && len(arr) > 0 {
		var b strings.Builder
		for _, e := range arr {
			if s, ok := e.(string); ok {
				b.WriteString(s)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
