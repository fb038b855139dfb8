package transport

import "testing"

func TestDecodeClassification(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind Kind
		text string
	}{
		{
			"final transcription",
			`{"type":"conversation.item.input_audio_transcription.completed","transcript":"hello there"}`,
			KindTranscriptFinal,
			"hello there",
		},
		{
			"partial transcription",
			`{"type":"input_audio_transcription.delta","delta":"hel"}`,
			KindTranscriptDelta,
			"hel",
		},
		{
			"agent streaming text",
			`{"type":"response.output_text.delta","delta":{"text":"next question"}}`,
			KindAgentDelta,
			"next question",
		},
		{
			"agent done",
			`{"type":"response.done","output":{"text":"done now"}}`,
			KindAgentDone,
			"done now",
		},
		{
			"unknown type",
			`{"type":"session.updated"}`,
			KindUnknown,
			"",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			msg := Decode([]byte(c.in))
			if msg.Kind != c.kind {
				t.Fatalf("kind = %v, want %v", msg.Kind, c.kind)
			}
			if c.text != "" && msg.Text != c.text {
				t.Fatalf("text = %q, want %q", msg.Text, c.text)
			}
		})
	}
}

func TestDecodeNotJSON(t *testing.T) {
	msg := Decode([]byte("definitely not json"))
	if msg.Kind != KindUnknown {
		t.Fatalf("kind = %v, want unknown", msg.Kind)
	}
}

func TestExtractTextPriority(t *testing.T) {
	// Direct text wins over transcript and delta.
	msg := Decode([]byte(`{"type":"input_audio_transcription.completed","text":"a","transcript":"b","delta":"c"}`))
	if msg.Text != "a" {
		t.Fatalf("text = %q, want direct field to win", msg.Text)
	}

	msg = Decode([]byte(`{"type":"input_audio_transcription.completed","transcript":"b","delta":"c"}`))
	if msg.Text != "b" {
		t.Fatalf("text = %q, want transcript over delta", msg.Text)
	}
}

func TestExtractTextOutputArray(t *testing.T) {
	msg := Decode([]byte(`{"type":"response.completed","output_text":["part one ","part two"]}`))
	if msg.Text != "part one part two" {
		t.Fatalf("text = %q", msg.Text)
	}
}
