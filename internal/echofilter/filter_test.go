package echofilter

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"Hello, World!", "hello world"},
		{"  What's   your\tname?  ", "whats your name"},
		{"Q1: describe a bug.", "q1 describe a bug"},
		{"...", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClassifyEcho(t *testing.T) {
	f := New()
	expected := "Tell me about yourself."

	if v := f.Classify(expected, "Tell me about yourself"); v != Echo {
		t.Fatalf("verbatim playback = %v, want echo", v)
	}
	// Recognizer noise around the playback still contains the question.
	if v := f.Classify(expected, "uh, tell me about yourself, please"); v != Echo {
		t.Fatalf("contained playback = %v, want echo", v)
	}
	if v := f.Classify(expected, "I am a Go developer"); v != Genuine {
		t.Fatalf("real answer = %v, want genuine", v)
	}
}

func TestClassifyEmptyExpectedNeverEcho(t *testing.T) {
	f := New()
	if v := f.Classify("", "anything at all"); v != Genuine {
		t.Fatalf("empty expected = %v, want genuine", v)
	}
	if v := f.Classify("...", "anything at all"); v != Genuine {
		t.Fatalf("punctuation-only expected = %v, want genuine", v)
	}
}

func TestClassifyDuplicate(t *testing.T) {
	f := New()
	f.MarkAccepted("My answer is forty two.")
	if v := f.Classify("next question", "my answer is forty two!"); v != Duplicate {
		t.Fatalf("redelivered answer = %v, want duplicate", v)
	}
	if v := f.Classify("next question", "a different answer"); v != Genuine {
		t.Fatalf("new answer = %v, want genuine", v)
	}
}

func TestEchoCheckedBeforeDuplicate(t *testing.T) {
	f := New()
	f.MarkAccepted("tell me about yourself")
	if v := f.Classify("Tell me about yourself.", "tell me about yourself"); v != Echo {
		t.Fatalf("verdict = %v, want echo to win over duplicate", v)
	}
}
