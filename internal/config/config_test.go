package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Clear relevant envs
	os.Unsetenv("PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("INTERVIEW_SCRIPT")
	os.Unsetenv("SESSION_TOKEN_SKEW_SECS")

	c := Load()

	if c.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", c.Server.Port)
	}
	if c.Server.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", c.Server.LogLevel)
	}
	if c.Interview.ScriptPath != "interview.yaml" {
		t.Fatalf("expected default script path, got %q", c.Interview.ScriptPath)
	}
	if c.Session.TokenSkewSecs != 60 {
		t.Fatalf("expected default skew 60, got %d", c.Session.TokenSkewSecs)
	}
}

func TestGreetingOverride(t *testing.T) {
	os.Setenv("INTERVIEW_GREETING", "Hi %s, you are interviewing for %s. ")
	defer os.Unsetenv("INTERVIEW_GREETING")

	c := Load()
	if c.Interview.Greeting != "Hi %s, you are interviewing for %s. " {
		t.Fatalf("custom greeting not kept: %q", c.Interview.Greeting)
	}
}

func TestBadGreetingFallsBackToDefault(t *testing.T) {
	cases := []string{
		"Hello there. First question: ",      // no verbs
		"Hello %s. First question: ",         // one verb
		"Hello %s %s %s. First question: ",   // three verbs
		"Hello %s, %d. Role %s. Question: ",  // stray non-string verb
	}
	for _, g := range cases {
		os.Setenv("INTERVIEW_GREETING", g)
		c := Load()
		if c.Interview.Greeting != defaultGreeting {
			t.Fatalf("greeting %q accepted, got %q", g, c.Interview.Greeting)
		}
	}
	os.Unsetenv("INTERVIEW_GREETING")

	// A literal percent escaped as %% is fine.
	os.Setenv("INTERVIEW_GREETING", "Hi %s, 100%% ready for %s? ")
	defer os.Unsetenv("INTERVIEW_GREETING")
	c := Load()
	if c.Interview.Greeting != "Hi %s, 100%% ready for %s? " {
		t.Fatalf("escaped percent rejected: %q", c.Interview.Greeting)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("PORT", "9191")
	defer os.Unsetenv("PORT")

	c := Load()
	if c.Server.Port != "9191" {
		t.Fatalf("expected port 9191, got %q", c.Server.Port)
	}
}
