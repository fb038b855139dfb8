package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// defaultGreeting takes the candidate name and the interview title.
const defaultGreeting = "Hello %s. Welcome to the interview for %s. Let's begin. First question: "

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	Interview struct {
		ScriptPath string
		Greeting   string
		Closing    string
	}
	Eleven struct {
		APIKey  string
		VoiceID string
	}
	Submit struct {
		URL   string
		Token string
	}
	Session struct {
		TokenSecret   string
		TokenSkewSecs int
		TokenExpMin   int
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("interview.script_path", "interview.yaml")
	v.SetDefault("interview.greeting", defaultGreeting)
	v.SetDefault("interview.closing", "Thank you. This concludes the interview. Have a great day!")

	v.SetDefault("session.token_skew_secs", 60)
	v.SetDefault("session.token_exp_min", 720)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("interview.script_path", "INTERVIEW_SCRIPT")
	v.BindEnv("interview.greeting", "INTERVIEW_GREETING")
	v.BindEnv("interview.closing", "INTERVIEW_CLOSING")

	v.BindEnv("elevenlabs.api_key", "ELEVENLABS_API_KEY")
	v.BindEnv("elevenlabs.voice_id", "ELEVENLABS_VOICE_ID")

	v.BindEnv("submit.url", "SUBMIT_URL")
	v.BindEnv("submit.token", "SUBMIT_TOKEN")

	v.BindEnv("session.token_secret", "SESSION_TOKEN_SECRET")
	v.BindEnv("session.token_skew_secs", "SESSION_TOKEN_SKEW_SECS")
	v.BindEnv("session.token_exp_min", "SESSION_TOKEN_EXP_MIN")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")

	c.Interview.ScriptPath = v.GetString("interview.script_path")
	c.Interview.Greeting = v.GetString("interview.greeting")
	if !validGreeting(c.Interview.Greeting) {
		// The greeting is rendered with the candidate name and interview
		// title; the wrong verb count would be spoken out loud as %! noise.
		log.Printf("config: INTERVIEW_GREETING must contain exactly two %%s placeholders; using default")
		c.Interview.Greeting = defaultGreeting
	}
	c.Interview.Closing = v.GetString("interview.closing")

	c.Eleven.APIKey = v.GetString("elevenlabs.api_key")
	c.Eleven.VoiceID = v.GetString("elevenlabs.voice_id")

	c.Submit.URL = v.GetString("submit.url")
	c.Submit.Token = v.GetString("submit.token")

	c.Session.TokenSecret = v.GetString("session.token_secret")
	c.Session.TokenSkewSecs = v.GetInt("session.token_skew_secs")
	c.Session.TokenExpMin = v.GetInt("session.token_exp_min")

	log.Printf("config loaded: port=%s script=%s", c.Server.Port, c.Interview.ScriptPath)
	return c
}

func toString(v any) string { return fmt.Sprint(v) }

// validGreeting accepts exactly two %s verbs and no other formatting verbs.
func validGreeting(s string) bool {
	t := strings.ReplaceAll(s, "%%", "")
	return strings.Count(t, "%s") == 2 && strings.Count(t, "%") == 2
}
