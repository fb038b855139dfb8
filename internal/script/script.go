package script

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoSections   = errors.New("interview script has no sections")
	ErrBadQuestion  = errors.New("question id must be positive")
	ErrDuplicateID  = errors.New("duplicate question id")
	ErrEmptyPrompt  = errors.New("question prompt is empty")
)

// Interview is the configured question script, fixed for the lifetime of the
// process. Sections and questions keep their file order; that order is the
// interview order.
type Interview struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

type Section struct {
	ID        int64      `yaml:"id"`
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	ID      int64    `yaml:"id"`
	Prompt  string   `yaml:"prompt"`
	Type    string   `yaml:"type"` // "text" (default) | "multiple_choice"
	Options []string `yaml:"options"`
}

// Load reads and validates an interview script from a YAML file.
func Load(path string) (*Interview, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML script and validates it.
func Parse(b []byte) (*Interview, error) {
	var iv Interview
	if err := yaml.Unmarshal(b, &iv); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := iv.validate(); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (iv *Interview) validate() error {
	if len(iv.Sections) == 0 {
		return ErrNoSections
	}
	seen := make(map[int64]bool)
	for _, sec := range iv.Sections {
		for _, q := range sec.Questions {
			if q.ID <= 0 {
				return fmt.Errorf("%w: section %q", ErrBadQuestion, sec.Title)
			}
			if seen[q.ID] {
				return fmt.Errorf("%w: %d", ErrDuplicateID, q.ID)
			}
			seen[q.ID] = true
			if strings.TrimSpace(q.Prompt) == "" {
				return fmt.Errorf("%w: question %d", ErrEmptyPrompt, q.ID)
			}
		}
	}
	return nil
}

// SpokenPrompt builds the text the agent actually says for a question. For
// multiple choice the options are read out after the prompt.
func (q Question) SpokenPrompt() string {
	base := strings.TrimSpace(q.Prompt)
	if q.Type == "multiple_choice" && len(q.Options) > 0 {
		base += " Options are: " + strings.Join(q.Options, "; ")
	}
	return base
}

// QuestionCount returns the total number of questions across sections.
func (iv *Interview) QuestionCount() int {
	n := 0
	for _, sec := range iv.Sections {
		n += len(sec.Questions)
	}
	return n
}
