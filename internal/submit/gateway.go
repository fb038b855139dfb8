package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"voxhire/agent/internal/transcript"
)

// Answer pairs a question with the accepted candidate text, in interview
// order.
type Answer struct {
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
}

// Payload is the final interview result, read once from the ledger and
// transcript at session end.
type Payload struct {
	SessionID      string             `json:"session_id"`
	CandidateName  string             `json:"candidate_name,omitempty"`
	CandidateEmail string             `json:"candidate_email,omitempty"`
	Answers        []Answer           `json:"answers"`
	Transcript     []transcript.Entry `json:"transcript"`
}

// Gateway receives the completed interview. Idempotency is not assumed; the
// turn loop calls Submit at most once per session.
type Gateway interface {
	Submit(ctx context.Context, p Payload) error
}

// HTTPGateway posts the payload to a collector endpoint.
type HTTPGateway struct {
	http  *http.Client
	url   string
	token string
}

func NewHTTPGateway(url, token string) *HTTPGateway {
	return &HTTPGateway{
		http:  &http.Client{Timeout: 15 * time.Second},
		url:   url,
		token: token,
	}
}

func (g *HTTPGateway) Submit(ctx context.Context, p Payload) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(p); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", g.url, &body)
	if err != nil {
		return err
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("submit: %s: %s", resp.Status, string(b))
	}
	return nil
}

// LogGateway records the payload to the process log; used when no collector
// is configured so interviews still finish cleanly.
type LogGateway struct{}

func (LogGateway) Submit(ctx context.Context, p Payload) error {
	log.Printf("[submit] session=%s answers=%d transcript_entries=%d (no collector configured)",
		p.SessionID, len(p.Answers), len(p.Transcript))
	return nil
}
