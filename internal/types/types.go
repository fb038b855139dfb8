package types

import "time"

type Event struct {
	Type    string         `json:"type"`
	Ts      time.Time      `json:"timestamp"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Session struct {
	ID             string    `json:"session_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	InterviewTitle string    `json:"interview_title"`
	CreatedAt      time.Time `json:"created_at"`
	Status         string    `json:"status"`
}
