package model

import "time"

// Observation is one historical brand-observation row as produced by the
// collection pipeline: one model's response to one prompt about a domain.
type Observation struct {
	Model      string    `json:"model"`
	PromptType string    `json:"prompt_type"`
	Response   string    `json:"response"`
	Timestamp  time.Time `json:"timestamp"`
	Cohort     string    `json:"cohort"`
}
