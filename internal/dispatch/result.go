package dispatch

import "time"

// Outcome classifies what happened to one processed recipient.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFlagged Outcome = "flagged"
	OutcomeFailed  Outcome = "failed"
)

// RecipientResult records the outcome of one candidate send.
type RecipientResult struct {
	CampaignID string  `json:"campaign_id"`
	Email      string  `json:"email"`
	Outcome    Outcome `json:"outcome"`
	Step       int     `json:"step"`
	Detail     string  `json:"detail,omitempty"`
}

// CampaignNotice reports a campaign-level event from the run: a circuit
// breaker pause, a completion, or a configuration error.
type CampaignNotice struct {
	CampaignID string `json:"campaign_id"`
	Notice     string `json:"notice"`
}

// RunResult is the outcome of one dispatch invocation. Per-recipient
// failures appear in Results; they never abort the batch.
type RunResult struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Processed  int               `json:"processed"`
	Results    []RecipientResult `json:"results"`
	Notices    []CampaignNotice  `json:"notices"`

	// Message is set when the run stopped before processing: kill switch,
	// capacity exhausted, or no sender configured. Not an error.
	Message string `json:"message,omitempty"`
}
