package domain

import "time"

// CampaignStatus enumerates the lifecycle states of an outreach campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignPaused    CampaignStatus = "PAUSED"
	CampaignCompleted CampaignStatus = "COMPLETED"
)

// Campaign represents a configured outreach run targeting a set of
// enrolled recipients. A campaign references either a multi-step sequence
// or, in legacy single-touch mode, a single template.
type Campaign struct {
	ID         string         `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	Status     CampaignStatus `json:"status" db:"status"`
	TemplateID *string        `json:"template_id" db:"template_id"`
	SequenceID *string        `json:"sequence_id" db:"sequence_id"`

	// IsProcessing is the cooperative processing flag. It is only ever
	// flipped through the repository's compare-and-swap lock operations.
	IsProcessing    bool       `json:"is_processing" db:"is_processing"`
	LastProcessedAt *time.Time `json:"last_processed_at" db:"last_processed_at"`

	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// HasSequence reports whether the campaign runs a multi-step sequence
// rather than the legacy single-template mode.
func (c *Campaign) HasSequence() bool {
	return c.SequenceID != nil && *c.SequenceID != ""
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted
}
