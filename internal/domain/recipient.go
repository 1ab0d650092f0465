package domain

import "time"

// RecipientStatus enumerates the global states of a recipient, independent
// of any campaign.
type RecipientStatus string

const (
	RecipientNew           RecipientStatus = "NEW"
	RecipientContacted     RecipientStatus = "CONTACTED"
	RecipientReplied       RecipientStatus = "REPLIED"
	RecipientBounced       RecipientStatus = "BOUNCED"
	RecipientNotInterested RecipientStatus = "NOT_INTERESTED"
)

// SuppressedRecipientStatuses is the set of global recipient states that
// suppress sending across every campaign, regardless of enrollment state.
var SuppressedRecipientStatuses = []RecipientStatus{
	RecipientReplied,
	RecipientBounced,
	RecipientNotInterested,
}

// Recipient is a globally-known outreach contact. The same recipient may be
// enrolled in multiple campaigns; its status here is a global suppression
// signal, not per-campaign progress.
type Recipient struct {
	ID        string          `json:"id" db:"id"`
	Email     string          `json:"email" db:"email"`
	Name      string          `json:"name" db:"name"`
	Company   string          `json:"company" db:"company"`
	Website   string          `json:"website" db:"website"`
	Notes     string          `json:"notes" db:"notes"`
	Status    RecipientStatus `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// IsSuppressed reports whether the recipient's global status blocks all
// further outreach to them.
func (r *Recipient) IsSuppressed() bool {
	for _, s := range SuppressedRecipientStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}
