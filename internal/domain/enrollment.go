package domain

import "time"

// EnrollmentStatus enumerates the per-campaign states of an enrolled
// recipient.
type EnrollmentStatus string

const (
	// EnrollmentQueued means the recipient has not yet received step 1.
	EnrollmentQueued EnrollmentStatus = "QUEUED"
	// EnrollmentSent means at least one step has been sent and more remain.
	EnrollmentSent EnrollmentStatus = "SENT"
	// EnrollmentContacted is a legacy alias for SENT kept for selection
	// compatibility with rows written by earlier iterations.
	EnrollmentContacted EnrollmentStatus = "CONTACTED"
	// EnrollmentCompleted means the final sequence step has been sent.
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	// EnrollmentFailed means the send was attempted and exhausted retries.
	EnrollmentFailed EnrollmentStatus = "FAILED"
	// EnrollmentSkipped means the identity filter rejected the address.
	EnrollmentSkipped EnrollmentStatus = "SKIPPED"
	// EnrollmentInvalid means the recipient's domain failed MX verification.
	EnrollmentInvalid EnrollmentStatus = "INVALID"
	// EnrollmentFlagged means the rendered content hit spam triggers.
	EnrollmentFlagged EnrollmentStatus = "FLAGGED"
)

// Enrollment is the per-recipient, per-campaign progress record. Unique per
// (campaign, recipient). Mutated exclusively by the dispatch engine's state
// transitioner once created.
type Enrollment struct {
	ID          string           `json:"id" db:"id"`
	CampaignID  string           `json:"campaign_id" db:"campaign_id"`
	RecipientID string           `json:"recipient_id" db:"recipient_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`

	// CurrentStep is the 1-based sequence position the recipient is due to
	// receive next. It never decreases and advances by exactly one per
	// successful send.
	CurrentStep int `json:"current_step" db:"current_step"`

	// NextDueAt is when the enrollment becomes eligible for its next step.
	// Nil means immediately eligible (step 1) or sequence complete.
	NextDueAt *time.Time `json:"next_due_at" db:"next_due_at"`

	SentAt       *time.Time `json:"sent_at" db:"sent_at"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
	RetryCount   int        `json:"retry_count" db:"retry_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Recipient is populated by selection queries that join the recipient in.
	Recipient *Recipient `json:"recipient,omitempty"`
}

// IsTerminal returns true once the enrollment can never be selected again.
func (e *Enrollment) IsTerminal() bool {
	switch e.Status {
	case EnrollmentCompleted, EnrollmentFailed, EnrollmentSkipped,
		EnrollmentInvalid, EnrollmentFlagged:
		return true
	}
	return false
}
