package dispatch

import (
	"context"
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
)

// SenderRepository provides access to the shared sender account and its
// daily counters. Implementations must be safe for concurrent use.
type SenderRepository interface {
	// GetAccount returns the active sender account, or ErrNoSenderAccount
	// if none is configured.
	GetAccount(ctx context.Context) (*domain.SenderAccount, error)

	// ResetDailyCounter zeroes sent_today and stamps the reset date. Called
	// once at the start of a run when the calendar day has rolled over.
	ResetDailyCounter(ctx context.Context, accountID string, resetDate time.Time) error
}

// CampaignRepository provides campaign selection, the cooperative
// processing lock, and status transitions.
type CampaignRepository interface {
	// ListActive returns all campaigns in ACTIVE status.
	ListActive(ctx context.Context) ([]domain.Campaign, error)

	// TryLock attempts the compare-and-swap on the processing flag:
	// set is_processing = true where it is currently false. Returns false
	// without error when another invocation holds the lock.
	TryLock(ctx context.Context, campaignID string) (bool, error)

	// Unlock clears the processing flag and records last_processed_at.
	// Must succeed on every exit path of a campaign batch, so callers
	// defer it immediately after a successful TryLock.
	Unlock(ctx context.Context, campaignID string) error

	// SetStatus transitions a campaign's lifecycle status.
	SetStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) error

	// FailureStats returns the count of terminally FAILED enrollments and
	// the total enrollment count for the campaign. Used by the circuit
	// breaker as a bounce-rate proxy.
	FailureStats(ctx context.Context, campaignID string) (failed, total int, err error)
}

// EnrollmentRepository provides eligibility selection and the state
// transitions of enrollments during dispatch.
type EnrollmentRepository interface {
	// SelectEligible returns up to limit enrollments that are due now:
	// QUEUED with next_due_at null or past, or SENT/CONTACTED with
	// next_due_at past — excluding enrollments whose recipient is globally
	// suppressed. Results are ordered oldest-due first and carry the
	// recipient joined in.
	SelectEligible(ctx context.Context, campaignID string, now time.Time, limit int) ([]domain.Enrollment, error)

	// MarkTerminal records a terminal, non-retryable outcome (FAILED,
	// SKIPPED, INVALID, FLAGGED, or COMPLETED for exhausted sequences)
	// together with its reason and the retry count consumed.
	MarkTerminal(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus, reason string, retryCount int) error

	// CommitSend applies a successful send as one atomic unit: enrollment
	// status, sent_at, step increment, next_due_at; recipient promotion to
	// CONTACTED (only from NEW); sender sent_today increment. Either all
	// of these change together or none do.
	CommitSend(ctx context.Context, commit SendCommit) error

	// HasProcessable reports whether the campaign still has enrollments
	// that could ever be selected again. When false the campaign is done.
	HasProcessable(ctx context.Context, campaignID string) (bool, error)
}

// SendCommit carries the fields of the atomic post-send transition.
type SendCommit struct {
	EnrollmentID string
	RecipientID  string
	AccountID    string

	// Status is SENT, or COMPLETED when this was the sequence's last step.
	Status domain.EnrollmentStatus
	SentAt time.Time

	// NextDueAt schedules the following step; nil clears it on completion.
	NextDueAt *time.Time
}

// ContentRepository loads the message sources a campaign dispatches from.
type ContentRepository interface {
	// GetSequence returns a sequence with its steps ordered ascending and
	// templates joined in. Returns ErrNotFound if it doesn't exist.
	GetSequence(ctx context.Context, sequenceID string) (*domain.Sequence, error)

	// GetTemplate returns a single template. Returns ErrNotFound if it
	// doesn't exist.
	GetTemplate(ctx context.Context, templateID string) (*domain.Template, error)
}
