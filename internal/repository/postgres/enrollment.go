package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
)

// EnrollmentRepo implements dispatch.EnrollmentRepository.
type EnrollmentRepo struct{ db *sql.DB }

// NewEnrollmentRepo creates a Postgres-backed enrollment repository.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

func suppressedStatuses() []string {
	out := make([]string, len(domain.SuppressedRecipientStatuses))
	for i, s := range domain.SuppressedRecipientStatuses {
		out[i] = string(s)
	}
	return out
}

// SelectEligible returns enrollments due now, oldest-due first, with the
// recipient joined in. Globally suppressed recipients are filtered in SQL
// so they never reach the engine at all.
func (r *EnrollmentRepo) SelectEligible(ctx context.Context, campaignID string, now time.Time, limit int) ([]domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.campaign_id, e.recipient_id, e.status, e.current_step,
		       e.next_due_at, e.sent_at, COALESCE(e.error_message,''), e.retry_count,
		       e.created_at, e.updated_at,
		       r.id, r.email, COALESCE(r.name,''), COALESCE(r.company,''),
		       COALESCE(r.website,''), r.status
		FROM enrollments e
		JOIN recipients r ON r.id = e.recipient_id
		WHERE e.campaign_id = $1
		  AND r.status <> ALL($2)
		  AND (
		      (e.status = 'QUEUED' AND (e.next_due_at IS NULL OR e.next_due_at <= $3))
		      OR (e.status IN ('SENT','CONTACTED') AND e.next_due_at <= $3)
		  )
		ORDER BY e.next_due_at ASC NULLS FIRST, e.created_at ASC
		LIMIT $4
	`, campaignID, pq.Array(suppressedStatuses()), now, limit)
	if err != nil {
		return nil, fmt.Errorf("select eligible: %w", err)
	}
	defer rows.Close()

	var out []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		var rec domain.Recipient
		if err := rows.Scan(
			&e.ID, &e.CampaignID, &e.RecipientID, &e.Status, &e.CurrentStep,
			&e.NextDueAt, &e.SentAt, &e.ErrorMessage, &e.RetryCount,
			&e.CreatedAt, &e.UpdatedAt,
			&rec.ID, &rec.Email, &rec.Name, &rec.Company,
			&rec.Website, &rec.Status,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		e.Recipient = &rec
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EnrollmentRepo) MarkTerminal(ctx context.Context, enrollmentID string, status domain.EnrollmentStatus, reason string, retryCount int) error {
	if len(reason) > 255 {
		reason = reason[:255]
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE enrollments
		SET status = $2, error_message = $3, retry_count = $4, updated_at = NOW()
		WHERE id = $1
	`, enrollmentID, status, reason, retryCount)
	if err != nil {
		return fmt.Errorf("mark terminal: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dispatch.ErrNotFound
	}
	return nil
}

// CommitSend applies the post-send transition in one transaction:
// enrollment advance, recipient promotion, sender counter. A failure in
// any statement rolls back all of them.
func (r *EnrollmentRepo) CommitSend(ctx context.Context, c dispatch.SendCommit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit send: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE enrollments
		SET status = $2, sent_at = $3, current_step = current_step + 1,
		    next_due_at = $4, error_message = '', updated_at = NOW()
		WHERE id = $1
	`, c.EnrollmentID, c.Status, c.SentAt, c.NextDueAt)
	if err != nil {
		return fmt.Errorf("advance enrollment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dispatch.ErrNotFound
	}

	// Promote the recipient only from NEW; REPLIED or BOUNCED recorded by
	// an inbound webhook mid-run must not be overwritten.
	if _, err := tx.ExecContext(ctx, `
		UPDATE recipients SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`, c.RecipientID, domain.RecipientContacted, domain.RecipientNew); err != nil {
		return fmt.Errorf("promote recipient: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE sender_accounts
		SET sent_today = sent_today + 1, last_run_at = NOW()
		WHERE id = $1
	`, c.AccountID); err != nil {
		return fmt.Errorf("increment sender counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit send: %w", err)
	}
	return nil
}

// HasProcessable reports whether any enrollment could still be selected in
// a future run.
func (r *EnrollmentRepo) HasProcessable(ctx context.Context, campaignID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM enrollments e
			JOIN recipients r ON r.id = e.recipient_id
			WHERE e.campaign_id = $1
			  AND e.status IN ('QUEUED','SENT','CONTACTED')
			  AND r.status <> ALL($2)
		)
	`, campaignID, pq.Array(suppressedStatuses())).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has processable: %w", err)
	}
	return exists, nil
}
