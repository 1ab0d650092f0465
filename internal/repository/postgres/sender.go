package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
)

// SenderRepo implements dispatch.SenderRepository.
type SenderRepo struct{ db *sql.DB }

// NewSenderRepo creates a Postgres-backed sender account repository.
func NewSenderRepo(db *sql.DB) *SenderRepo { return &SenderRepo{db: db} }

func (r *SenderRepo) GetAccount(ctx context.Context) (*domain.SenderAccount, error) {
	a := &domain.SenderAccount{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, from_name, from_email, COALESCE(reply_to,''),
		       daily_limit, sent_today, last_reset_date, is_system_paused,
		       last_run_at, created_at
		FROM sender_accounts
		ORDER BY created_at ASC
		LIMIT 1
	`).Scan(
		&a.ID, &a.FromName, &a.FromEmail, &a.ReplyTo,
		&a.DailyLimit, &a.SentToday, &a.LastResetDate, &a.IsSystemPaused,
		&a.LastRunAt, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, dispatch.ErrNoSenderAccount
	}
	if err != nil {
		return nil, fmt.Errorf("get sender account: %w", err)
	}
	return a, nil
}

func (r *SenderRepo) ResetDailyCounter(ctx context.Context, accountID string, resetDate time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sender_accounts
		SET sent_today = 0, last_reset_date = $2
		WHERE id = $1
	`, accountID, resetDate)
	if err != nil {
		return fmt.Errorf("reset daily counter: %w", err)
	}
	return nil
}

// SetSystemPaused flips the operator kill switch.
func (r *SenderRepo) SetSystemPaused(ctx context.Context, accountID string, paused bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sender_accounts SET is_system_paused = $2 WHERE id = $1
	`, accountID, paused)
	if err != nil {
		return fmt.Errorf("set system paused: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dispatch.ErrNotFound
	}
	return nil
}
