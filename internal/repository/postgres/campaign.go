package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
)

// CampaignRepo implements dispatch.CampaignRepository.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `
	id, name, status, template_id, sequence_id,
	is_processing, last_processed_at, completed_at, created_at, updated_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Status, &c.TemplateID, &c.SequenceID,
		&c.IsProcessing, &c.LastProcessedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, dispatch.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) ListActive(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY created_at ASC`,
		domain.CampaignActive)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// TryLock is the compare-and-swap on the processing flag. Zero affected
// rows means another invocation holds the lock.
func (r *CampaignRepo) TryLock(ctx context.Context, campaignID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET is_processing = true, updated_at = NOW()
		WHERE id = $1 AND is_processing = false
	`, campaignID)
	if err != nil {
		return false, fmt.Errorf("acquire campaign lock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("acquire campaign lock: %w", err)
	}
	return n == 1, nil
}

// Unlock clears the flag unconditionally and stamps last_processed_at.
func (r *CampaignRepo) Unlock(ctx context.Context, campaignID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE campaigns
		SET is_processing = false, last_processed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, campaignID)
	if err != nil {
		return fmt.Errorf("release campaign lock: %w", err)
	}
	return nil
}

func (r *CampaignRepo) SetStatus(ctx context.Context, campaignID string, status domain.CampaignStatus) error {
	var err error
	if status == domain.CampaignCompleted {
		_, err = r.db.ExecContext(ctx, `
			UPDATE campaigns SET status = $2, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, campaignID, status)
	} else {
		_, err = r.db.ExecContext(ctx, `
			UPDATE campaigns SET status = $2, updated_at = NOW()
			WHERE id = $1
		`, campaignID, status)
	}
	if err != nil {
		return fmt.Errorf("set campaign status: %w", err)
	}
	return nil
}

func (r *CampaignRepo) FailureStats(ctx context.Context, campaignID string) (failed, total int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = $2), COUNT(*)
		FROM enrollments
		WHERE campaign_id = $1
	`, campaignID, domain.EnrollmentFailed).Scan(&failed, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("failure stats: %w", err)
	}
	return failed, total, nil
}
