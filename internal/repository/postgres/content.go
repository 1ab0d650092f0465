package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
)

// ContentRepo implements dispatch.ContentRepository.
type ContentRepo struct{ db *sql.DB }

// NewContentRepo creates a Postgres-backed sequence/template repository.
func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

func (r *ContentRepo) GetSequence(ctx context.Context, sequenceID string) (*domain.Sequence, error) {
	seq := &domain.Sequence{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM sequences WHERE id = $1
	`, sequenceID).Scan(&seq.ID, &seq.Name, &seq.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, dispatch.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get sequence: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.sequence_id, s.step_order, s.delay_days, s.template_id,
		       t.id, t.name, t.subject, t.body, t.created_at
		FROM sequence_steps s
		JOIN templates t ON t.id = s.template_id
		WHERE s.sequence_id = $1
		ORDER BY s.step_order ASC
	`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("get sequence steps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var step domain.SequenceStep
		var tmpl domain.Template
		if err := rows.Scan(
			&step.ID, &step.SequenceID, &step.Order, &step.DelayDays, &step.TemplateID,
			&tmpl.ID, &tmpl.Name, &tmpl.Subject, &tmpl.Body, &tmpl.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sequence step: %w", err)
		}
		step.Template = &tmpl
		seq.Steps = append(seq.Steps, step)
	}
	return seq, rows.Err()
}

func (r *ContentRepo) GetTemplate(ctx context.Context, templateID string) (*domain.Template, error) {
	t := &domain.Template{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, subject, body, created_at FROM templates WHERE id = $1
	`, templateID).Scan(&t.ID, &t.Name, &t.Subject, &t.Body, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, dispatch.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}
