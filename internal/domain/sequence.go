package domain

import "time"

// Sequence is an ordered multi-touch message plan. Steps are ordered by
// their 1-based Order field; the engine treats the step list as immutable
// once a running campaign references it.
type Sequence struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Steps     []SequenceStep `json:"steps"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// SequenceStep binds a template to a position in a sequence. DelayDays is
// the number of days to wait after the previous step before this step fires.
type SequenceStep struct {
	ID         string `json:"id" db:"id"`
	SequenceID string `json:"sequence_id" db:"sequence_id"`
	Order      int    `json:"order" db:"step_order"`
	DelayDays  int    `json:"delay_days" db:"delay_days"`
	TemplateID string `json:"template_id" db:"template_id"`

	// Template is populated by repositories that load steps with their
	// templates joined in.
	Template *Template `json:"template,omitempty"`
}

// StepAt returns the step with the given 1-based order, or nil if the
// sequence has no such step.
func (s *Sequence) StepAt(order int) *SequenceStep {
	for i := range s.Steps {
		if s.Steps[i].Order == order {
			return &s.Steps[i]
		}
	}
	return nil
}
