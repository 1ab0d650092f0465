package dispatch

import (
	"context"

	"github.com/ignite/outreach-engine/internal/domain"
)

// PlannedStep is the planner's answer for one enrollment: which template
// to render, how long until the following step, and whether this send
// finishes the sequence.
type PlannedStep struct {
	Template      *domain.Template
	NextDelayDays int
	LastStep      bool
}

// MessagePlan resolves an enrollment's current step to a concrete message.
// A plan is built once per campaign and reused for every enrollment in the
// batch; the two variants cover sequence campaigns and legacy
// single-template campaigns.
type MessagePlan interface {
	// StepFor returns the planned step for the given 1-based position.
	// ok is false when the position is past the end of the plan.
	StepFor(currentStep int) (step *PlannedStep, ok bool)
}

// sequencePlan dispatches from an ordered step list.
type sequencePlan struct {
	seq *domain.Sequence
}

func (p *sequencePlan) StepFor(currentStep int) (*PlannedStep, bool) {
	step := p.seq.StepAt(currentStep)
	if step == nil || step.Template == nil {
		return nil, false
	}

	planned := &PlannedStep{Template: step.Template}
	if next := p.seq.StepAt(currentStep + 1); next != nil {
		planned.NextDelayDays = next.DelayDays
	} else {
		planned.LastStep = true
	}
	return planned, true
}

// singleStepPlan is the legacy mode: one template, one touch. Only step 1
// is ever processed and it is always the last step.
type singleStepPlan struct {
	template *domain.Template
}

func (p *singleStepPlan) StepFor(currentStep int) (*PlannedStep, bool) {
	if currentStep != 1 {
		return nil, false
	}
	return &PlannedStep{Template: p.template, LastStep: true}, true
}

// BuildPlan selects and loads the message plan for a campaign. Returns
// ErrNoTemplate when the campaign references neither a sequence nor a
// template — a per-campaign configuration error that aborts only that
// campaign's portion of the run.
func BuildPlan(ctx context.Context, content ContentRepository, campaign *domain.Campaign) (MessagePlan, error) {
	if campaign.HasSequence() {
		seq, err := content.GetSequence(ctx, *campaign.SequenceID)
		if err != nil {
			return nil, err
		}
		return &sequencePlan{seq: seq}, nil
	}

	if campaign.TemplateID == nil || *campaign.TemplateID == "" {
		return nil, ErrNoTemplate
	}
	tmpl, err := content.GetTemplate(ctx, *campaign.TemplateID)
	if err != nil {
		return nil, err
	}
	return &singleStepPlan{template: tmpl}, nil
}
