package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/mailer"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
	"github.com/ignite/outreach-engine/internal/render"
	"github.com/ignite/outreach-engine/internal/safety"
	"github.com/ignite/outreach-engine/internal/throttle"
)

// Config holds the engine's batch and retry tuning.
type Config struct {
	// BatchSize caps eligible enrollments per campaign per run.
	BatchSize int
	// MaxAttempts is the total send attempts per candidate, including the
	// first.
	MaxAttempts int
	// BackoffBase is the wait after the first failed attempt; subsequent
	// waits double.
	BackoffBase time.Duration
}

// DefaultConfig returns the production tuning: batches of 10, 3 attempts,
// 1s base backoff.
func DefaultConfig() Config {
	return Config{
		BatchSize:   10,
		MaxAttempts: 3,
		BackoffBase: time.Second,
	}
}

// Deps bundles the engine's collaborators.
type Deps struct {
	Senders     SenderRepository
	Campaigns   CampaignRepository
	Enrollments EnrollmentRepository
	Content     ContentRepository
	Gate        *safety.Gate
	Renderer    *render.Renderer
	Transport   mailer.Transport
	Pacer       throttle.Pacer
}

// Engine runs dispatch batches. One invocation = one batch; the engine
// holds no background goroutines of its own.
type Engine struct {
	senders     SenderRepository
	campaigns   CampaignRepository
	enrollments EnrollmentRepository
	content     ContentRepository
	gate        *safety.Gate
	renderer    *render.Renderer
	transport   mailer.Transport
	pacer       throttle.Pacer
	breaker     *CircuitBreaker
	cfg         Config

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine creates a dispatch engine. Zero-value config fields fall back
// to defaults.
func NewEngine(deps Deps, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	pacer := deps.Pacer
	if pacer == nil {
		pacer = throttle.NewFixedPacer(time.Second)
	}

	return &Engine{
		senders:     deps.Senders,
		campaigns:   deps.Campaigns,
		enrollments: deps.Enrollments,
		content:     deps.Content,
		gate:        deps.Gate,
		renderer:    deps.Renderer,
		transport:   deps.Transport,
		pacer:       pacer,
		breaker:     NewCircuitBreaker(),
		cfg:         cfg,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Run executes one dispatch batch: budget check, then per-campaign lock,
// select, gate, send, commit. Per-recipient failures are converted into
// enrollment state and never abort the batch; only infrastructure failures
// (sender lookup, counter reset) return an error.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{StartedAt: e.now()}
	defer func() { res.FinishedAt = e.now() }()

	account, err := e.senders.GetAccount(ctx)
	if errors.Is(err, ErrNoSenderAccount) {
		res.Message = "sender account not configured"
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sender account: %w", err)
	}

	now := e.now()

	// Day rollover reset is the first operation of every run.
	if !sameDay(account.LastResetDate, now) {
		if err := e.senders.ResetDailyCounter(ctx, account.ID, now); err != nil {
			return nil, fmt.Errorf("reset daily counter: %w", err)
		}
		account.SentToday = 0
		account.LastResetDate = now
	}

	if account.IsSystemPaused {
		res.Message = "system paused by kill switch"
		return res, nil
	}

	budget := &Budget{Limit: EffectiveLimit(account, now), Used: account.SentToday}
	if budget.Exhausted() {
		res.Message = fmt.Sprintf("daily limit reached (%d/%d)", budget.Used, budget.Limit)
		return res, nil
	}

	campaigns, err := e.campaigns.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		res.Message = "no active campaigns"
		return res, nil
	}

	for i := range campaigns {
		if ctx.Err() != nil || budget.Exhausted() {
			break
		}
		e.processCampaign(ctx, &campaigns[i], account, budget, res)
	}

	if budget.Exhausted() {
		res.Message = fmt.Sprintf("daily limit reached (%d/%d)", budget.Used, budget.Limit)
	}
	return res, nil
}

// processCampaign handles one campaign's batch under the processing lock.
// Campaign-level problems become notices; they abort only this campaign's
// portion of the run.
func (e *Engine) processCampaign(ctx context.Context, campaign *domain.Campaign, account *domain.SenderAccount, budget *Budget, res *RunResult) {
	locked, err := e.campaigns.TryLock(ctx, campaign.ID)
	if err != nil {
		res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "lock error: " + err.Error()})
		return
	}
	if !locked {
		// Another invocation is processing this campaign. Not an error.
		logger.Debug("campaign locked by another invocation", "campaign_id", campaign.ID)
		return
	}
	defer func() {
		// The release must survive invocation cancellation.
		if err := e.campaigns.Unlock(context.WithoutCancel(ctx), campaign.ID); err != nil {
			logger.Error("failed to release campaign lock", "campaign_id", campaign.ID, "error", err)
		}
	}()

	plan, err := BuildPlan(ctx, e.content, campaign)
	if err != nil {
		res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "configuration error: " + err.Error()})
		return
	}

	eligible, err := e.enrollments.SelectEligible(ctx, campaign.ID, e.now(), e.cfg.BatchSize)
	if err != nil {
		res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "selection error: " + err.Error()})
		return
	}

	if len(eligible) == 0 {
		e.maybeCompleteCampaign(ctx, campaign, res)
		return
	}

	for i := range eligible {
		if ctx.Err() != nil || budget.Exhausted() {
			return
		}
		if stop := e.processEnrollment(ctx, campaign, plan, &eligible[i], account, budget, res); stop {
			return
		}
	}
}

// processEnrollment runs one candidate through plan, gate, dispatch, and
// commit. The returned stop flag aborts the rest of this campaign's batch
// (circuit breaker trip, configuration error, or cancellation).
func (e *Engine) processEnrollment(ctx context.Context, campaign *domain.Campaign, plan MessagePlan, enr *domain.Enrollment, account *domain.SenderAccount, budget *Budget, res *RunResult) (stop bool) {
	recipient := enr.Recipient
	if recipient == nil {
		logger.Warn("enrollment selected without recipient", "enrollment_id", enr.ID)
		return false
	}

	step, ok := plan.StepFor(enr.CurrentStep)
	if !ok {
		// Walked off the end of the plan. For sequences this recipient is
		// done; legacy single-template enrollments past step 1 are simply
		// never processed again.
		if campaign.HasSequence() {
			if err := e.enrollments.MarkTerminal(ctx, enr.ID, domain.EnrollmentCompleted, "", 0); err != nil {
				logger.Error("mark completed failed", "enrollment_id", enr.ID, "error", err)
			}
		}
		return false
	}

	msg, err := e.renderer.Render(step.Template, recipient)
	if err != nil {
		// A broken template affects every recipient in the campaign.
		res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "template render error: " + err.Error()})
		return true
	}

	verdict := e.gate.Check(ctx, recipient.Email, msg.Subject, msg.Body)
	if !verdict.OK {
		if err := e.enrollments.MarkTerminal(ctx, enr.ID, verdict.Status, verdict.Reason, 0); err != nil {
			logger.Error("mark terminal failed", "enrollment_id", enr.ID, "error", err)
		}
		res.Results = append(res.Results, RecipientResult{
			CampaignID: campaign.ID,
			Email:      recipient.Email,
			Outcome:    outcomeForStatus(verdict.Status),
			Step:       enr.CurrentStep,
			Detail:     verdict.Reason,
		})
		return false
	}

	out := &domain.OutboundMessage{
		EnrollmentID: enr.ID,
		CampaignID:   campaign.ID,
		RecipientID:  recipient.ID,
		To:           recipient.Email,
		FromName:     account.FromName,
		FromEmail:    account.FromEmail,
		ReplyTo:      account.ReplyTo,
		Subject:      msg.Subject,
		Body:         msg.Body,
	}

	_, attempts, err := e.sendWithRetry(ctx, out)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-retry: leave the enrollment for the next run.
			return true
		}
		if mtErr := e.enrollments.MarkTerminal(ctx, enr.ID, domain.EnrollmentFailed, err.Error(), attempts); mtErr != nil {
			logger.Error("mark failed errored", "enrollment_id", enr.ID, "error", mtErr)
		}
		res.Results = append(res.Results, RecipientResult{
			CampaignID: campaign.ID,
			Email:      recipient.Email,
			Outcome:    OutcomeFailed,
			Step:       enr.CurrentStep,
			Detail:     err.Error(),
		})
		return e.evaluateBreaker(ctx, campaign, res)
	}

	sentAt := e.now()
	commit := SendCommit{
		EnrollmentID: enr.ID,
		RecipientID:  recipient.ID,
		AccountID:    account.ID,
		Status:       domain.EnrollmentSent,
		SentAt:       sentAt,
	}
	if step.LastStep {
		commit.Status = domain.EnrollmentCompleted
	} else {
		due := sentAt.AddDate(0, 0, step.NextDelayDays)
		commit.NextDueAt = &due
	}

	if err := e.enrollments.CommitSend(ctx, commit); err != nil {
		// The message left but the transition didn't land. Surfacing this
		// loudly matters: next run will select the enrollment again.
		logger.Error("commit send failed", "enrollment_id", enr.ID, "error", err)
		res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "state commit error: " + err.Error()})
		return true
	}

	budget.Consume()
	res.Processed++
	res.Results = append(res.Results, RecipientResult{
		CampaignID: campaign.ID,
		Email:      recipient.Email,
		Outcome:    OutcomeSent,
		Step:       enr.CurrentStep,
	})

	if stop := e.evaluateBreaker(ctx, campaign, res); stop {
		return true
	}

	if !budget.Exhausted() {
		if err := e.pacer.Pace(ctx); err != nil {
			return true
		}
	}
	return false
}

// sendWithRetry invokes the transport with bounded retry and exponential
// backoff. Returns the attempts made alongside the final error.
func (e *Engine) sendWithRetry(ctx context.Context, msg *domain.OutboundMessage) (*domain.SendReceipt, int, error) {
	var lastErr error
	for attempt := 0; attempt < e.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := e.cfg.BackoffBase << (attempt - 1)
			if err := e.sleep(ctx, delay); err != nil {
				return nil, attempt, err
			}
		}

		receipt, err := e.transport.Send(ctx, msg)
		if err == nil {
			return receipt, attempt + 1, nil
		}
		lastErr = err
		logger.Warn("send attempt failed",
			"to", msg.To, "attempt", attempt+1, "error", err)

		if ctx.Err() != nil {
			return nil, attempt + 1, lastErr
		}
	}
	return nil, e.cfg.MaxAttempts, lastErr
}

// evaluateBreaker recomputes the campaign's failure ratio and pauses the
// campaign when it exceeds the threshold. Returns true when the campaign
// was paused.
func (e *Engine) evaluateBreaker(ctx context.Context, campaign *domain.Campaign, res *RunResult) bool {
	failed, total, err := e.campaigns.FailureStats(ctx, campaign.ID)
	if err != nil {
		logger.Warn("failure stats unavailable", "campaign_id", campaign.ID, "error", err)
		return false
	}
	if !e.breaker.Tripped(failed, total) {
		return false
	}

	if err := e.campaigns.SetStatus(ctx, campaign.ID, domain.CampaignPaused); err != nil {
		logger.Error("pause campaign failed", "campaign_id", campaign.ID, "error", err)
		return true
	}
	res.Notices = append(res.Notices, CampaignNotice{
		CampaignID: campaign.ID,
		Notice: fmt.Sprintf("paused: failure rate %.1f%% exceeds %.0f%% threshold",
			100*float64(failed)/float64(total), 100*e.breaker.Threshold),
	})
	return true
}

// maybeCompleteCampaign marks a campaign COMPLETED once nothing remains
// that could ever be selected again.
func (e *Engine) maybeCompleteCampaign(ctx context.Context, campaign *domain.Campaign, res *RunResult) {
	pending, err := e.enrollments.HasProcessable(ctx, campaign.ID)
	if err != nil {
		logger.Warn("completion check failed", "campaign_id", campaign.ID, "error", err)
		return
	}
	if pending {
		return
	}
	if err := e.campaigns.SetStatus(ctx, campaign.ID, domain.CampaignCompleted); err != nil {
		logger.Error("complete campaign failed", "campaign_id", campaign.ID, "error", err)
		return
	}
	res.Notices = append(res.Notices, CampaignNotice{campaign.ID, "campaign completed"})
}

func outcomeForStatus(s domain.EnrollmentStatus) Outcome {
	switch s {
	case domain.EnrollmentSkipped:
		return OutcomeSkipped
	case domain.EnrollmentInvalid:
		return OutcomeInvalid
	case domain.EnrollmentFlagged:
		return OutcomeFlagged
	default:
		return OutcomeFailed
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
