package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
)

type stubRunner struct {
	result   *dispatch.RunResult
	err      error
	calls    int
	deadline time.Time
}

func (s *stubRunner) Run(ctx context.Context) (*dispatch.RunResult, error) {
	s.calls++
	s.deadline, _ = ctx.Deadline()
	return s.result, s.err
}

type stubCampaigns struct {
	campaigns map[string]*domain.Campaign
	statuses  map[string]domain.CampaignStatus
}

func (s *stubCampaigns) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	if c, ok := s.campaigns[id]; ok {
		return c, nil
	}
	return nil, dispatch.ErrNotFound
}

func (s *stubCampaigns) SetStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	s.statuses[id] = status
	return nil
}

type stubSenders struct {
	account *domain.SenderAccount
	paused  map[string]bool
}

func (s *stubSenders) GetAccount(ctx context.Context) (*domain.SenderAccount, error) {
	if s.account == nil {
		return nil, dispatch.ErrNoSenderAccount
	}
	return s.account, nil
}

func (s *stubSenders) SetSystemPaused(ctx context.Context, accountID string, paused bool) error {
	s.paused[accountID] = paused
	return nil
}

type stubCounter struct{ allowed bool }

func (s stubCounter) Allow(ctx context.Context, id string, limit int, window time.Duration) (bool, int, error) {
	return s.allowed, 0, nil
}

func newTestRouter(runner *stubRunner, counter RateCounter) (http.Handler, *stubCampaigns, *stubSenders) {
	campaigns := &stubCampaigns{
		campaigns: map[string]*domain.Campaign{
			"camp-1": {ID: "camp-1", Name: "Demo", Status: domain.CampaignActive},
		},
		statuses: map[string]domain.CampaignStatus{},
	}
	senders := &stubSenders{
		account: &domain.SenderAccount{ID: "acct-1"},
		paused:  map[string]bool{},
	}
	h := NewHandlers(runner, campaigns, senders, 0)
	return SetupRoutes(h, counter, RouterConfig{CronSecret: "s3cret"}), campaigns, senders
}

func TestHealthCheckUnauthenticated(t *testing.T) {
	router, _, _ := newTestRouter(&stubRunner{result: &dispatch.RunResult{}}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCronSecretRequired(t *testing.T) {
	runner := &stubRunner{result: &dispatch.RunResult{Processed: 2}}
	router, _, _ := newTestRouter(runner, nil)

	t.Run("missing secret", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if runner.calls != 0 {
			t.Error("engine ran without the secret")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil)
		req.Header.Set("X-Cron-Secret", "guess")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("correct secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil)
		req.Header.Set("X-Cron-Secret", "s3cret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var result dispatch.RunResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if result.Processed != 2 {
			t.Errorf("processed = %d, want 2", result.Processed)
		}
	})
}

func TestRunDispatchUsesConfiguredTimeout(t *testing.T) {
	runner := &stubRunner{result: &dispatch.RunResult{}}
	h := NewHandlers(runner, nil, nil, 30*time.Second)

	start := time.Now()
	rec := httptest.NewRecorder()
	h.RunDispatch(rec, httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.deadline.IsZero() {
		t.Fatal("engine ran with no deadline")
	}
	remaining := runner.deadline.Sub(start)
	if remaining <= 0 || remaining > 30*time.Second {
		t.Errorf("deadline %v from start, want within 30s", remaining)
	}
}

func TestNewHandlersDefaultTimeout(t *testing.T) {
	h := NewHandlers(&stubRunner{}, nil, nil, 0)
	if h.runTimeout != 5*time.Minute {
		t.Errorf("runTimeout = %v, want 5m fallback", h.runTimeout)
	}
}

func TestDispatchRateLimited(t *testing.T) {
	runner := &stubRunner{result: &dispatch.RunResult{}}
	router, _, _ := newTestRouter(runner, stubCounter{allowed: false})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if runner.calls != 0 {
		t.Error("engine ran past the rate limit")
	}
}

func TestDispatchEngineError(t *testing.T) {
	runner := &stubRunner{err: errors.New("database gone")}
	router, _, _ := newTestRouter(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/dispatch", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCampaignPauseResume(t *testing.T) {
	router, campaigns, _ := newTestRouter(&stubRunner{result: &dispatch.RunResult{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/campaigns/camp-1/pause", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pause status = %d: %s", rec.Code, rec.Body.String())
	}
	if campaigns.statuses["camp-1"] != domain.CampaignPaused {
		t.Errorf("campaign status = %s, want PAUSED", campaigns.statuses["camp-1"])
	}

	req = httptest.NewRequest(http.MethodPost, "/api/campaigns/camp-1/resume", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if campaigns.statuses["camp-1"] != domain.CampaignActive {
		t.Errorf("campaign status = %s, want ACTIVE", campaigns.statuses["camp-1"])
	}
}

func TestCampaignNotFound(t *testing.T) {
	router, _, _ := newTestRouter(&stubRunner{result: &dispatch.RunResult{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/missing/", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSystemKillSwitch(t *testing.T) {
	router, _, senders := newTestRouter(&stubRunner{result: &dispatch.RunResult{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/system/pause", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pause status = %d: %s", rec.Code, rec.Body.String())
	}
	if !senders.paused["acct-1"] {
		t.Error("kill switch not engaged")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/system/resume", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if senders.paused["acct-1"] {
		t.Error("kill switch not released")
	}
}
