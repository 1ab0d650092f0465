// Package api exposes the engine over HTTP: the cron dispatch endpoint an
// external time trigger invokes, plus small operator controls for
// campaigns and the kill switch.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/outreach-engine/internal/dispatch"
	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// BatchRunner runs one dispatch batch. Implemented by *dispatch.Engine.
type BatchRunner interface {
	Run(ctx context.Context) (*dispatch.RunResult, error)
}

// CampaignStore is the slice of campaign persistence the handlers need.
type CampaignStore interface {
	Get(ctx context.Context, id string) (*domain.Campaign, error)
	SetStatus(ctx context.Context, id string, status domain.CampaignStatus) error
}

// SenderStore is the slice of sender persistence the handlers need.
type SenderStore interface {
	GetAccount(ctx context.Context) (*domain.SenderAccount, error)
	SetSystemPaused(ctx context.Context, accountID string, paused bool) error
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	engine    BatchRunner
	campaigns CampaignStore
	senders   SenderStore

	// runTimeout bounds a single dispatch invocation; the engine returns
	// partial results when it expires.
	runTimeout time.Duration
}

// NewHandlers creates the handler set. A zero runTimeout falls back to
// five minutes.
func NewHandlers(engine BatchRunner, campaigns CampaignStore, senders SenderStore, runTimeout time.Duration) *Handlers {
	if runTimeout <= 0 {
		runTimeout = 5 * time.Minute
	}
	return &Handlers{
		engine:     engine,
		campaigns:  campaigns,
		senders:    senders,
		runTimeout: runTimeout,
	}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RunDispatch executes one dispatch batch synchronously and returns its
// result. Invoked by the external scheduler.
func (h *Handlers) RunDispatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.runTimeout)
	defer cancel()

	result, err := h.engine.Run(ctx)
	if err != nil {
		logger.Error("dispatch run failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("dispatch run finished",
		"processed", result.Processed,
		"results", len(result.Results),
		"notices", len(result.Notices))
	writeJSON(w, http.StatusOK, result)
}

// GetCampaign returns a campaign's current state.
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.campaigns.Get(r.Context(), id)
	if errors.Is(err, dispatch.ErrNotFound) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PauseCampaign sets a campaign to PAUSED.
func (h *Handlers) PauseCampaign(w http.ResponseWriter, r *http.Request) {
	h.setCampaignStatus(w, r, domain.CampaignPaused)
}

// ResumeCampaign sets a campaign back to ACTIVE.
func (h *Handlers) ResumeCampaign(w http.ResponseWriter, r *http.Request) {
	h.setCampaignStatus(w, r, domain.CampaignActive)
}

func (h *Handlers) setCampaignStatus(w http.ResponseWriter, r *http.Request, status domain.CampaignStatus) {
	id := chi.URLParam(r, "id")
	if _, err := h.campaigns.Get(r.Context(), id); errors.Is(err, dispatch.ErrNotFound) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	if err := h.campaigns.SetStatus(r.Context(), id, status); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
}

// PauseSystem engages the kill switch on the sender account.
func (h *Handlers) PauseSystem(w http.ResponseWriter, r *http.Request) {
	h.setSystemPaused(w, r, true)
}

// ResumeSystem releases the kill switch.
func (h *Handlers) ResumeSystem(w http.ResponseWriter, r *http.Request) {
	h.setSystemPaused(w, r, false)
}

func (h *Handlers) setSystemPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	account, err := h.senders.GetAccount(r.Context())
	if errors.Is(err, dispatch.ErrNoSenderAccount) {
		writeError(w, http.StatusNotFound, "sender account not configured")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.senders.SetSystemPaused(r.Context(), account.ID, paused); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_system_paused": paused})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
