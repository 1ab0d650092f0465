package dispatch

import (
	"testing"
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
)

func TestEffectiveLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		dailyLimit int
		ageDays    int
		want       int
	}{
		{"mature account under ceiling", 30, 60, 30},
		{"mature account clamped to ceiling", 200, 60, 50},
		{"warm-up account clamped to warm-up limit", 50, 5, 10},
		{"warm-up account with tiny configured limit", 3, 5, 3},
		{"day before warm-up ends", 50, 13, 10},
		{"first day after warm-up", 50, 14, 50},
		{"brand new account", 50, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &domain.SenderAccount{
				DailyLimit: tt.dailyLimit,
				CreatedAt:  now.AddDate(0, 0, -tt.ageDays),
			}
			if got := EffectiveLimit(account, now); got != tt.want {
				t.Errorf("EffectiveLimit = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBudgetConsumption(t *testing.T) {
	b := &Budget{Limit: 2, Used: 0}
	if b.Exhausted() {
		t.Fatal("fresh budget reported exhausted")
	}
	if b.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", b.Remaining())
	}

	b.Consume()
	b.Consume()
	if !b.Exhausted() {
		t.Error("budget not exhausted after consuming its limit")
	}
	if b.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", b.Remaining())
	}
}

func TestBudgetOverdrawnAccount(t *testing.T) {
	// sent_today can exceed the effective limit after a warm-up clamp kicks
	// in mid-period. Remaining must floor at zero, not go negative.
	b := &Budget{Limit: 10, Used: 37}
	if !b.Exhausted() {
		t.Error("overdrawn budget reported capacity")
	}
	if b.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", b.Remaining())
	}
}
