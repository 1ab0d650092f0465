package dispatch

import (
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Warm-up and ceiling constants for sender reputation protection. A young
// account that blasts at full volume gets its domain blacklisted; the
// warm-up clamp keeps early volume low regardless of what the operator
// configured.
const (
	HardDailyCeiling = 50
	WarmupPeriodDays = 14
	WarmupDailyLimit = 10
)

// EffectiveLimit computes the send cap for the current run:
// min(configured, hard ceiling), further clamped to the warm-up limit while
// the account is younger than the warm-up period.
func EffectiveLimit(account *domain.SenderAccount, now time.Time) int {
	limit := account.DailyLimit
	if limit > HardDailyCeiling {
		limit = HardDailyCeiling
	}
	if account.AgeDays(now) < WarmupPeriodDays && limit > WarmupDailyLimit {
		limit = WarmupDailyLimit
	}
	return limit
}

// Budget tracks remaining send capacity across all campaigns in one run.
// The limit is computed once at run start; Used starts at the account's
// sent_today and is consumed per successful send.
type Budget struct {
	Limit int
	Used  int
}

// Remaining returns the number of sends left in this run.
func (b *Budget) Remaining() int {
	if b.Used >= b.Limit {
		return 0
	}
	return b.Limit - b.Used
}

// Exhausted reports whether no capacity remains. Checked before every
// candidate, not once per run, since the counter is shared across
// campaigns.
func (b *Budget) Exhausted() bool { return b.Used >= b.Limit }

// Consume records one successful send.
func (b *Budget) Consume() { b.Used++ }
