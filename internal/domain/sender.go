package domain

import "time"

// SenderAccount identifies the shared outbound channel and carries its
// daily usage counters. One active account is assumed.
type SenderAccount struct {
	ID        string `json:"id" db:"id"`
	FromName  string `json:"from_name" db:"from_name"`
	FromEmail string `json:"from_email" db:"from_email"`
	ReplyTo   string `json:"reply_to" db:"reply_to"`

	// DailyLimit is the operator-configured cap; the effective cap for a
	// run is further clamped by the hard ceiling and warm-up rules.
	DailyLimit    int       `json:"daily_limit" db:"daily_limit"`
	SentToday     int       `json:"sent_today" db:"sent_today"`
	LastResetDate time.Time `json:"last_reset_date" db:"last_reset_date"`

	// IsSystemPaused is the operator kill switch. A paused account stops
	// every campaign's dispatch immediately.
	IsSystemPaused bool `json:"is_system_paused" db:"is_system_paused"`

	LastRunAt *time.Time `json:"last_run_at" db:"last_run_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// AgeDays returns the whole number of days since the account was created.
func (a *SenderAccount) AgeDays(now time.Time) int {
	return int(now.Sub(a.CreatedAt).Hours() / 24)
}
