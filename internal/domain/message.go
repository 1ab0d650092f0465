package domain

import "time"

// OutboundMessage is the fully-rendered message ready for the transport.
// By the time a message reaches this struct, all template substitution is
// complete.
type OutboundMessage struct {
	EnrollmentID string `json:"enrollment_id"`
	CampaignID   string `json:"campaign_id"`
	RecipientID  string `json:"recipient_id"`
	To           string `json:"to"`
	FromName     string `json:"from_name"`
	FromEmail    string `json:"from_email"`
	ReplyTo      string `json:"reply_to"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// SendReceipt is returned by a transport after a successful delivery
// attempt.
type SendReceipt struct {
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}
