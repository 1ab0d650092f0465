package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"a@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		if got := RedactEmail(tt.in); got != tt.want {
			t.Errorf("RedactEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactEmailsInFieldValues(t *testing.T) {
	got := redactEmails("sent to ana.b@acme.example after retry")
	want := "sent to an***@acme.example after retry"
	if got != want {
		t.Errorf("redactEmails = %q, want %q", got, want)
	}

	if got := redactEmails("no addresses here"); got != "no addresses here" {
		t.Errorf("plain value altered: %q", got)
	}
}
