package safety

import "strings"

// rolePrefixes are local parts that identify shared mailboxes rather than
// people. Sending cold outreach to these hurts sender reputation and never
// converts.
var rolePrefixes = map[string]bool{
	"admin":      true,
	"support":    true,
	"info":       true,
	"sales":      true,
	"contact":    true,
	"help":       true,
	"webmaster":  true,
	"postmaster": true,
	"hostmaster": true,
	"abuse":      true,
	"noreply":    true,
	"no-reply":   true,
}

// IsRoleBasedEmail reports whether the address's local part matches a known
// role-based prefix (admin@, support@, ...).
func IsRoleBasedEmail(email string) bool {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return false
	}
	return rolePrefixes[strings.ToLower(local)]
}
