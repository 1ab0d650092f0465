// Package dispatch implements the outreach dispatch engine: the component
// that, on each invocation, selects eligible enrollments, enforces the
// sender's send budget, passes candidates through the safety gate, executes
// sends with retry, and atomically commits the resulting state transition.
//
// One invocation processes one bounded batch to completion. Campaigns are
// processed sequentially under a per-campaign compare-and-swap lock, so
// overlapping invocations never double-process the same campaign.
package dispatch
