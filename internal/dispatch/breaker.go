package dispatch

// PauseThreshold is the failed/total ratio above which a campaign is
// paused. Failed enrollments stand in for bounces; past roughly 3%
// providers start degrading the sender's reputation.
const PauseThreshold = 0.03

// CircuitBreaker pauses campaigns whose failure ratio climbs too high.
// It is a blunt, campaign-wide kill switch, recomputed after every send.
type CircuitBreaker struct {
	Threshold float64
}

// NewCircuitBreaker returns a breaker with the default threshold.
func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{Threshold: PauseThreshold}
}

// Tripped reports whether the campaign's failure ratio exceeds the
// threshold. A campaign with no enrollments never trips.
func (b *CircuitBreaker) Tripped(failed, total int) bool {
	if total == 0 {
		return false
	}
	return float64(failed)/float64(total) > b.Threshold
}
