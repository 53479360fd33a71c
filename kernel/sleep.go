package kernel

// SleepScheduler tracks tick-based activity/sleep history and decides when
// a sleep cycle should trigger. All timing is in
// kernel ticks, never wall-clock.
type SleepScheduler struct {
	SinceLastActivity int64
	SinceLastSleep    int64
	ExplicitRequested bool
}

// Reasons a sleep cycle triggers.
const (
	SleepReasonFatigue  = "fatigue"
	SleepReasonIdle     = "idle"
	SleepReasonExplicit = "explicit"
	SleepReasonPeriodic = "periodic"
)

// RequestSleep flags an explicit sleep request for the next Poll.
func (s *SleepScheduler) RequestSleep() { s.ExplicitRequested = true }

// tick records one ingest accepted into working memory: it resets
// SinceLastActivity and advances SinceLastSleep by one. The fatigued
// argument is not used.
func (s *SleepScheduler) tick(fatigued bool) {
	s.SinceLastActivity = 0
	s.SinceLastSleep++
	_ = fatigued
}

// Poll returns the trigger reason, or "" if no sleep should occur yet.
func (s *SleepScheduler) Poll(cfg Config, m Metabolism, idleTicks int64) (string, bool) {
	s.SinceLastActivity += idleTicks

	switch {
	case s.ExplicitRequested:
		return SleepReasonExplicit, true
	case m.Fatigued():
		return SleepReasonFatigue, true
	case s.SinceLastActivity >= cfg.IdleSleepTicks:
		return SleepReasonIdle, true
	case s.SinceLastSleep >= cfg.PeriodicSleepTicks:
		return SleepReasonPeriodic, true
	default:
		return "", false
	}
}

// reset clears scheduler state after a sleep cycle completes.
func (s *SleepScheduler) reset() {
	s.SinceLastActivity = 0
	s.SinceLastSleep = 0
	s.ExplicitRequested = false
}
