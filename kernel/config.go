// Package kernel implements the ingest pipeline, metabolism, and sleep
// scheduler that drive one HDC cognitive system: boot reads
// the substrate to compute a bounded energy budget, then each ingest runs
// System 1 (cache reflex) before falling through to System 2 (bounded
// adapter-routed deliberation), accumulating burn and triggering sleep on
// fatigue, idleness, or an explicit/periodic request.
package kernel

import "github.com/axonforge/hdkernel/adapter"

// Config bounds the kernel's energy model and scheduling behavior.
type Config struct {
	Adapter adapter.Config

	MinEnergy    float64
	MaxEnergyCap float64

	RAMWeight float64 // per MB of total RAM
	CPUWeight float64 // per GHz of CPU clock

	UptimeAttenuationPerHour float64
	MinUptimeAttenuation     float64

	FatigueRatio float64
	ZombieRatio  float64

	ReflexCost           float64
	SystemTwoBudget      int
	AnomalyEntropyThresh float64
	AnomalyIterThresh    int

	// IdleSleepTicks triggers a sleep cycle once this many ticks have
	// passed since the last activity. PeriodicSleepTicks triggers one once
	// this many ingests have been accepted into working memory since the
	// last sleep; idle ticks do not count toward it.
	IdleSleepTicks     int64
	PeriodicSleepTicks int64

	CacheCandidateLimit int
	ConsolidateTopN     int
	ConsolidateMinFit   float64
	ConsolidateMaxBurn  float64
}

// DefaultConfig returns the kernel's default configuration.
func DefaultConfig() Config {
	return Config{
		Adapter: adapter.DefaultConfig(),

		MinEnergy:    64,
		MaxEnergyCap: 8192,

		RAMWeight: 1.2,
		CPUWeight: 40,

		UptimeAttenuationPerHour: 0.001,
		MinUptimeAttenuation:     0.5,

		FatigueRatio: 0.15,
		ZombieRatio:  0.05,

		ReflexCost:           1.5,
		SystemTwoBudget:      64,
		AnomalyEntropyThresh: 0.85,
		AnomalyIterThresh:    16,

		IdleSleepTicks:     500,
		PeriodicSleepTicks: 2000,

		CacheCandidateLimit: 32,
		ConsolidateTopN:     16,
		ConsolidateMinFit:   0.5,
		ConsolidateMaxBurn:  0.75,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
