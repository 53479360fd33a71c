package kernel

import "github.com/axonforge/hdkernel/substrate"

// Metabolism is the kernel's energy budget: a bounded pool computed at
// boot from substrate resources, spent by ingest operations and refilled
// by sleep.
type Metabolism struct {
	Energy            float64
	MaxEnergy         float64
	FatigueThreshold  float64
	ZombieThreshold   float64
}

// Zombie reports whether energy has fallen below the zombie threshold.
func (m Metabolism) Zombie() bool {
	return m.Energy < m.ZombieThreshold
}

// Fatigued reports whether energy has fallen below the fatigue threshold.
func (m Metabolism) Fatigued() bool {
	return m.Energy < m.FatigueThreshold
}

// Spend deducts cost from energy, floored at 0: energy must never go
// negative.
func (m *Metabolism) Spend(cost float64) {
	m.Energy -= cost
	if m.Energy < 0 {
		m.Energy = 0
	}
}

// Refill restores energy to MaxEnergy, run at the end of a sleep cycle.
func (m *Metabolism) Refill() {
	m.Energy = m.MaxEnergy
}

// Boot computes a bounded max energy from a substrate reading: a weighted
// sum of RAM and CPU terms, scaled by RAM availability
// and lightly attenuated by uptime, clamped to [cfg.MinEnergy,
// cfg.MaxEnergyCap]. An optional manual override replaces the computed
// value (still clamped).
func Boot(cfg Config, reading substrate.Reading, manualOverride *float64) Metabolism {
	maxEnergy := computeMaxEnergy(cfg, reading)
	if manualOverride != nil {
		maxEnergy = clamp(*manualOverride, cfg.MinEnergy, cfg.MaxEnergyCap)
	}
	return Metabolism{
		Energy:           maxEnergy,
		MaxEnergy:        maxEnergy,
		FatigueThreshold: cfg.FatigueRatio * maxEnergy,
		ZombieThreshold:  cfg.ZombieRatio * maxEnergy,
	}
}

func computeMaxEnergy(cfg Config, reading substrate.Reading) float64 {
	ramTerm := reading.TotalRAMMB * cfg.RAMWeight
	cpuGHz := reading.CPUCycleHz / 1e9
	cpuTerm := cpuGHz * cfg.CPUWeight

	availability := 1.0
	if reading.TotalRAMMB > 0 {
		availability = reading.AvailableRAMMB / reading.TotalRAMMB
	}
	availability = clamp(availability, 0, 1)

	uptimeHours := float64(reading.CPUUptimeTicks) / 3600.0
	attenuation := clamp(1-uptimeHours*cfg.UptimeAttenuationPerHour, cfg.MinUptimeAttenuation, 1)

	raw := (ramTerm + cpuTerm) * availability * attenuation
	return clamp(raw, cfg.MinEnergy, cfg.MaxEnergyCap)
}
