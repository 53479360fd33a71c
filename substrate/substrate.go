// Package substrate implements the external resource-sensing collaborator:
// the kernel's only window onto host hardware, used solely to
// compute a bounded starting energy budget at boot.
package substrate

import "time"

// Reading is a point-in-time snapshot of host resources.
type Reading struct {
	TotalRAMMB          float64
	AvailableRAMMB      float64
	UsedRAMBytesEstimate uint64
	CPUCycleHz          float64
	CPUUptimeTicks      uint64
	RTCHour             int
	RTCMinute           int
	RTCSecond           int
}

// Fallback is the conservative default reading used when a sensor is
// missing or fails.
var Fallback = Reading{
	TotalRAMMB:     128,
	AvailableRAMMB: 128,
}

// Sensor reads the host substrate. Implementations must never block
// indefinitely; Read should return the best available reading, falling
// back to conservative defaults on any internal failure rather than
// propagating an error — boot must always be able to proceed.
type Sensor interface {
	Read() Reading
}

// Fixed is a Sensor that always returns the same reading, useful for tests
// and for hosts with no real resource introspection available.
type Fixed struct {
	Reading Reading
}

// NewFixed returns a Fixed sensor seeded with the conservative Fallback
// reading.
func NewFixed() Fixed { return Fixed{Reading: Fallback} }

// Read returns the fixed reading.
func (f Fixed) Read() Reading { return f.Reading }

// clockReading fills RTCHour/Minute/Second from the current local time. It
// is a small helper shared by Live so boot can report a human-readable
// uptime-of-day without pulling in a larger time dependency.
func clockReading(now time.Time) (hour, minute, second int) {
	return now.Hour(), now.Minute(), now.Second()
}
