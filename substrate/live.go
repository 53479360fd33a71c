package substrate

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Live is a Sensor backed by gopsutil, reading real host memory, CPU, and
// uptime. Any individual reading that fails falls back to the
// corresponding Fallback field rather than failing the whole Read.
type Live struct{}

// NewLive returns a Live sensor.
func NewLive() Live { return Live{} }

// Read queries gopsutil for virtual memory, CPU frequency, and uptime.
func (Live) Read() Reading {
	r := Fallback

	if vm, err := mem.VirtualMemory(); err == nil {
		r.TotalRAMMB = float64(vm.Total) / (1024 * 1024)
		r.AvailableRAMMB = float64(vm.Available) / (1024 * 1024)
		r.UsedRAMBytesEstimate = vm.Used
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		r.CPUCycleHz = infos[0].Mhz * 1e6
	}

	if uptime, err := host.Uptime(); err == nil {
		r.CPUUptimeTicks = uptime
	}

	r.RTCHour, r.RTCMinute, r.RTCSecond = clockReading(time.Now())
	return r
}
