// Package system reports process resource usage and pools image buffers.
package system

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a snapshot of the current process.
type Stats struct {
	RSS        uint64  // resident set size in bytes
	CPUPercent float64 // CPU usage since process start
	Threads    int32
	Elapsed    time.Duration
}

// Collect samples the current process. start is the moment the measured
// work began.
func Collect(start time.Time) (Stats, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Stats{}, fmt.Errorf("open process: %w", err)
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return Stats{}, fmt.Errorf("memory info: %w", err)
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		return Stats{}, fmt.Errorf("cpu percent: %w", err)
	}
	threads, err := proc.NumThreads()
	if err != nil {
		return Stats{}, fmt.Errorf("threads: %w", err)
	}

	return Stats{
		RSS:        mem.RSS,
		CPUPercent: cpu,
		Threads:    threads,
		Elapsed:    time.Since(start),
	}, nil
}

func (s Stats) String() string {
	return fmt.Sprintf("RSS %.1f MiB | CPU %.1f%% | threads %d | %s",
		float64(s.RSS)/(1<<20), s.CPUPercent, s.Threads, s.Elapsed.Round(time.Millisecond))
}
