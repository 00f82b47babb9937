package handlers

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ReadProcessStats reads metrics for the current process via gopsutil.
func ReadProcessStats() (ProcessStatsSnapshot, error) {
	pid := int32(os.Getpid())
	p, err := process.NewProcess(pid)
	if err != nil {
		return ProcessStatsSnapshot{}, fmt.Errorf("open process %d: %w", pid, err)
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return ProcessStatsSnapshot{}, fmt.Errorf("memory info: %w", err)
	}

	snap := ProcessStatsSnapshot{
		PID:      pid,
		RSSBytes: mem.RSS,
		VMSBytes: mem.VMS,
	}
	// CPU and thread counts are best effort; not every platform reports them.
	if cpu, err := p.CPUPercent(); err == nil {
		snap.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		snap.NumThreads = n
	}
	return snap, nil
}
