// Package hostinfo probes the machine a run executes on. The probe is
// best effort: any facet that cannot be read is simply absent from the
// result, and Probe itself never fails a run.
package hostinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/EffortlessMetrics/perfgate/internal/receipt"
)

// Options controls what the probe records.
type Options struct {
	// HashHostname records a SHA-256 hash of the hostname. The raw name is
	// never stored.
	HashHostname bool
}

// Probe collects host facts for a run receipt.
func Probe(opts Options) receipt.HostInfo {
	info := receipt.HostInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if count, err := cpu.Counts(true); err == nil && count > 0 {
		info.CPUCount = &count
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm.Total > 0 {
		total := vm.Total
		info.MemoryBytes = &total
	}
	if opts.HashHostname {
		if name, err := os.Hostname(); err == nil && name != "" {
			sum := sha256.Sum256([]byte(name))
			hash := hex.EncodeToString(sum[:])
			info.HostnameHash = &hash
		}
	}
	return info
}
