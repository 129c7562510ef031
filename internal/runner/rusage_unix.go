//go:build unix

package runner

import (
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

const timeoutSupported = true

// kill forcibly terminates the child. SIGKILL is unconditional: a timed-out
// bench command gets no chance to linger past its deadline.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(cmd.Process.Pid, unix.SIGKILL)
}

// maxRssKb extracts the child's peak resident set size from the rusage
// accounting that reaping yields, normalized to kilobytes. Linux reports
// ru_maxrss in kilobytes already; macOS reports bytes.
func maxRssKb(state *os.ProcessState) *uint64 {
	if state == nil {
		return nil
	}
	ru, ok := state.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil || ru.Maxrss < 0 {
		return nil
	}
	raw := uint64(ru.Maxrss)
	if runtime.GOOS == "darwin" {
		raw /= 1024
	}
	return &raw
}
