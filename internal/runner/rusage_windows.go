//go:build windows

package runner

import (
	"os"
	"os/exec"
)

const timeoutSupported = true

func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

// maxRssKb is unavailable on Windows: the wait accounting there does not
// expose peak resident memory, so the field stays absent.
func maxRssKb(*os.ProcessState) *uint64 {
	return nil
}
