//go:build !unix && !windows

package runner

import (
	"os"
	"os/exec"
)

// Platforms without a way to kill and reap a child on a deadline get
// ErrTimeoutUnsupported when a timeout is requested.
const timeoutSupported = false

func kill(*exec.Cmd) {}

func maxRssKb(*os.ProcessState) *uint64 {
	return nil
}
