// Package runner executes one command instance and reports its cost.
//
// This is the only part of the engine that touches a live OS process. Each
// Run call owns its child exclusively: it spawns, optionally watches a
// deadline, and always reaps, so no invocation can leak a zombie.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrEmptyArgv is returned before anything is spawned when a spec has no
// command words. An empty argv is a configuration error, never a no-op.
var ErrEmptyArgv = errors.New("command argv must not be empty")

// ErrTimeoutUnsupported is returned when a timeout was requested but the host
// platform cannot kill and reap a child on a deadline. Silently ignoring a
// requested timeout would be worse than refusing to run.
var ErrTimeoutUnsupported = errors.New("timeout is not supported on this platform")

// EnvVar is one KEY=VALUE environment override.
type EnvVar struct {
	Key   string
	Value string
}

// CommandSpec describes one command to execute. A spec is read-only and may
// be reused across iterations.
type CommandSpec struct {
	// Argv is the command and its arguments; no shell parsing is applied.
	Argv []string

	// Dir is the working directory; empty means inherit.
	Dir string

	// Env is merged onto the ambient environment; overrides win.
	Env []EnvVar

	// Timeout bounds one execution; zero means unbounded.
	Timeout time.Duration

	// OutputCapBytes caps captured stdout and stderr, independently.
	OutputCapBytes int
}

// ExecutionResult is the outcome of one execution. It is immutable once
// produced and owned by the caller.
type ExecutionResult struct {
	WallMs   uint64
	ExitCode int
	TimedOut bool

	// MaxRssKb is the child's peak resident set size in kilobytes, when the
	// platform's extended wait exposes it. Nil means unavailable.
	MaxRssKb *uint64

	// Stdout and Stderr are truncated to OutputCapBytes each.
	Stdout []byte
	Stderr []byte
}

// Runner executes a single command instance.
type Runner interface {
	Run(spec CommandSpec) (ExecutionResult, error)
}

// New returns the host-process Runner.
func New() Runner {
	return execRunner{}
}

type execRunner struct{}

// Run spawns the command and blocks until it exits or the timeout elapses.
// The lifecycle is a three-state machine, Running -> (Exited | TimedOut): the
// watchdog below is the only code that transitions to TimedOut, and it alone
// issues the kill; the single Wait call reaps the child in both states.
func (execRunner) Run(spec CommandSpec) (ExecutionResult, error) {
	if len(spec.Argv) == 0 {
		return ExecutionResult{}, ErrEmptyArgv
	}
	if spec.Timeout > 0 && !timeoutSupported {
		return ExecutionResult{}, ErrTimeoutUnsupported
	}

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		env := os.Environ()
		for _, kv := range spec.Env {
			env = append(env, kv.Key+"="+kv.Value)
		}
		cmd.Env = env
	}

	stdout := newCappedWriter(spec.OutputCapBytes)
	stderr := newCappedWriter(spec.OutputCapBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	// cmd.Stdin stays nil so the child reads from the null device.

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return ExecutionResult{}, fmt.Errorf("spawn %v: %w", spec.Argv, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timedOut := false
	var waitErr error
	if spec.Timeout > 0 {
		timer := time.NewTimer(spec.Timeout)
		defer timer.Stop()
		select {
		case waitErr = <-done:
		case <-timer.C:
			timedOut = true
			kill(cmd)
			// Reap; Wait was already in flight and returns once the child
			// is gone.
			waitErr = <-done
		}
	} else {
		waitErr = <-done
	}

	wallMs := uint64(time.Since(start).Milliseconds())

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return ExecutionResult{}, fmt.Errorf("wait for %v: %w", spec.Argv, waitErr)
		}
	}

	return ExecutionResult{
		WallMs:   wallMs,
		ExitCode: cmd.ProcessState.ExitCode(),
		TimedOut: timedOut,
		MaxRssKb: maxRssKb(cmd.ProcessState),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}, nil
}
