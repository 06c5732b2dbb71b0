// Package probe launches candidate binaries with a version-query argument
// and captures their output for version extraction.
//
// Launches are fire-and-forget: Launch starts the process and returns a
// Handle immediately, so hundreds of probes across a volume run concurrently
// while traversal continues. Collection later awaits each Handle in
// discovery order.
package probe

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"

	"github.com/jscan-dev/jscan/pkg/jscan/logging"
)

// versionArg is the single argument passed to every candidate.
// Java runtimes write their version banner to stderr in response.
const versionArg = "-version"

// DefaultTimeout bounds how long Wait blocks on a single probe before the
// process is killed. A probe that never exits would otherwise stall
// collection of every probe discovered after it.
const DefaultTimeout = 10 * time.Second

// pipeWaitDelay bounds how long Wait lingers on output copying after the
// launcher has been reaped. A child the launcher left behind inherits the
// pipe write ends and would otherwise block Wait until it exits.
const pipeWaitDelay = time.Second

var logger = logging.Get("probe")

// Output holds the captured streams of a finished probe.
type Output struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error. The version banner is
	// conventionally written here.
	Stderr string
}

// Text returns the combined captured text, stderr first, for pattern
// matching against the version banner.
func (o Output) Text() string {
	switch {
	case o.Stderr == "":
		return o.Stdout
	case o.Stdout == "":
		return o.Stderr
	default:
		return o.Stderr + "\n" + o.Stdout
	}
}

// Handle is a running probe. It is created by Runner.Launch and must be
// consumed exactly once by Wait, which releases the process resources.
type Handle struct {
	// Path is the absolute path of the probed binary.
	Path string

	// Size is the on-disk size of the binary at discovery time.
	Size int64

	// Mtime is the binary's modification time at discovery time,
	// in Unix nanoseconds.
	Mtime int64

	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	timeout time.Duration
}

// Runner launches candidate binaries.
type Runner struct {
	// Timeout is the per-probe bound applied by Handle.Wait.
	// Zero disables the bound entirely.
	Timeout time.Duration
}

// NewRunner creates a Runner with the default probe timeout.
func NewRunner() *Runner {
	return &Runner{Timeout: DefaultTimeout}
}

// Launch starts `path -version` with both streams captured and no visible
// window, returning without waiting for completion. A spawn failure (the
// file is not executable, or disappeared since discovery) is returned to
// the caller, which drops the candidate; it never aborts a scan.
func (r *Runner) Launch(path string, info fs.FileInfo) (*Handle, error) {
	h := &Handle{
		Path:    path,
		timeout: r.Timeout,
	}
	if info != nil {
		h.Size = info.Size()
		h.Mtime = info.ModTime().UnixNano()
	}

	cmd := exec.Command(path, versionArg)
	cmd.Stdout = &h.stdout
	cmd.Stderr = &h.stderr
	cmd.WaitDelay = pipeWaitDelay
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		logger.Debug("probe launch failed", "path", path, "error", err)
		return nil, err
	}

	h.cmd = cmd
	return h, nil
}

// Wait blocks until the probe exits, the context is cancelled, or the
// per-probe timeout elapses, then returns the captured output.
//
// A non-zero exit status is not an error here: some launchers exit non-zero
// after printing a perfectly usable banner, and unparseable output is
// filtered later anyway. Only a killed or otherwise unreaped process
// returns an error.
func (h *Handle) Wait(ctx context.Context) (Output, error) {
	done := make(chan error, 1)
	go func() {
		done <- h.cmd.Wait()
	}()

	var timeoutC <-chan time.Time
	if h.timeout > 0 {
		timer := time.NewTimer(h.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case err := <-done:
		return h.output(), waitError(err)
	case <-timeoutC:
		logger.Warn("probe timed out, killing", "path", h.Path, "timeout", h.timeout)
		kill(h.cmd)
		<-done
		return h.output(), context.DeadlineExceeded
	case <-ctx.Done():
		kill(h.cmd)
		<-done
		return h.output(), ctx.Err()
	}
}

// output snapshots the captured streams. Only valid once the process has
// been reaped.
func (h *Handle) output() Output {
	return Output{
		Stdout: h.stdout.String(),
		Stderr: h.stderr.String(),
	}
}

// waitError filters the errors that still leave usable output behind: a
// non-zero exit status, and the forced pipe close after pipeWaitDelay when
// a leftover child held the write ends open. Everything captured up to
// that point is available either way.
func waitError(err error) error {
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}
