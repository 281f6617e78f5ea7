package service

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
)

const stopGracePeriod = 5 * time.Second

// syncBuffer makes the captured output safe to read while the process is
// still writing it.
type syncBuffer struct {
	buf  bytes.Buffer
	lock sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

// ManagedProcess is a ruststack instance started by the harness itself.
// Standard output and error are captured so that a startup failure can be
// reported with the service's own diagnostics.
type ManagedProcess struct {
	cmd     *exec.Cmd
	args    []string
	stdout  syncBuffer
	stderr  syncBuffer
	stopped bool
}

// StartManaged launches the service binary with --host and --port arguments.
// It does not wait for readiness; callers gate on WaitUntilReady.
func StartManaged(cfg Config) (*ManagedProcess, error) {
	args := []string{cfg.BinaryPath, "--host", cfg.Host, "--port", strconv.Itoa(cfg.Port)}
	cmd := exec.Command(args[0], args[1:]...)
	p := &ManagedProcess{cmd: cmd, args: args}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("could not start service process (%s): %w", p.CommandLine(), err)
	}
	return p, nil
}

// CommandLine returns the shell-quoted command used to start the process.
func (p *ManagedProcess) CommandLine() string {
	return shellescape.QuoteCommand(p.args)
}

// Output returns everything the process has written to stdout and stderr so far.
func (p *ManagedProcess) Output() (stdout, stderr string) {
	return p.stdout.String(), p.stderr.String()
}

// Stop terminates the process: first a graceful SIGTERM, then SIGKILL if it
// has not exited within the grace period. Calling Stop more than once is a
// no-op.
func (p *ManagedProcess) Stop() error {
	if p.stopped {
		return nil
	}
	p.stopped = true

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone; reap it and move on.
		_ = p.cmd.Wait()
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- p.cmd.Wait() }()

	select {
	case <-done:
		return nil
	case <-time.After(stopGracePeriod):
		_ = p.cmd.Process.Kill()
		<-done
		return fmt.Errorf("service process did not exit within %s after SIGTERM", stopGracePeriod)
	}
}
