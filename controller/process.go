// SPDX-License-Identifier: EPL-2.0

package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// DefaultStopTimeout is how long Close waits for the worker to exit on its
// own before killing it.
const DefaultStopTimeout = 2 * time.Second

// Options describes the worker process to spawn.
type Options struct {
	// Path is the worker executable. Empty means the running executable.
	Path string
	Args []string
	Env  []string
	// Stderr receives the worker log. Defaults to os.Stderr.
	Stderr      io.Writer
	StopTimeout time.Duration
	Logger      zerolog.Logger
}

// Spawn starts a worker process with its stdin as the command pipe and its
// stdout as the response pipe.
func Spawn(ctx context.Context, opts Options) (*Controller, error) {
	path := opts.Path
	if path == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating worker executable: %w", err)
		}
		path = self
	}

	cmd := exec.CommandContext(ctx, path, opts.Args...)
	if opts.Env != nil {
		cmd.Env = opts.Env
	}
	cmd.Stderr = opts.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating command pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating response pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting worker %s: %w", path, err)
	}

	c := New(stdout, stdin, opts.Logger)
	c.cmd = cmd
	c.stdin = stdin
	c.stopTimeout = opts.StopTimeout
	if c.stopTimeout <= 0 {
		c.stopTimeout = DefaultStopTimeout
	}

	c.log.Info().Str("path", path).Int("pid", cmd.Process.Pid).Msg("worker started")
	return c, nil
}

// Close stops the worker: EXIT if it has not been sent, then the command
// pipe is closed. The worker gets StopTimeout, counted from the call, to
// acknowledge and exit before it is killed. Close on a Controller built with
// New only sends EXIT.
func (c *Controller) Close() error {
	c.mtx.Lock()
	exited, closed := c.exited, c.closed
	c.mtx.Unlock()

	if closed {
		return nil
	}

	if c.cmd == nil {
		var err error
		if !exited {
			if err = c.Exit(); err != nil {
				c.log.Warn().Err(err).Msg("worker did not acknowledge EXIT")
			}
		}
		c.markClosed()
		return err
	}

	deadline := time.NewTimer(c.stopTimeout)
	defer deadline.Stop()

	// request holds mtx until the worker answers, so closed is only marked
	// once the EXIT exchange has returned.
	acked := make(chan error, 1)
	if exited {
		acked <- nil
	} else {
		go func() { acked <- c.Exit() }()
	}

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	pending := acked
	for {
		select {
		case err := <-pending:
			if err != nil {
				c.log.Warn().Err(err).Msg("worker did not acknowledge EXIT")
			}
			pending = nil
			c.stdin.Close()
		case err := <-done:
			c.markClosed()
			if err != nil {
				return fmt.Errorf("worker exited: %w", err)
			}
			c.log.Info().Msg("worker stopped")
			return nil
		case <-deadline.C:
			c.log.Warn().Dur("timeout", c.stopTimeout).Msg("killing worker")
			if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				go c.markClosed()
				return fmt.Errorf("killing worker: %w", err)
			}
			<-done
			c.markClosed()
			return nil
		}
	}
}

// markClosed waits for any EXIT exchange still holding mtx.
func (c *Controller) markClosed() {
	c.mtx.Lock()
	c.closed = true
	c.mtx.Unlock()
}
