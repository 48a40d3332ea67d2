// SPDX-License-Identifier: EPL-2.0

// Package controller drives a playback worker over the command channel.
// Each call sends one request and blocks for its single response; calls
// are serialized.
package controller

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audctl/protocol"
	"github.com/rs/zerolog"
)

// Controller is safe for concurrent use.
type Controller struct {
	mtx sync.Mutex
	ch  *protocol.Channel
	log zerolog.Logger

	// set by Spawn
	cmd         *exec.Cmd
	stdin       io.Closer
	stopTimeout time.Duration

	exited bool
	closed bool
}

// New returns a Controller that writes requests to w and reads responses
// from r.
func New(r io.Reader, w io.Writer, log zerolog.Logger) *Controller {
	return &Controller{
		ch:  protocol.NewChannel(r, w),
		log: log,
	}
}

func (c *Controller) Play() error  { return c.expectAck(protocol.Play, nil) }
func (c *Controller) Pause() error { return c.expectAck(protocol.Pause, nil) }

// Load asks the worker to open path. It does not start playback.
func (c *Controller) Load(path string) error {
	payload, err := protocol.PathPayload(path)
	if err != nil {
		return err
	}
	return c.expectAck(protocol.Load, payload)
}

// Status is reserved; current workers always answer with an error.
func (c *Controller) Status() error { return c.expectAck(protocol.Status, nil) }

// Exit asks the worker to release its resources and terminate.
func (c *Controller) Exit() error {
	err := c.expectAck(protocol.Exit, nil)
	if err == nil {
		c.mtx.Lock()
		c.exited = true
		c.mtx.Unlock()
	}
	return err
}

// Ping checks the worker is responsive. The PONG must echo a fresh nonce.
func (c *Controller) Ping() error {
	nonce := []byte(uuid.NewString())

	f, err := c.request(protocol.Ping, nonce)
	if err != nil {
		return err
	}

	switch f.Kind {
	case protocol.Pong:
		if !bytes.Equal(f.Payload, nonce) {
			return fmt.Errorf("%w: PONG payload %q does not echo the nonce", ErrUnexpectedResponse, f.Payload)
		}
		return nil
	case protocol.Err:
		return &RemoteError{Request: protocol.Ping, Text: string(f.Payload)}
	default:
		return fmt.Errorf("%w: %s to PING", ErrUnexpectedResponse, f.Kind)
	}
}

func (c *Controller) expectAck(kind protocol.Kind, payload []byte) error {
	f, err := c.request(kind, payload)
	if err != nil {
		return err
	}

	switch f.Kind {
	case protocol.Ack:
		if len(f.Payload) != 0 {
			return fmt.Errorf("%w: ACK to %s with %d byte payload", ErrUnexpectedResponse, kind, len(f.Payload))
		}
		return nil
	case protocol.Err:
		return &RemoteError{Request: kind, Text: string(f.Payload)}
	default:
		return fmt.Errorf("%w: %s to %s", ErrUnexpectedResponse, f.Kind, kind)
	}
}

func (c *Controller) request(kind protocol.Kind, payload []byte) (protocol.Frame, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return protocol.Frame{}, ErrClosed
	}

	c.log.Debug().Stringer("kind", kind).Int("payload", len(payload)).Msg("request")

	if err := c.ch.Send(kind, payload); err != nil {
		return protocol.Frame{}, err
	}
	f, err := c.ch.Receive()
	if err != nil {
		return protocol.Frame{}, err
	}

	c.log.Debug().Stringer("kind", f.Kind).Stringer("request", kind).Msg("response")
	return f, nil
}
