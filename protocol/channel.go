// SPDX-License-Identifier: EPL-2.0

package protocol

import (
	"io"
	"syscall"
)

// Channel pairs the read side and the write side of a command channel.
type Channel struct {
	r io.Reader
	w io.Writer
}

// NewChannel wraps r and w. r should be an *os.File or another reader that
// exposes its descriptor through syscall.Conn, otherwise Pending fails.
func NewChannel(r io.Reader, w io.Writer) *Channel {
	return &Channel{r: r, w: w}
}

func (c *Channel) Send(kind Kind, payload []byte) error {
	return Send(c.w, kind, payload)
}

func (c *Channel) Receive() (Frame, error) {
	return Receive(c.r)
}

// Pending reports, without blocking, whether the read side has data or has
// been closed by the peer. A true result means the next Receive will not
// block waiting for the first byte.
func (c *Channel) Pending() (bool, error) {
	sc, ok := c.r.(syscall.Conn)
	if !ok {
		return false, ErrPollUnsupported
	}
	return pending(sc)
}
