// SPDX-License-Identifier: EPL-2.0

package controller

import (
	"errors"

	"github.com/ik5/audctl/protocol"
)

var (
	// ErrUnexpectedResponse reports a response kind or payload that does not
	// answer the request.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("controller closed")
)

// RemoteError carries the text of an ERR response verbatim.
type RemoteError struct {
	Request protocol.Kind
	Text    string
}

func (e *RemoteError) Error() string { return e.Text }
