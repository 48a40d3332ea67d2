// SPDX-License-Identifier: EPL-2.0

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"unicode/utf8"
)

const (
	// HeaderSize is the kind byte plus the little-endian length.
	HeaderSize = 3
	// MaxPayload keeps a whole frame within 1024 bytes.
	MaxPayload = 1024 - HeaderSize
	// MaxErrorText bounds the text carried by an ERR frame.
	MaxErrorText = 255
)

// Kind identifies a frame. The numbering is part of the wire format.
type Kind uint8

const (
	Play Kind = iota
	Pause
	Exit
	Load
	Status
	Ping
	Pong
	Ack
	Err
)

var kindNames = [...]string{
	Play:   "PLAY",
	Pause:  "PAUSE",
	Exit:   "EXIT",
	Load:   "LOAD",
	Status: "STATUS",
	Ping:   "PING",
	Pong:   "PONG",
	Ack:    "ACK",
	Err:    "ERR",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", uint8(k))
}

// IsRequest reports whether k is sent by the controller.
func (k Kind) IsRequest() bool { return k <= Ping }

// IsResponse reports whether k is sent by the worker.
func (k Kind) IsResponse() bool { return k >= Pong && k <= Err }

// Frame is one decoded message.
type Frame struct {
	Kind    Kind
	Payload []byte
}

// Encode builds the wire form of a frame.
func Encode(kind Kind, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrProtocol, len(payload), MaxPayload)
	}

	buf := make([]byte, HeaderSize+len(payload))
	buf[0] = byte(kind)
	binary.LittleEndian.PutUint16(buf[1:HeaderSize], uint16(len(payload)))
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// Send writes one frame to w. An oversized payload is rejected before
// anything is written.
func Send(w io.Writer, kind Kind, payload []byte) error {
	buf, err := Encode(kind, payload)
	if err != nil {
		return err
	}

	for off := 0; off < len(buf); {
		n, err := w.Write(buf[off:])
		off += n

		switch {
		case errors.Is(err, syscall.EINTR):
			continue
		case err != nil:
			return fmt.Errorf("%w: writing %s frame: %w", ErrIO, kind, err)
		case n == 0:
			return fmt.Errorf("%w: writing %s frame: no progress", ErrIO, kind)
		}
	}
	return nil
}

// Receive reads exactly one frame from r. A declared length above
// MaxPayload is rejected without consuming the payload.
func Receive(r io.Reader) (Frame, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, fmt.Errorf("%w: reading header: %w", ErrIO, err)
	}

	f := Frame{Kind: Kind(header[0])}
	size := int(binary.LittleEndian.Uint16(header[1:]))
	if size > MaxPayload {
		return Frame{}, fmt.Errorf("%w: %s frame declares %d bytes", ErrProtocol, f.Kind, size)
	}
	if size == 0 {
		return f, nil
	}

	f.Payload = make([]byte, size)
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		return Frame{}, fmt.Errorf("%w: reading %s payload: %w", ErrIO, f.Kind, err)
	}
	return f, nil
}

// PathPayload builds a NUL-terminated LOAD payload.
func PathPayload(path string) ([]byte, error) {
	if len(path)+1 > MaxPayload {
		return nil, fmt.Errorf("%w: path of %d bytes is too long", ErrProtocol, len(path))
	}
	if strings.IndexByte(path, 0) >= 0 {
		return nil, fmt.Errorf("%w: path contains NUL", ErrProtocol)
	}

	p := make([]byte, len(path)+1)
	copy(p, path)
	return p, nil
}

// ParsePath returns the text of a LOAD payload up to the first NUL.
func ParsePath(payload []byte) string {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	return string(payload)
}

// ErrorText bounds msg for an ERR payload without splitting a UTF-8
// sequence.
func ErrorText(msg string) []byte {
	if len(msg) > MaxErrorText {
		n := MaxErrorText
		for n > 0 && !utf8.RuneStart(msg[n]) {
			n--
		}
		msg = msg[:n]
	}
	return []byte(msg)
}
