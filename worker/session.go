// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/ik5/audctl/audio"
)

// Session is everything the worker knows about the loaded source. It is
// owned by the worker goroutine and never shared with the render side.
type Session struct {
	ID   uuid.UUID
	Path string

	src *os.File
	dec audio.Decoder

	format    audio.Format
	sinkReady bool

	// gen changes on every LOAD so a running decode can tell its source
	// was replaced.
	gen     uint64
	lastErr error
}

func newSession() *Session {
	return &Session{ID: uuid.New()}
}

// load closes the current source and opens path with the decoder the
// registry picks for it. On failure nothing stays loaded.
func (s *Session) load(path string, reg *audio.Registry) error {
	s.unload()
	s.gen++

	if path == "" {
		return fmt.Errorf("%w: empty path", os.ErrInvalid)
	}

	dec, err := reg.ForPath(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	s.src = f
	s.dec = dec
	s.Path = path
	return nil
}

func (s *Session) loaded() bool { return s.src != nil }

func (s *Session) read(p []byte) (int, error) {
	return s.src.Read(p)
}

// rewind moves the source back to its start for the next PLAY.
func (s *Session) rewind() error {
	if s.src == nil {
		return nil
	}
	_, err := s.src.Seek(0, io.SeekStart)
	return err
}

func (s *Session) unload() {
	if s.src != nil {
		s.src.Close()
	}
	s.src = nil
	s.dec = nil
	s.Path = ""
}
