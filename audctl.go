// SPDX-License-Identifier: EPL-2.0

package audctl

import (
	"fmt"
	"io"

	"github.com/ik5/audctl/audio"
	"github.com/ik5/audctl/formats/aiff"
	"github.com/ik5/audctl/formats/mp3"
	"github.com/ik5/audctl/formats/vorbis"
	"github.com/ik5/audctl/formats/wav"
	"github.com/ik5/audctl/internal/config"
	"github.com/ik5/audctl/protocol"
	"github.com/ik5/audctl/sinks/null"
	"github.com/ik5/audctl/sinks/speaker"
	"github.com/ik5/audctl/sinks/wavfile"
	"github.com/ik5/audctl/worker"
	"github.com/rs/zerolog"
)

// DefaultRegistry returns a registry with every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("wav", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	return reg
}

// NewSink builds the sink named in cfg.
func NewSink(cfg *config.Config, log zerolog.Logger) (audio.Sink, error) {
	switch cfg.Worker.Sink {
	case config.SinkSpeaker:
		return speaker.New(speaker.Options{
			RingFrames: cfg.Worker.RingFrames,
			Buffer:     cfg.SpeakerBuffer(),
			Logger:     log,
		}), nil
	case config.SinkWav:
		return wavfile.New(cfg.Worker.WavPath), nil
	case config.SinkNull:
		return null.New(log), nil
	default:
		return nil, fmt.Errorf("%w: unknown sink %q", config.ErrInvalid, cfg.Worker.Sink)
	}
}

// RunWorker serves commands read from r and answers on w until EXIT or a
// channel failure. r should be a pipe or another descriptor-backed reader
// so commands can be polled during playback.
func RunWorker(r io.Reader, w io.Writer, cfg *config.Config, log zerolog.Logger) error {
	sink, err := NewSink(cfg, log)
	if err != nil {
		return err
	}

	wk := worker.New(protocol.NewChannel(r, w), worker.Options{
		Registry:   DefaultRegistry(),
		Sink:       sink,
		MaxResyncs: cfg.Worker.MaxResyncs,
		Logger:     log,
	})
	return wk.Run()
}
