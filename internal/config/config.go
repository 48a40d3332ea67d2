// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration shared by the controller
// shell and the worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ik5/audctl/ringbuf"
	"gopkg.in/yaml.v3"
)

// Sink names accepted in worker.sink.
const (
	SinkSpeaker = "speaker"
	SinkWav     = "wav"
	SinkNull    = "null"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the complete configuration
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Worker     WorkerConfig     `yaml:"worker"`
	Controller ControllerConfig `yaml:"controller"`
}

// WorkerConfig contains playback settings
type WorkerConfig struct {
	Sink            string `yaml:"sink"`              // speaker, wav, null
	WavPath         string `yaml:"wav_path"`          // output file for the wav sink
	RingFrames      int    `yaml:"ring_frames"`       // speaker ring capacity
	MaxResyncs      int    `yaml:"max_resyncs"`       // consecutive decode errors before failing, <0 unbounded
	SpeakerBufferMS int    `yaml:"speaker_buffer_ms"` // device buffer length
}

// ControllerConfig contains worker process settings
type ControllerConfig struct {
	WorkerPath    string `yaml:"worker_path"` // empty: own executable
	StopTimeoutMS int    `yaml:"stop_timeout_ms"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Worker: WorkerConfig{
			Sink:            SinkSpeaker,
			WavPath:         "out.wav",
			RingFrames:      ringbuf.DefaultFrames,
			MaxResyncs:      32,
			SpeakerBufferMS: 100,
		},
		Controller: ControllerConfig{
			StopTimeoutMS: 2000,
		},
	}
}

// Load reads path over the defaults. Missing keys keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Worker.Sink {
	case SinkSpeaker, SinkWav, SinkNull:
	default:
		return fmt.Errorf("%w: unknown sink %q", ErrInvalid, c.Worker.Sink)
	}
	if c.Worker.Sink == SinkWav && c.Worker.WavPath == "" {
		return fmt.Errorf("%w: wav sink needs wav_path", ErrInvalid)
	}
	if c.Worker.RingFrames < 1152 {
		return fmt.Errorf("%w: ring_frames %d is smaller than one frame block", ErrInvalid, c.Worker.RingFrames)
	}
	if c.Worker.SpeakerBufferMS <= 0 {
		return fmt.Errorf("%w: speaker_buffer_ms must be positive", ErrInvalid)
	}
	if c.Controller.StopTimeoutMS <= 0 {
		return fmt.Errorf("%w: stop_timeout_ms must be positive", ErrInvalid)
	}
	return nil
}

func (c *Config) SpeakerBuffer() time.Duration {
	return time.Duration(c.Worker.SpeakerBufferMS) * time.Millisecond
}

func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.Controller.StopTimeoutMS) * time.Millisecond
}
