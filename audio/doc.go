// SPDX-License-Identifier: EPL-2.0

// Package audio defines the contracts between the playback worker and its
// collaborators: decoders that run a frame-synchronous decode loop, and sinks
// that render the decoded blocks.
//
// # Decoder runs
//
// A Decoder drives three callbacks on a Handler:
//
//	Input(p)   - supply the next compressed bytes, FlowStop at end of input
//	Output(b)  - receive one decoded Block
//	Error(err) - a recoverable decoding error, FlowContinue to resync
//
// Every callback returns a Flow. FlowStop ends the run cleanly, FlowBreak
// aborts it and Run returns ErrBreak. Stream decoders that pull from an
// io.Reader wrap the Input callback with NewInputReader.
//
// # Sample Format
//
// Samples inside a Block are float32 in the range [-1.0, 1.0], one slice per
// channel. Sinks perform the final conversion to whatever the device expects.
//
// # Format Registry
//
// The registry maps file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("mp3", mp3.Decoder{})
//	decoder, err := registry.ForPath("track.mp3")
package audio
