// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides the MP3 decoder collaborator for the playback worker.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MPEG audio. The
// compressed bytes are pulled through the Input callback of an audio.Handler,
// so the worker gets a chance to look at its command channel before every
// read, and every decoded MP3 frame (1152 PCM frames) is pushed through
// Output as one block.
//
// # Running the decoder
//
//	var h audio.Handler = player // worker-side callbacks
//	err := mp3.Decoder{}.Run(h)
//
// Run returns nil when the input ends or a callback returns FlowStop, and
// audio.ErrBreak when a callback returns FlowBreak.
//
// # Output Format
//
// MP3 decoder output:
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: 2 (go-mp3 duplicates mono streams)
//   - Sample rate: taken from the stream (typically 44.1kHz or 48kHz)
package mp3
