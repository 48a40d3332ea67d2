// SPDX-License-Identifier: EPL-2.0

// Package wav provides the WAV decoder collaborator.
//
// Only canonical PCM 16-bit files are accepted: a 44-byte RIFF header with
// the fmt chunk immediately followed by the data chunk. Anything else is
// rejected with one of the Err* values.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels and sample rate: as stored in the header
//   - Block size: 1152 frames, matching one MP3 frame
package wav
