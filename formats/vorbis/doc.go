// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides the Ogg Vorbis decoder collaborator.
//
// This package uses github.com/jfreymuth/oggvorbis. Compressed pages are
// pulled through the Input callback of an audio.Handler and every 1024
// decoded frames are pushed through Output.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as encoded (mono, stereo, ...)
//   - Sample rate: as encoded
package vorbis
