// SPDX-License-Identifier: EPL-2.0

// Package aiff provides the AIFF decoder collaborator, built on
// github.com/go-audio/aiff.
//
// go-audio needs an io.ReadSeeker, so the decoder drains the input
// callback into memory before parsing. Only 16-bit PCM is accepted.
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but uses big-endian byte order and stores the
// sample rate as an 80-bit float. The go-audio decoder handles both.
package aiff
