// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile covers a missing RIFF/WAVE signature and input shorter
	// than the header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedWavLayout reports a header whose fmt chunk is not where
	// the canonical layout puts it, or that describes no channels.
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")

	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")

	// ErrUnsupportedWavChunks reports extra chunks between fmt and data.
	ErrUnsupportedWavChunks = errors.New("unsupported WAV chunks")
)
