// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrNoFrames indicates the input ended before a valid MP3 frame was found.
var ErrNoFrames = errors.New("not an MP3 stream")
