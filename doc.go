// SPDX-License-Identifier: EPL-2.0

// Package audctl plays audio in a separate worker process that a
// lightweight controller drives over a pair of pipes.
//
// The controller (package controller) sends one framed request at a time
// and waits for its single response. The worker (package worker) runs the
// decoder synchronously and polls the command channel from inside the
// decoder callbacks, so it can be paused, reloaded or stopped mid-stream
// without a second control goroutine.
//
// # Supported Formats
//
// DefaultRegistry picks a decoder by file extension:
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - WAV (PCM 16-bit) via formats/wav
//   - AIFF (PCM 16-bit) via formats/aiff
//
// # Sinks
//
// Decoded blocks go to one of:
//   - sinks/speaker: the default audio device, fed through a ring buffer
//   - sinks/wavfile: a 16-bit WAV file
//   - sinks/null: nothing, only logged
//
// # Quick Start
//
//	ctl, err := controller.Spawn(ctx, controller.Options{Args: []string{"worker"}})
//	if err != nil {
//	    return err
//	}
//	defer ctl.Close()
//
//	if err := ctl.Load("track.mp3"); err != nil {
//	    return err
//	}
//	return ctl.Play()
//
// The worker side is a single call on the process stdin and stdout:
//
//	err := audctl.RunWorker(os.Stdin, os.Stdout, config.Default(), log)
package audctl
