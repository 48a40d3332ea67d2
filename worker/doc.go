// SPDX-License-Identifier: EPL-2.0

// Package worker implements the playback side of the command channel.
//
// A Worker owns one Session and a sink. It answers every request with
// exactly one response and runs the decoder synchronously on its own
// goroutine. The decoder callbacks poll the channel before each step, so
// PAUSE, LOAD, PING and EXIT are served while audio is being decoded:
//
//	NONE --LOAD--> STOP --PLAY--> PLAY <--PAUSE--> PAUSE
//	                 ^              |
//	                 +--end of stream
//
// A paused worker blocks inside the decoder callback waiting for the next
// command, so resuming continues from the exact stream position. Playback
// failures move the worker to ERROR until a LOAD succeeds; a broken
// channel ends Run.
package worker
