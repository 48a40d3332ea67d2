// SPDX-License-Identifier: EPL-2.0

// Package protocol implements the command channel between a controller and
// its playback worker.
//
// Every message is a frame:
//
//	[kind u8][len u16 little-endian][payload]
//
// with a payload of at most MaxPayload bytes. Requests (PLAY, PAUSE, EXIT,
// LOAD, STATUS, PING) flow from controller to worker; every request is
// answered by exactly one response (PONG, ACK, ERR), in order.
//
// The read side of a Channel must not be buffered: Pending asks the kernel
// whether the descriptor is readable, so bytes sitting in a user-space
// buffer would be invisible to it.
package protocol
