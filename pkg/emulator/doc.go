// Package emulator provides a software stand-in for a pair of glasses.
//
// Glasses holds the device state (display, settings, stored images,
// fonts, animations and configurations) and answers decoded commands
// the way the firmware does: query commands produce the matching
// response, state commands mutate the emulator, and failures surface
// as asynchronous error responses.
//
// Serve pumps a transport.Server against a Glasses instance, echoing
// the query ID of each command into its response. The emulator is used
// by cmd/glasses-emu behind a TCP bridge and by tests that need a
// responding peer.
package emulator
