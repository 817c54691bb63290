// Package slot implements the three-phase transmission schedule. Devices are
// split into three classes by sid mod 3. Each class owns one 1-second
// sub-slot of every 3-second frame:
//
//	phase (now mod 3):   0        1        2
//	owner class:        sid%3=1  sid%3=2  sid%3=0
package slot

import (
	"log"
	"math"
)

const (
	// Frame is the length of a full slot rotation in seconds.
	Frame = 3

	// Guard is added to every slot delay so that a device never transmits
	// exactly on a slot boundary.
	Guard = 0.1

	// Cooldown is the minimum spacing between two medium accesses of the
	// same device.
	Cooldown = 3.0

	// wholeSecondTolerance absorbs floating-point drift when converting a
	// virtual time into whole seconds.
	wholeSecondTolerance = 1e-6
)

// HomePhase returns the phase in which the device with the given sid may
// transmit.
func HomePhase(sid uint16) int64 {
	return (int64(sid%Frame) + Frame - 1) % Frame
}

// Phase returns the phase of a whole-second time.
func Phase(currentSeconds int64) int64 {
	if currentSeconds < 0 {
		log.Panicf("slot: negative time %d", currentSeconds)
	}

	return currentSeconds % Frame
}

// Wait returns the whole number of seconds, 0, 1 or 2, until the home phase
// of the device begins.
func Wait(currentSeconds int64, sid uint16) int64 {
	return (HomePhase(sid) - Phase(currentSeconds) + Frame) % Frame
}

// Delay returns how long the device should wait, starting from
// currentSeconds, before it accesses the medium.
func Delay(currentSeconds int64, sid uint16) float64 {
	return float64(Wait(currentSeconds, sid)) + Guard
}

// WholeSeconds converts a virtual time to whole seconds by rounding down,
// tolerating small floating-point errors just below an integer.
func WholeSeconds(now float64) int64 {
	if now < 0 || math.IsNaN(now) || math.IsInf(now, 0) {
		log.Panicf("slot: invalid time %v", now)
	}

	return int64(math.Floor(now + wholeSecondTolerance))
}

// DelayAt returns how long the device should wait, starting from the
// virtual time now, so that the send lands inside its home sub-slot. Inside
// the home phase the device sends Guard after now if that is still before
// the sub-slot ends, and otherwise waits for the next frame. Outside the
// home phase it sends Guard after the home sub-slot starts. With a whole
// second now, this is the same as Delay.
func DelayAt(now float64, sid uint16) float64 {
	sec := WholeSeconds(now)
	offset := math.Max(now-float64(sec), 0)
	wait := Wait(sec, sid)

	if wait > 0 {
		return float64(wait) + Guard - offset
	}

	if offset+Guard < 1-wholeSecondTolerance {
		return Guard
	}

	return Frame + Guard - offset
}
