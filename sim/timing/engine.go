// Package timing provides the discrete event engine that drives the
// simulation. All state changes happen inside event handlers, one event at a
// time, in virtual time order.
package timing

import (
	"github.com/sarchlab/lwsn/sim/hooking"
)

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInSec
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	// Schedule registers an event. Events with the same time are handled in
	// the order they are scheduled.
	Schedule(e Event)

	// Cancel removes a pending event. It returns false if the event has
	// already been handled or was never scheduled.
	Cancel(e Event) bool
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run will process all the events until the simulation finishes
	Run() error

	// RunUntil processes all the events that happen no later than the given
	// time. Later events stay in the queue.
	RunUntil(limit VTimeInSec) error

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()
}
