// Package app is the application side of the instrument core: a generic
// finite-state-machine driver parameterized by a concrete instrument
// Program. It operates exclusively on the typed Config handed to it each
// tick and has zero knowledge of register layout.
package app

import "fmt"

// Program is the per-instrument behavior plugged into the generic Driver.
type Program interface {
	// Name identifies the instrument.
	Name() string
	// Validate is the defense-in-depth range check on a config the
	// upstream validator already vetted. A non-nil error faults the FSM.
	Validate(cfg Config) error
	// Ready reports the instrument's own precondition for running, the
	// fourth conjunct of the enable gate. Its meaning is instrument
	// specific and opaque to the driver.
	Ready(cfg Config) bool
}

// Driver steps the application FSM once per tick. It advances only while
// the enable gate holds; while disabled it sits in a safe state, with the
// single exception of the Active abort path.
type Driver struct {
	prog Program

	state     State
	remaining uint16
	settle    uint16
	aborted   bool
	faultMsg  string
}

// NewDriver creates a driver in Idle.
func NewDriver(prog Program) (*Driver, error) {
	if prog == nil {
		return nil, fmt.Errorf("app: program is nil")
	}
	return &Driver{prog: prog}, nil
}

// State reports the current FSM state.
func (d *Driver) State() State {
	return d.state
}

// ReadyForUpdates reports whether applying a new configuration now cannot
// corrupt in-flight work. True in Idle and Cooldown only.
func (d *Driver) ReadyForUpdates() bool {
	return d.state == StateIdle || d.state == StateCooldown
}

// ProgramReady reports the instrument's app-specific enable conjunct for
// the given config snapshot.
func (d *Driver) ProgramReady(cfg Config) bool {
	return d.prog.Ready(cfg)
}

// FaultReason returns the message recorded when the FSM entered Fault, or
// "" if it never did.
func (d *Driver) FaultReason() string {
	return d.faultMsg
}

// ForceFault drives the FSM to Fault from any state. Used by the tick
// runner for missed-deadline conditions, which cannot be retried.
func (d *Driver) ForceFault(reason string) {
	d.fault(reason)
}

// Reset is the cold reset: back to Idle with all phase state cleared.
func (d *Driver) Reset() {
	d.state = StateIdle
	d.remaining = 0
	d.settle = 0
	d.aborted = false
	d.faultMsg = ""
}

// Step advances the FSM one tick from the given config snapshot and
// inputs, returning the status for this tick. The config is the value as
// of the start of the tick; the caller guarantees no same-tick
// read-after-write across the shim boundary.
func (d *Driver) Step(cfg Config, in Inputs) Status {
	// Explicit external reset wins over everything, including Fault.
	// It is the only way out of Fault.
	if in.Reset {
		d.Reset()
		return d.status()
	}

	if d.state == StateFault {
		return d.status()
	}

	if !in.Enable {
		d.stepDisabled(cfg)
		return d.status()
	}

	switch d.state {
	case StateIdle:
		if in.Arm {
			if err := d.prog.Validate(cfg); err != nil {
				d.fault(fmt.Sprintf("arm with invalid config: %v", err))
				break
			}
			d.state = StateArmed
		}
	case StateArmed:
		if in.Trigger {
			if err := d.prog.Validate(cfg); err != nil {
				d.fault(fmt.Sprintf("trigger with invalid config: %v", err))
				break
			}
			d.state = StateActive
			d.remaining = cfg.DurationTicks
			d.aborted = false
		}
	case StateActive:
		if d.remaining > 0 {
			d.remaining--
		}
		if d.remaining == 0 {
			d.enterCooldown(cfg, false)
		}
	case StateCooldown:
		if d.settle > 0 {
			d.settle--
		}
		if d.settle == 0 {
			d.state = StateIdle
			d.aborted = false
		}
	}

	return d.status()
}

// stepDisabled handles a deasserted enable gate. Active must not freeze
// mid-action: it aborts into Cooldown so external hardware is never left
// in an undefined driven state. Armed disarms back to Idle. Everything
// else holds.
func (d *Driver) stepDisabled(cfg Config) {
	switch d.state {
	case StateActive:
		d.enterCooldown(cfg, true)
	case StateArmed:
		d.state = StateIdle
	}
}

func (d *Driver) enterCooldown(cfg Config, aborted bool) {
	d.state = StateCooldown
	d.remaining = 0
	d.settle = cfg.SettleTicks
	d.aborted = aborted
	if d.settle == 0 {
		// Nothing to settle; fall through to Idle next tick via the
		// normal Cooldown step so the state sequence never skips.
		d.settle = 1
	}
}

func (d *Driver) fault(reason string) {
	d.state = StateFault
	d.faultMsg = reason
	d.remaining = 0
	d.settle = 0
}

func (d *Driver) status() Status {
	progress := d.remaining
	if d.state == StateCooldown {
		progress = d.settle
	}
	return Status{
		State:    d.state,
		Aborted:  d.aborted,
		Fault:    d.state == StateFault,
		Progress: progress,
	}
}
