package app

import "fmt"

// State is one of the application FSM states. Idle is the initial state;
// Fault is terminal until an explicit external reset. The internal
// representation is a tagged enum; the bit pattern a state serializes to
// lives entirely at the register encode boundary (pkg/shim).
type State uint8

const (
	StateIdle State = iota
	StateArmed
	StateActive
	StateCooldown
	StateFault
)

var stateNames = map[State]string{
	StateIdle:     "Idle",
	StateArmed:    "Armed",
	StateActive:   "Active",
	StateCooldown: "Cooldown",
	StateFault:    "Fault",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", s)
}

// Mode selects the instrument's operating mode. The raw two-bit register
// encoding reserves one pattern; decode maps it to ModeOff, the safe
// default.
type Mode uint8

const (
	ModeOff Mode = iota
	ModeSingle
	ModeBurst
)

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "Off"
	case ModeSingle:
		return "Single"
	case ModeBurst:
		return "Burst"
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Config is the typed configuration snapshot the shim hands to the driver.
// It crosses the shim/app boundary by value only; the driver never holds a
// live reference into the register file, which is what makes a mid-operation
// configuration update unable to tear in-flight work.
type Config struct {
	Threshold     uint16
	Mode          Mode
	DurationTicks uint16
	SettleTicks   uint16
}

// Inputs are the per-tick signals the driver consumes. Enable is the
// already-computed four-condition gate; Arm, Trigger and Reset are decoded
// host control bits.
type Inputs struct {
	Enable  bool
	Arm     bool
	Trigger bool
	Reset   bool
}

// Status is the driver's per-tick output, encoded into status registers by
// the shim. Progress counts remaining ticks of the current Active or
// Cooldown phase.
type Status struct {
	State    State
	Aborted  bool
	Fault    bool
	Progress uint16
}
