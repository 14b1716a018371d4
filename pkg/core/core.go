// Package core composes the register shim and the application FSM into the
// synchronous tick pipeline. One call to Step is one tick; within a tick
// the order is fixed: decode, enable gate, handshake evaluation, FSM
// transition, status encode. There is no concurrency inside the pipeline;
// a driver (the Runner, a test, or host tooling) calls Step at whatever
// rate the instrument requires.
package core

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/app"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/shim"
)

// TickInputs are the externally supplied signals for one tick.
type TickInputs struct {
	Enable shim.EnableInputs
}

// TickOutputs summarize one tick for the caller. The authoritative status
// lives in the status registers; this is the typed view of the same tick.
// Config is the snapshot the FSM evaluated, taken at the start of the
// tick; a handshake apply within the tick shows up in the next tick's
// Config, never this one's.
type TickOutputs struct {
	Enabled   bool
	Handshake shim.HandshakeState
	Status    app.Status
	Config    app.Config
}

// Core is one instrument: a register file, the shim bound to it, and the
// application FSM driver.
type Core struct {
	regs   *regfile.File
	shim   *shim.Shim
	driver *app.Driver
	tick   uint64
}

// New builds a core for the given layout and instrument program. All
// static configuration errors (layout validation, field binding, width
// checks) surface here.
func New(layout *regfile.Layout, prog app.Program) (*Core, error) {
	regs, err := regfile.New(layout)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	sh, err := shim.New(regs)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	drv, err := app.NewDriver(prog)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	return &Core{regs: regs, shim: sh, driver: drv}, nil
}

// Registers exposes the register file for the host-side transport.
func (c *Core) Registers() *regfile.File {
	return c.regs
}

// Tick reports how many ticks have been evaluated since the last reset.
func (c *Core) Tick() uint64 {
	return c.tick
}

// State reports the application FSM state.
func (c *Core) State() app.State {
	return c.driver.State()
}

// HandshakeState reports the shim's handshake state.
func (c *Core) HandshakeState() shim.HandshakeState {
	return c.shim.HandshakeState()
}

// LiveConfig reports the configuration currently exposed to the FSM.
func (c *Core) LiveConfig() app.Config {
	return c.shim.LiveConfig()
}

// FaultReason reports why the FSM faulted, if it did.
func (c *Core) FaultReason() string {
	return c.driver.FaultReason()
}

// Step evaluates one tick. The FSM sees the configuration value as of the
// start of the tick: a handshake apply in this tick becomes visible on the
// next one.
func (c *Core) Step(in TickInputs) TickOutputs {
	cfg := c.shim.LiveConfig()

	enabled := shim.AppEnable(in.Enable, c.driver.ProgramReady(cfg))

	c.shim.StepHandshake(c.driver.ReadyForUpdates())

	ctl := c.shim.DecodeControls()
	st := c.driver.Step(cfg, app.Inputs{
		Enable:  enabled,
		Arm:     ctl.Arm,
		Trigger: ctl.Trigger,
		Reset:   ctl.Ack,
	})

	// Encode cannot fail at tick time: the shim's field bindings were
	// width-checked at startup and target only status registers.
	if err := c.shim.EncodeStatus(st); err != nil {
		panic(fmt.Sprintf("core: status encode failed after startup validation: %v", err))
	}

	c.tick++
	return TickOutputs{Enabled: enabled, Handshake: c.shim.HandshakeState(), Status: st, Config: cfg}
}

// ForceFault drives the FSM to Fault and encodes the resulting status
// immediately so the host sees the fault bit without waiting for the next
// tick. Used for missed-deadline conditions.
func (c *Core) ForceFault(reason string) {
	c.driver.ForceFault(reason)
	st := app.Status{State: app.StateFault, Fault: true}
	if err := c.shim.EncodeStatus(st); err != nil {
		panic(fmt.Sprintf("core: status encode failed after startup validation: %v", err))
	}
}

// Reset is the cold reset: handshake Idle, FSM Idle, configuration at the
// safe default, register file zeroed, tick counter cleared. Nothing is
// persisted; every tick reconstructs its view from the register file plus
// this state.
func (c *Core) Reset() {
	c.regs.Reset()
	c.shim.Reset()
	c.driver.Reset()
	c.tick = 0
}
