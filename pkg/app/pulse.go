package app

import "fmt"

// Pulse program limits. The upstream configuration validator guarantees
// committed values sit inside these ranges; the checks here are the
// secondary safety net, not the primary gate.
const (
	PulseMaxThreshold = 0xFFF0
	PulseMaxDuration  = 4096
	PulseMaxSettle    = 1024
)

// PulseProgram is the concrete instrument shipped with the core: a pulse
// generator that drives its output for a configured number of ticks once
// armed and triggered, then settles.
type PulseProgram struct{}

// NewPulseProgram returns the pulse generator program.
func NewPulseProgram() *PulseProgram {
	return &PulseProgram{}
}

// Name implements Program.
func (p *PulseProgram) Name() string {
	return "pulse"
}

// Validate implements Program. It re-checks the ranges the upstream
// validator is responsible for.
func (p *PulseProgram) Validate(cfg Config) error {
	if cfg.Mode == ModeOff {
		return fmt.Errorf("app: pulse mode is off")
	}
	if cfg.Threshold > PulseMaxThreshold {
		return fmt.Errorf("app: pulse threshold %d exceeds %d", cfg.Threshold, PulseMaxThreshold)
	}
	if cfg.DurationTicks == 0 || cfg.DurationTicks > PulseMaxDuration {
		return fmt.Errorf("app: pulse duration %d outside 1..%d", cfg.DurationTicks, PulseMaxDuration)
	}
	if cfg.SettleTicks > PulseMaxSettle {
		return fmt.Errorf("app: pulse settle %d exceeds %d", cfg.SettleTicks, PulseMaxSettle)
	}
	return nil
}

// Ready implements Program: the pulse generator is ready once it has been
// configured into an operating mode.
func (p *PulseProgram) Ready(cfg Config) bool {
	return cfg.Mode != ModeOff
}
