package core

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/shim"
)

// Control register bit values for scripted host writes. These mirror the
// pulse layout's ctrl fields; scenarios speak raw words because they play
// the host side of the boundary.
const (
	ctrlCommit  = 1 << 0
	ctrlArm     = 1 << 1
	ctrlTrigger = 1 << 2
	ctrlAck     = 1 << 3
)

// Pulse layout register indexes, host side.
const (
	regCtrl      = 0
	regThreshold = 1
	regMode      = 2
	regDuration  = 3
	regSettle    = 4
)

// RegWrite is one host register write performed before a tick.
type RegWrite struct {
	Index int
	Value uint16
}

// ScenarioStep is one tick of a scripted run: host writes applied first,
// then the enable inputs for the tick.
type ScenarioStep struct {
	Writes []RegWrite
	Enable shim.EnableInputs
}

// Scenario is a named scripted input sequence for the simulator and tests.
type Scenario struct {
	Name  string
	Steps []ScenarioStep
}

// Source binds the scenario to a core, producing an InputSource that
// performs each step's host writes before handing the tick's inputs to
// the runner.
func (s *Scenario) Source(c *Core) InputSource {
	return &scenarioSource{core: c, steps: s.Steps}
}

type scenarioSource struct {
	core  *Core
	steps []ScenarioStep
	pos   int
}

func (src *scenarioSource) Next(uint64) (TickInputs, bool) {
	if src.pos >= len(src.steps) {
		return TickInputs{}, false
	}
	step := src.steps[src.pos]
	src.pos++
	for _, w := range step.Writes {
		if err := src.core.Registers().HostWrite(w.Index, w.Value); err != nil {
			// Scenario scripts only target control registers; a bad
			// script is a programming error in the scenario itself.
			panic(fmt.Sprintf("core: scenario host write: %v", err))
		}
	}
	return TickInputs{Enable: step.Enable}, true
}

// StaticSource supplies the same enable inputs forever. The CLI uses it
// when the host is driven externally rather than by a script.
type StaticSource struct {
	Enable shim.EnableInputs
}

// Next implements InputSource.
func (s StaticSource) Next(uint64) (TickInputs, bool) {
	return TickInputs{Enable: s.Enable}, true
}

var allEnabled = shim.EnableInputs{ForgeReady: true, UserEnable: true, ClockEnable: true}

func hold(n int, enable shim.EnableInputs) []ScenarioStep {
	steps := make([]ScenarioStep, n)
	for i := range steps {
		steps[i] = ScenarioStep{Enable: enable}
	}
	return steps
}

// BuildSinglePulseScenario scripts one complete pulse: configure, commit,
// arm, trigger, run the duration, settle back to Idle.
func BuildSinglePulseScenario() *Scenario {
	steps := []ScenarioStep{
		// Configure and commit in one tick.
		{Writes: []RegWrite{
			{regThreshold, 0x0200},
			{regMode, 1},
			{regDuration, 4},
			{regSettle, 2},
			{regCtrl, ctrlCommit},
		}, Enable: allEnabled},
		// Drop the commit bit; handshake walks to Idle and the config
		// becomes visible.
		{Writes: []RegWrite{{regCtrl, 0}}, Enable: allEnabled},
	}
	steps = append(steps, hold(2, allEnabled)...)
	steps = append(steps,
		ScenarioStep{Writes: []RegWrite{{regCtrl, ctrlArm}}, Enable: allEnabled},
		ScenarioStep{Writes: []RegWrite{{regCtrl, ctrlTrigger}}, Enable: allEnabled},
		ScenarioStep{Writes: []RegWrite{{regCtrl, 0}}, Enable: allEnabled},
	)
	// Duration plus settle, with slack.
	steps = append(steps, hold(8, allEnabled)...)
	return &Scenario{Name: "single-pulse", Steps: steps}
}

// BuildAbortScenario scripts an enable drop in the middle of an active
// pulse, exercising the abort path.
func BuildAbortScenario() *Scenario {
	s := BuildSinglePulseScenario()
	steps := make([]ScenarioStep, 0, len(s.Steps))
	steps = append(steps, s.Steps[:8]...) // through trigger and one active tick
	disabled := allEnabled
	disabled.UserEnable = false
	steps = append(steps, ScenarioStep{Enable: disabled})
	steps = append(steps, hold(6, allEnabled)...)
	return &Scenario{Name: "abort", Steps: steps}
}

// BuildRecommitScenario scripts a configuration commit while the pulse is
// active: the handshake must hold the update until Cooldown and must apply
// only the latest of two overlapping commits.
func BuildRecommitScenario() *Scenario {
	s := BuildSinglePulseScenario()
	steps := append([]ScenarioStep{}, s.Steps[:7]...) // through trigger, FSM Active

	// First re-commit while active.
	steps = append(steps, ScenarioStep{Writes: []RegWrite{
		{regDuration, 8},
		{regCtrl, ctrlCommit},
	}, Enable: allEnabled})
	steps = append(steps, ScenarioStep{Writes: []RegWrite{{regCtrl, 0}}, Enable: allEnabled})
	// Second, overriding commit, still before the safe point.
	steps = append(steps, ScenarioStep{Writes: []RegWrite{
		{regDuration, 9},
		{regCtrl, ctrlCommit},
	}, Enable: allEnabled})
	steps = append(steps, ScenarioStep{Writes: []RegWrite{{regCtrl, 0}}, Enable: allEnabled})

	steps = append(steps, hold(10, allEnabled)...)
	return &Scenario{Name: "recommit", Steps: steps}
}

// Scenarios returns the built-in scenarios by name, for the CLI.
func Scenarios() map[string]*Scenario {
	out := make(map[string]*Scenario)
	for _, s := range []*Scenario{
		BuildSinglePulseScenario(),
		BuildAbortScenario(),
		BuildRecommitScenario(),
	} {
		out[s.Name] = s
	}
	return out
}
