package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/app"
)

// InputSource supplies the per-tick external signals while the runner
// drives the core. Implementations include scripted scenarios and the
// CLI's static-enable source.
type InputSource interface {
	// Next returns the inputs for the given tick and whether the source
	// has more ticks to supply. The runner stops after the source is
	// exhausted.
	Next(tick uint64) (TickInputs, bool)
}

// Runner drives a core at a fixed tick rate, preserving the synchronous
// model: each tick's computation must finish before the next tick is due.
// An overrun violates the model and faults the FSM; timing violations in a
// hardware-adjacent control path cannot be retried after the fact.
type Runner struct {
	core   *Core
	period time.Duration
	source InputSource

	// ID correlates this run session in host-side logs.
	ID uuid.UUID

	// Log receives per-tick transition lines when non-nil.
	Log io.Writer

	now func() time.Time
}

// NewRunner creates a runner with a fresh session ID.
func NewRunner(c *Core, period time.Duration, source InputSource) (*Runner, error) {
	if period <= 0 {
		return nil, fmt.Errorf("core: tick period must be positive, got %v", period)
	}
	if source == nil {
		return nil, fmt.Errorf("core: input source is nil")
	}
	return &Runner{
		core:   c,
		period: period,
		source: source,
		ID:     uuid.New(),
		now:    time.Now,
	}, nil
}

// Run steps the core once per period until the context is cancelled, the
// input source is exhausted, or the FSM faults. It returns the error that
// stopped it, or nil when the source ran out.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	prevState := r.core.State()
	for {
		in, ok := r.source.Next(r.core.Tick())
		if !ok {
			return nil
		}

		start := r.now()
		out := r.core.Step(in)
		if overrun := r.now().Sub(start); overrun > r.period {
			r.core.ForceFault(fmt.Sprintf("missed tick deadline: step took %v, period %v", overrun, r.period))
			return fmt.Errorf("core: run %s: missed tick deadline at tick %d", r.ID, r.core.Tick())
		}

		if r.Log != nil && out.Status.State != prevState {
			fmt.Fprintf(r.Log, "tick %d: %s -> %s (handshake %s)\n",
				r.core.Tick(), prevState, out.Status.State, out.Handshake)
		}
		prevState = out.Status.State

		if out.Status.State == app.StateFault {
			return fmt.Errorf("core: run %s: fsm faulted: %s", r.ID, r.core.FaultReason())
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
