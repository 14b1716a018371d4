// Package shim translates between the raw register file and the typed
// signals of the application core. It owns the decode and encode mappings,
// the four-condition enable gate, and the configuration handshake that
// lets a host update configuration while the application runs without
// tearing an in-flight operation.
package shim

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/app"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"
)

// EnableInputs are the externally supplied conjuncts of the enable gate,
// delivered per tick as an explicit struct rather than reserved register
// bit positions.
type EnableInputs struct {
	ForgeReady  bool
	UserEnable  bool
	ClockEnable bool
}

// AppEnable computes the enable gate for one tick. It is a pure
// conjunction with no memory: a single false input deasserts the result on
// the same tick.
func AppEnable(in EnableInputs, appSpecificReady bool) bool {
	return in.ForgeReady && in.UserEnable && in.ClockEnable && appSpecificReady
}

// Controls are the host intent bits decoded from the control register.
type Controls struct {
	Commit  bool
	Arm     bool
	Trigger bool
	Ack     bool
}

// Shim binds a register file to the application core's typed contract. It
// exclusively owns the file and the handshake state.
type Shim struct {
	regs *regfile.File

	// Resolved once at construction; a layout missing any of these is a
	// configuration error, not a tick-time condition.
	commit, arm, trigger, ack           regfile.FieldRef
	threshold, mode, duration, settle   regfile.FieldRef
	stFSM, stAborted, stFault, progress regfile.FieldRef

	hs         HandshakeState
	live       app.Config
	pending    app.Config
	queued     bool
	prevCommit bool
}

// New binds the shim to a register file, resolving every register field it
// decodes or encodes. Field-width and naming problems surface here, at
// startup.
func New(regs *regfile.File) (*Shim, error) {
	if regs == nil {
		return nil, fmt.Errorf("shim: register file is nil")
	}
	s := &Shim{regs: regs}

	refs := []struct {
		dst      *regfile.FieldRef
		reg, fld string
		dir      regfile.Direction
	}{
		{&s.commit, RegCtrl, FieldCommit, regfile.Control},
		{&s.arm, RegCtrl, FieldArm, regfile.Control},
		{&s.trigger, RegCtrl, FieldTrigger, regfile.Control},
		{&s.ack, RegCtrl, FieldAck, regfile.Control},
		{&s.threshold, RegThreshold, FieldValue, regfile.Control},
		{&s.mode, RegMode, FieldValue, regfile.Control},
		{&s.duration, RegDuration, FieldValue, regfile.Control},
		{&s.settle, RegSettle, FieldValue, regfile.Control},
		{&s.stFSM, RegState, FieldFSM, regfile.Status},
		{&s.stAborted, RegState, FieldAborted, regfile.Status},
		{&s.stFault, RegState, FieldFault, regfile.Status},
		{&s.progress, RegProgress, FieldValue, regfile.Status},
	}
	layout := regs.Layout()
	for _, r := range refs {
		ref, err := layout.Lookup(r.reg, r.fld)
		if err != nil {
			return nil, fmt.Errorf("shim: binding %s.%s: %w", r.reg, r.fld, err)
		}
		if ref.Dir != r.dir {
			return nil, fmt.Errorf("shim: register %s is %s, want %s", r.reg, ref.Dir, r.dir)
		}
		*r.dst = ref
	}

	// FSM state codes occupy 3 bits; status flags occupy 1. Anything
	// narrower would truncate at encode time, so reject it now.
	if s.stFSM.Field.Width() < 3 {
		return nil, fmt.Errorf("shim: %s.%s is %d bits, need 3 for FSM state", RegState, FieldFSM, s.stFSM.Field.Width())
	}
	if s.progress.Field.Width() < regfile.WordBits {
		return nil, fmt.Errorf("shim: %s.%s is %d bits, need %d for progress", RegProgress, FieldValue, s.progress.Field.Width(), regfile.WordBits)
	}

	return s, nil
}

// Registers returns the register file the shim owns, for the host-side
// transport to read and write through.
func (s *Shim) Registers() *regfile.File {
	return s.regs
}

// HandshakeState reports the current handshake state.
func (s *Shim) HandshakeState() HandshakeState {
	return s.hs
}

// LiveConfig returns the configuration snapshot currently exposed to the
// application core.
func (s *Shim) LiveConfig() app.Config {
	return s.live
}

// DecodeConfig reads the control registers into a candidate configuration.
// Decoding is pure and total: every bit pattern maps to a defined value.
// The reserved mode pattern decodes to ModeOff, the safe default, because
// this path runs inside the control loop and must never halt it.
func (s *Shim) DecodeConfig() app.Config {
	return app.Config{
		Threshold:     s.regs.ReadField(s.threshold),
		Mode:          decodeMode(s.regs.ReadField(s.mode)),
		DurationTicks: s.regs.ReadField(s.duration),
		SettleTicks:   s.regs.ReadField(s.settle),
	}
}

func decodeMode(raw uint16) app.Mode {
	switch raw {
	case 1:
		return app.ModeSingle
	case 2:
		return app.ModeBurst
	default:
		// 0 and the reserved pattern 3.
		return app.ModeOff
	}
}

// DecodeControls reads the host intent bits for this tick.
func (s *Shim) DecodeControls() Controls {
	return Controls{
		Commit:  s.regs.ReadField(s.commit) != 0,
		Arm:     s.regs.ReadField(s.arm) != 0,
		Trigger: s.regs.ReadField(s.trigger) != 0,
		Ack:     s.regs.ReadField(s.ack) != 0,
	}
}

// StepHandshake evaluates the handshake once for this tick.
// readyForUpdates is the application core's declaration, as of the start
// of the tick, that applying a new configuration now cannot corrupt
// in-flight work.
//
// commit is edge-triggered; a commit observed while the handshake is not
// Idle overwrites the pending configuration (last-write-wins, queue depth
// one) and, if the current cycle is already applying, restarts the
// handshake from Idle on the next pass so no state is ever skipped.
func (s *Shim) StepHandshake(readyForUpdates bool) {
	ctl := s.DecodeControls()
	commitEdge := ctl.Commit && !s.prevCommit
	s.prevCommit = ctl.Commit

	if commitEdge {
		s.pending = s.DecodeConfig()
	}

	switch s.hs {
	case HandshakeIdle:
		if commitEdge || s.queued {
			s.queued = false
			s.hs = HandshakeUpdatePending
		}
	case HandshakeUpdatePending:
		// request_update is asserted for as long as we sit here; the
		// apply happens the first tick the core is also ready.
		if readyForUpdates {
			s.live = s.pending
			s.hs = HandshakeApplying
		}
	case HandshakeApplying:
		if commitEdge {
			s.queued = true
		}
		s.hs = HandshakeApplied
	case HandshakeApplied:
		if commitEdge {
			s.queued = true
		}
		s.hs = HandshakeIdle
	}
}

// RequestUpdate reports whether the shim is asking the application core
// for a safe point. Internal signal; never encoded into status registers.
func (s *Shim) RequestUpdate() bool {
	return s.hs == HandshakeUpdatePending
}

// EncodeStatus packs the application status into the status registers.
// Lossless for the declared field widths, which New checked at startup.
func (s *Shim) EncodeStatus(st app.Status) error {
	if err := s.regs.WriteField(s.stFSM, uint16(st.State)); err != nil {
		return fmt.Errorf("shim: encode state: %w", err)
	}
	if err := s.regs.WriteField(s.stAborted, boolBit(st.Aborted)); err != nil {
		return fmt.Errorf("shim: encode aborted: %w", err)
	}
	if err := s.regs.WriteField(s.stFault, boolBit(st.Fault)); err != nil {
		return fmt.Errorf("shim: encode fault: %w", err)
	}
	if err := s.regs.WriteField(s.progress, st.Progress); err != nil {
		return fmt.Errorf("shim: encode progress: %w", err)
	}
	return nil
}

// DecodeStatus is the host-side view of the status registers, used by the
// transport layer and by round-trip tests.
func (s *Shim) DecodeStatus() app.Status {
	return app.Status{
		State:    app.State(s.regs.ReadField(s.stFSM)),
		Aborted:  s.regs.ReadField(s.stAborted) != 0,
		Fault:    s.regs.ReadField(s.stFault) != 0,
		Progress: s.regs.ReadField(s.progress),
	}
}

// Reset restores the shim's cold-reset state: handshake Idle, live and
// pending configuration at the safe default, commit edge detector cleared.
// The register file itself is reset by the core.
func (s *Shim) Reset() {
	s.hs = HandshakeIdle
	s.live = app.Config{}
	s.pending = app.Config{}
	s.queued = false
	s.prevCommit = false
}

func boolBit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
