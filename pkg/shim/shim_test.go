package shim

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/app"
	"github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"
)

func newTestShim(t *testing.T) *Shim {
	t.Helper()
	regs, err := regfile.New(PulseLayout())
	if err != nil {
		t.Fatalf("regfile.New returned error: %v", err)
	}
	s, err := New(regs)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func hostWriteConfig(t *testing.T, s *Shim, threshold, mode, duration, settle uint16) {
	t.Helper()
	regs := s.Registers()
	for _, w := range []struct {
		index int
		value uint16
	}{
		{1, threshold},
		{2, mode},
		{3, duration},
		{4, settle},
	} {
		if err := regs.HostWrite(w.index, w.value); err != nil {
			t.Fatalf("HostWrite(%d) returned error: %v", w.index, err)
		}
	}
}

func setCommit(t *testing.T, s *Shim, on bool) {
	t.Helper()
	word, err := s.Registers().Read(0)
	if err != nil {
		t.Fatalf("Read(ctrl) returned error: %v", err)
	}
	if on {
		word |= 1
	} else {
		word &^= 1
	}
	if err := s.Registers().HostWrite(0, word); err != nil {
		t.Fatalf("HostWrite(ctrl) returned error: %v", err)
	}
}

func TestAppEnableExactConjunction(t *testing.T) {
	// Every one of the 16 input combinations; no hysteresis to test
	// because the function has no state to carry.
	for bits := 0; bits < 16; bits++ {
		in := EnableInputs{
			ForgeReady:  bits&1 != 0,
			UserEnable:  bits&2 != 0,
			ClockEnable: bits&4 != 0,
		}
		appReady := bits&8 != 0
		want := in.ForgeReady && in.UserEnable && in.ClockEnable && appReady
		if got := AppEnable(in, appReady); got != want {
			t.Fatalf("AppEnable(%+v, %v) = %v, want %v", in, appReady, got, want)
		}
	}
}

func TestScenarioAForgeReadyAloneDoesNotEnable(t *testing.T) {
	in := EnableInputs{ForgeReady: true, UserEnable: false, ClockEnable: true}
	if AppEnable(in, true) {
		t.Fatal("app_enable = true with user_enable deasserted")
	}
}

func TestDecodeConfigSafeDefaults(t *testing.T) {
	s := newTestShim(t)

	// All-zero registers decode to the documented safe default.
	cfg := s.DecodeConfig()
	if cfg != (app.Config{}) {
		t.Fatalf("DecodeConfig on zero file = %+v, want zero config", cfg)
	}

	// The reserved mode pattern (3) decodes to Off, never an error.
	hostWriteConfig(t, s, 0x0100, 3, 10, 2)
	cfg = s.DecodeConfig()
	if cfg.Mode != app.ModeOff {
		t.Fatalf("reserved mode pattern decoded to %s, want Off", cfg.Mode)
	}
	if cfg.Threshold != 0x0100 || cfg.DurationTicks != 10 || cfg.SettleTicks != 2 {
		t.Fatalf("DecodeConfig = %+v, want threshold 0x0100 duration 10 settle 2", cfg)
	}
}

func TestHandshakeAppliesOnlyAtSafePoint(t *testing.T) {
	s := newTestShim(t)
	hostWriteConfig(t, s, 0x0200, 1, 5, 1)
	setCommit(t, s, true)

	// Commit observed while the core is busy: UpdatePending, and the live
	// config must not change while we stay there.
	s.StepHandshake(false)
	if s.HandshakeState() != HandshakeUpdatePending {
		t.Fatalf("HandshakeState = %s, want UpdatePending", s.HandshakeState())
	}
	if !s.RequestUpdate() {
		t.Fatal("RequestUpdate() = false in UpdatePending")
	}
	for i := 0; i < 3; i++ {
		s.StepHandshake(false)
		if s.HandshakeState() != HandshakeUpdatePending {
			t.Fatalf("HandshakeState left UpdatePending to %s while core busy", s.HandshakeState())
		}
		if s.LiveConfig() != (app.Config{}) {
			t.Fatalf("live config changed to %+v before safe point", s.LiveConfig())
		}
	}

	// The first tick both request_update and ready_for_updates hold, the
	// pending config becomes live and the state walks Applying -> Applied
	// -> Idle without skipping.
	s.StepHandshake(true)
	if s.HandshakeState() != HandshakeApplying {
		t.Fatalf("HandshakeState = %s, want Applying", s.HandshakeState())
	}
	want := app.Config{Threshold: 0x0200, Mode: app.ModeSingle, DurationTicks: 5, SettleTicks: 1}
	if s.LiveConfig() != want {
		t.Fatalf("LiveConfig = %+v, want %+v", s.LiveConfig(), want)
	}
	s.StepHandshake(true)
	if s.HandshakeState() != HandshakeApplied {
		t.Fatalf("HandshakeState = %s, want Applied", s.HandshakeState())
	}
	s.StepHandshake(true)
	if s.HandshakeState() != HandshakeIdle {
		t.Fatalf("HandshakeState = %s, want Idle", s.HandshakeState())
	}
}

func TestCommitIsEdgeTriggered(t *testing.T) {
	s := newTestShim(t)
	setCommit(t, s, true)
	s.StepHandshake(true)

	// Walk the full cycle with the commit bit still held high; the level
	// must not start a second handshake.
	for i := 0; i < 4; i++ {
		s.StepHandshake(true)
	}
	if s.HandshakeState() != HandshakeIdle {
		t.Fatalf("held commit bit re-triggered handshake, state = %s", s.HandshakeState())
	}

	// A fresh edge does.
	setCommit(t, s, false)
	s.StepHandshake(true)
	setCommit(t, s, true)
	s.StepHandshake(true)
	if s.HandshakeState() != HandshakeUpdatePending {
		t.Fatalf("HandshakeState = %s, want UpdatePending after new edge", s.HandshakeState())
	}
}

func TestScenarioEOverlappingCommitsLastWriteWins(t *testing.T) {
	s := newTestShim(t)

	// First commit while the core is busy.
	hostWriteConfig(t, s, 0x0001, 1, 5, 1)
	setCommit(t, s, true)
	s.StepHandshake(false)
	if s.HandshakeState() != HandshakeUpdatePending {
		t.Fatalf("HandshakeState = %s, want UpdatePending", s.HandshakeState())
	}

	// Second commit with a different config, still busy. Needs a new
	// edge, so drop the bit for one tick first.
	setCommit(t, s, false)
	s.StepHandshake(false)
	hostWriteConfig(t, s, 0x0002, 2, 7, 3)
	setCommit(t, s, true)
	s.StepHandshake(false)

	// Only the second value is ever applied.
	s.StepHandshake(true)
	want := app.Config{Threshold: 0x0002, Mode: app.ModeBurst, DurationTicks: 7, SettleTicks: 3}
	if s.LiveConfig() != want {
		t.Fatalf("LiveConfig = %+v, want latest commit %+v", s.LiveConfig(), want)
	}
}

func TestCommitDuringApplyRestartsFromIdle(t *testing.T) {
	s := newTestShim(t)
	hostWriteConfig(t, s, 0x0001, 1, 5, 1)
	setCommit(t, s, true)
	s.StepHandshake(true) // Idle -> UpdatePending
	s.StepHandshake(true) // -> Applying (applies first config)
	setCommit(t, s, false)
	s.StepHandshake(true) // -> Applied

	// New commit lands while Applied.
	hostWriteConfig(t, s, 0x0009, 2, 2, 1)
	setCommit(t, s, true)
	s.StepHandshake(true) // -> Idle, second commit queued
	if s.HandshakeState() != HandshakeIdle {
		t.Fatalf("HandshakeState = %s, want Idle", s.HandshakeState())
	}

	s.StepHandshake(true) // queued commit starts a fresh cycle
	if s.HandshakeState() != HandshakeUpdatePending {
		t.Fatalf("HandshakeState = %s, want UpdatePending for queued commit", s.HandshakeState())
	}
	s.StepHandshake(true)
	if got := s.LiveConfig().Threshold; got != 0x0009 {
		t.Fatalf("queued commit applied threshold %#04x, want 0x0009", got)
	}
}

func TestStatusRoundTrip(t *testing.T) {
	s := newTestShim(t)
	cases := []app.Status{
		{State: app.StateIdle},
		{State: app.StateActive, Progress: 1234},
		{State: app.StateCooldown, Aborted: true, Progress: 7},
		{State: app.StateFault, Fault: true},
	}
	for _, want := range cases {
		if err := s.EncodeStatus(want); err != nil {
			t.Fatalf("EncodeStatus(%+v) returned error: %v", want, err)
		}
		if got := s.DecodeStatus(); got != want {
			t.Fatalf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestNewRejectsNarrowStatusFields(t *testing.T) {
	layout := PulseLayout()
	// Shrink the FSM state field below the 3 bits five states need.
	for i := range layout.Registers {
		if layout.Registers[i].Name != RegState {
			continue
		}
		layout.Registers[i].Fields[0] = regfile.Field{Name: FieldFSM, Hi: 1, Lo: 0}
	}
	regs, err := regfile.New(layout)
	if err != nil {
		t.Fatalf("regfile.New returned error: %v", err)
	}
	if _, err := New(regs); err == nil {
		t.Fatal("New accepted a 2-bit FSM state field, want startup error")
	}
}

func TestShimReset(t *testing.T) {
	s := newTestShim(t)
	hostWriteConfig(t, s, 0x0300, 1, 5, 1)
	setCommit(t, s, true)
	s.StepHandshake(true)
	s.StepHandshake(true)

	s.Reset()
	if s.HandshakeState() != HandshakeIdle {
		t.Fatalf("HandshakeState after reset = %s, want Idle", s.HandshakeState())
	}
	if s.LiveConfig() != (app.Config{}) {
		t.Fatalf("LiveConfig after reset = %+v, want safe default", s.LiveConfig())
	}
}
