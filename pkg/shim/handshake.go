package shim

import "fmt"

// HandshakeState governs when a committed configuration may replace the
// one visible to the application core. It is created at reset in
// HandshakeIdle and never skips states.
type HandshakeState uint8

const (
	HandshakeIdle HandshakeState = iota
	HandshakeUpdatePending
	HandshakeApplying
	HandshakeApplied
)

var handshakeNames = map[HandshakeState]string{
	HandshakeIdle:          "Idle",
	HandshakeUpdatePending: "UpdatePending",
	HandshakeApplying:      "Applying",
	HandshakeApplied:       "Applied",
}

func (s HandshakeState) String() string {
	if name, ok := handshakeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("HandshakeState(%d)", s)
}
