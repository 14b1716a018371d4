// Package hostlink is the host side of the register boundary. The core
// never sees it: hosts read and write registers through a Link, and the
// register file's control/status partition decides what each side may
// touch. The physical transport (USB bridge, memory-mapped window) lives
// behind the Link interface; this package ships the simulator
// implementation and USB adapter discovery.
package hostlink

import (
	"context"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"
)

// Link is a host's register transport to one instrument.
type Link interface {
	// ReadRegister returns the current value of the register word.
	ReadRegister(ctx context.Context, index int) (uint16, error)
	// WriteRegister stores a value into a control register. Writes to
	// status registers fail: those words belong to the device.
	WriteRegister(ctx context.Context, index int, value uint16) error
	// Close releases the transport.
	Close() error
}

// SimLink is the simulator transport: direct host access to an in-process
// register file. Ticking the core stays with the caller; the link only
// moves register words, like a real transport would.
type SimLink struct {
	regs *regfile.File
}

// NewSimLink creates a simulator link over a register file.
func NewSimLink(regs *regfile.File) (*SimLink, error) {
	if regs == nil {
		return nil, fmt.Errorf("hostlink: register file is nil")
	}
	return &SimLink{regs: regs}, nil
}

// ReadRegister implements Link.
func (l *SimLink) ReadRegister(ctx context.Context, index int) (uint16, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.regs.Read(index)
}

// WriteRegister implements Link. The host-write restriction to control
// registers is enforced by the register file itself.
func (l *SimLink) WriteRegister(ctx context.Context, index int, value uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.regs.HostWrite(index, value)
}

// Close implements Link.
func (l *SimLink) Close() error {
	return nil
}
