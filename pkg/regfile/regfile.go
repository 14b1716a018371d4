// Package regfile models the raw register file shared between an external
// host and the instrument core: an ordered sequence of fixed-width words,
// each declared host-writable (control) or device-writable (status). The
// write APIs enforce the partition so neither side can touch the other's
// subset; there is no locking because there is nothing to lock.
package regfile

import "fmt"

// File is one instrument's register file. Words are addressed by index per
// the layout the file was created from.
type File struct {
	layout *Layout
	dirs   []Direction
	valid  []bool
	words  []uint16
}

// New allocates a register file for the given layout. The layout is
// validated here; an invalid layout is fatal to initialization, never a
// tick-time condition.
func New(layout *Layout) (*File, error) {
	if layout == nil {
		return nil, fmt.Errorf("regfile: layout is nil")
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	size := layout.Size()
	f := &File{
		layout: layout,
		dirs:   make([]Direction, size),
		valid:  make([]bool, size),
		words:  make([]uint16, size),
	}
	for _, reg := range layout.Registers {
		f.dirs[reg.Index] = reg.Dir
		f.valid[reg.Index] = true
	}
	return f, nil
}

// Layout returns the layout the file was built from.
func (f *File) Layout() *Layout {
	return f.layout
}

// Size returns the number of addressable words.
func (f *File) Size() int {
	return len(f.words)
}

// Read returns the current value of a register word. Both sides may read
// any word: the host reads status (and control readback), the device reads
// control.
func (f *File) Read(index int) (uint16, error) {
	if err := f.check(index); err != nil {
		return 0, err
	}
	return f.words[index], nil
}

// HostWrite stores a value into a control register on behalf of the host.
// Writing a status register is an ownership violation and is rejected.
func (f *File) HostWrite(index int, value uint16) error {
	if err := f.check(index); err != nil {
		return err
	}
	if f.dirs[index] != Control {
		return fmt.Errorf("regfile: host write to status register %d", index)
	}
	f.words[index] = value
	return nil
}

// DeviceWrite stores a value into a status register on behalf of the core.
// Writing a control register is an ownership violation and is rejected.
func (f *File) DeviceWrite(index int, value uint16) error {
	if err := f.check(index); err != nil {
		return err
	}
	if f.dirs[index] != Status {
		return fmt.Errorf("regfile: device write to control register %d", index)
	}
	f.words[index] = value
	return nil
}

// ReadField extracts a resolved field's value.
func (f *File) ReadField(ref FieldRef) uint16 {
	return ref.Field.Extract(f.words[ref.Index])
}

// WriteField inserts a value into a resolved field, respecting the
// register's direction for the given writer side.
func (f *File) WriteField(ref FieldRef, value uint16) error {
	word := ref.Field.Insert(f.words[ref.Index], value)
	if ref.Dir == Control {
		return f.HostWrite(ref.Index, word)
	}
	return f.DeviceWrite(ref.Index, word)
}

// Reset zeroes every word. Used for cold reset; all state in the file is
// tick-to-tick volatile.
func (f *File) Reset() {
	for i := range f.words {
		f.words[i] = 0
	}
}

func (f *File) check(index int) error {
	if index < 0 || index >= len(f.words) || !f.valid[index] {
		return fmt.Errorf("regfile: no register at index %d", index)
	}
	return nil
}
