package regfile

import "fmt"

// WordBits is the width of every register word in the file. All forge
// instruments use 16-bit registers.
const WordBits = 16

// Direction declares which side of the host/device boundary may write a
// register. The partition is the concurrency mechanism: control and status
// registers are disjoint sets, so no word is ever written by both sides.
type Direction int

const (
	// Control registers are host-writable and device-read.
	Control Direction = iota
	// Status registers are device-writable and host-read.
	Status
)

func (d Direction) String() string {
	switch d {
	case Control:
		return "control"
	case Status:
		return "status"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Field names a contiguous bit range [Hi:Lo] within a register word.
type Field struct {
	Name string
	Hi   uint
	Lo   uint
}

// Width returns the number of bits the field spans.
func (f Field) Width() uint {
	return f.Hi - f.Lo + 1
}

// Mask returns the field's bit mask positioned within the word.
func (f Field) Mask() uint16 {
	return uint16((1<<f.Width())-1) << f.Lo
}

// Extract reads the field's value out of a register word.
func (f Field) Extract(word uint16) uint16 {
	return (word & f.Mask()) >> f.Lo
}

// Insert returns word with the field replaced by value. Values wider than
// the field are truncated to the declared width; callers that need lossless
// encoding must declare fields wide enough, which Layout.Validate checks
// against the word size at startup.
func (f Field) Insert(word, value uint16) uint16 {
	return (word &^ f.Mask()) | ((value << f.Lo) & f.Mask())
}

// Register declares one word of the register file: its index, name,
// direction, and named bit fields.
type Register struct {
	Index  int
	Name   string
	Dir    Direction
	Fields []Field
}

// Layout is the fixed, versioned register map for one concrete instrument.
// It is declared once (programmatically or via a .regmap file) and is
// load-bearing for both decode and encode; any change is a breaking
// interface change, which is why Version travels with it.
type Layout struct {
	Name      string
	Version   int
	Registers []Register
}

// FieldRef is a resolved (register index, field) pair, precomputed once so
// per-tick decode and encode never search the layout.
type FieldRef struct {
	Index int
	Dir   Direction
	Field Field
}

// Validate checks the layout's static well-formedness: unique register
// indexes and names, fields that fit the word, and non-overlapping fields.
// A field wider than its register slot is a configuration error caught
// here, at startup, never at tick time.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("regfile: layout has no name")
	}
	if l.Version <= 0 {
		return fmt.Errorf("regfile: layout %s has no version", l.Name)
	}
	seenIdx := make(map[int]string)
	seenName := make(map[string]int)
	for _, reg := range l.Registers {
		if reg.Index < 0 {
			return fmt.Errorf("regfile: register %s has negative index %d", reg.Name, reg.Index)
		}
		if prev, ok := seenIdx[reg.Index]; ok {
			return fmt.Errorf("regfile: registers %s and %s share index %d", prev, reg.Name, reg.Index)
		}
		seenIdx[reg.Index] = reg.Name
		if _, ok := seenName[reg.Name]; ok {
			return fmt.Errorf("regfile: duplicate register name %s", reg.Name)
		}
		seenName[reg.Name] = reg.Index

		var used uint16
		names := make(map[string]struct{})
		for _, f := range reg.Fields {
			if f.Hi < f.Lo {
				return fmt.Errorf("regfile: %s.%s has inverted range [%d:%d]", reg.Name, f.Name, f.Hi, f.Lo)
			}
			if f.Hi >= WordBits {
				return fmt.Errorf("regfile: %s.%s bit %d exceeds %d-bit word", reg.Name, f.Name, f.Hi, WordBits)
			}
			if _, ok := names[f.Name]; ok {
				return fmt.Errorf("regfile: duplicate field %s in register %s", f.Name, reg.Name)
			}
			names[f.Name] = struct{}{}
			if used&f.Mask() != 0 {
				return fmt.Errorf("regfile: field %s overlaps another field in register %s", f.Name, reg.Name)
			}
			used |= f.Mask()
		}
	}
	return nil
}

// Lookup resolves a register/field name pair into a FieldRef. Missing
// registers or fields are startup configuration errors.
func (l *Layout) Lookup(register, field string) (FieldRef, error) {
	for _, reg := range l.Registers {
		if reg.Name != register {
			continue
		}
		for _, f := range reg.Fields {
			if f.Name == field {
				return FieldRef{Index: reg.Index, Dir: reg.Dir, Field: f}, nil
			}
		}
		return FieldRef{}, fmt.Errorf("regfile: register %s has no field %s", register, field)
	}
	return FieldRef{}, fmt.Errorf("regfile: layout %s has no register %s", l.Name, register)
}

// Size returns the number of words a File needs to hold every declared
// register (highest index plus one).
func (l *Layout) Size() int {
	max := -1
	for _, reg := range l.Registers {
		if reg.Index > max {
			max = reg.Index
		}
	}
	return max + 1
}
