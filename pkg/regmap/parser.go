// Package regmap parses .regmap files, the declaration language for a
// concrete instrument's register layout. The parsed map compiles into a
// regfile.Layout, which is validated before any register file is built
// from it — layout mistakes are startup errors, never tick-time ones.
package regmap

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceForge/pkg/regfile"
)

// Parser parses .regmap files.
type Parser struct {
	parser *participle.Parser[MapFile]
}

// NewParser creates a regmap parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[MapFile](
		participle.Lexer(RegmapLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("regmap: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a register map from a reader.
func (p *Parser) Parse(r io.Reader) (*MapFile, error) {
	mf, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("regmap: parse error: %w", err)
	}
	return mf, nil
}

// ParseString parses a register map from a string.
func (p *Parser) ParseString(input string) (*MapFile, error) {
	mf, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("regmap: parse error: %w", err)
	}
	return mf, nil
}

// ParseFile parses a register map from a file path.
func (p *Parser) ParseFile(filename string) (*MapFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("regmap: failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Compile converts a parsed map into a validated regfile.Layout.
func (mf *MapFile) Compile() (*regfile.Layout, error) {
	layout := &regfile.Layout{
		Name:    mf.Name,
		Version: mf.Version,
	}
	for _, reg := range mf.Registers {
		var dir regfile.Direction
		switch reg.Dir {
		case "control":
			dir = regfile.Control
		case "status":
			dir = regfile.Status
		default:
			return nil, fmt.Errorf("regmap: register %s has unknown direction %q", reg.Name, reg.Dir)
		}

		fields := make([]regfile.Field, 0, len(reg.Fields))
		for _, f := range reg.Fields {
			hi, lo := f.Hi, f.Hi
			if f.Lo != nil {
				lo = *f.Lo
			}
			if hi < 0 || lo < 0 {
				return nil, fmt.Errorf("regmap: field %s.%s has negative bit position", reg.Name, f.Name)
			}
			fields = append(fields, regfile.Field{Name: f.Name, Hi: uint(hi), Lo: uint(lo)})
		}

		layout.Registers = append(layout.Registers, regfile.Register{
			Index:  reg.Index,
			Name:   reg.Name,
			Dir:    dir,
			Fields: fields,
		})
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("regmap: %s: %w", mf.Name, err)
	}
	return layout, nil
}

// LoadLayout parses and compiles a .regmap file in one step.
func LoadLayout(filename string) (*regfile.Layout, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	mf, err := p.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return mf.Compile()
}
