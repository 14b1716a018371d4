package regmap

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RegmapLexer defines the lexical structure of .regmap files: a small
// line-oriented declaration language for instrument register maps.
var RegmapLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from # to end of line.
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Keywords
	{Name: "KwRegmap", Pattern: `\bregmap\b`},
	{Name: "KwVersion", Pattern: `\bversion\b`},
	{Name: "KwRegister", Pattern: `\bregister\b`},
	{Name: "KwControl", Pattern: `\bcontrol\b`},
	{Name: "KwStatus", Pattern: `\bstatus\b`},
	{Name: "KwField", Pattern: `\bfield\b`},

	// Punctuation
	{Name: "Colon", Pattern: `:`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},

	// Literals
	{Name: "Integer", Pattern: `[0-9]+`},

	// Identifiers (must come after keywords)
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
