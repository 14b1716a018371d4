package regmap

// MapFile is the parse tree of one .regmap file: a named, versioned
// register map followed by register declarations.
//
// Example:
//
//	regmap pulse version 1
//
//	register 0 ctrl control {
//	    field commit  0
//	    field arm     1
//	}
//	register 1 threshold control {
//	    field value 15:0
//	}
type MapFile struct {
	Name      string          `parser:"KwRegmap @Ident"`
	Version   int             `parser:"KwVersion @Integer"`
	Registers []*RegisterDecl `parser:"@@*"`
}

// RegisterDecl declares one register word: index, name, direction, and
// its fields.
type RegisterDecl struct {
	Index  int          `parser:"KwRegister @Integer"`
	Name   string       `parser:"@Ident"`
	Dir    string       `parser:"@( KwControl | KwStatus )"`
	Fields []*FieldDecl `parser:"LBrace @@* RBrace"`
}

// FieldDecl declares a named bit range. A bare bit number declares a
// single-bit field; hi:lo declares a range.
type FieldDecl struct {
	Name string `parser:"KwField @Ident"`
	Hi   int    `parser:"@Integer"`
	Lo   *int   `parser:"( Colon @Integer )?"`
}
