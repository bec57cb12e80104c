package glm

// TokenKind represents the kind of a lexical token.
type TokenKind int

const (
	// TokenText is any run of non-structural characters (keywords,
	// identifiers, values, parameter expansions like ${VSOURCE}).
	TokenText TokenKind = iota
	TokenOpenBrace  // {
	TokenCloseBrace // }
	TokenSemicolon  // ;
	// TokenNewline marks an explicit line break. Most statements are
	// semicolon-terminated, but schedule and shape bodies are
	// newline-sensitive, so line breaks survive tokenization.
	TokenNewline
)

// Token is a single lexical unit of a GLM model.
type Token struct {
	Kind    TokenKind
	Literal string
}

// String returns the token text as it appears in the source.
func (t Token) String() string {
	return t.Literal
}

// terminator reports whether the token ends a statement during tree building.
func (t Token) terminator() bool {
	switch t.Kind {
	case TokenOpenBrace, TokenCloseBrace, TokenSemicolon, TokenNewline:
		return true
	}
	return false
}
