// Package glm parses, mutates, and re-serializes GridLAB-D model (.glm)
// files. A model is held as an ordered tree of typed items plus a derived
// lookup index; all mutation goes through Manager so the two stay in
// lock-step. Attribute values are treated as opaque text throughout.
package glm

import (
	"regexp"
	"strings"
)

// Pre-tokenization cleanup patterns.
var (
	// Stylesheet URLs collide with the // comment marker, so the scheme
	// prefix is dropped before comments are stripped.
	httpPattern = regexp.MustCompile(`http://`)

	// Line comments swallow the trailing whitespace run as well, matching
	// the conventions downstream tooling was built against.
	commentPattern = regexp.MustCompile(`//[^\n]*\s*`)
)

// Tokenize turns raw GLM text into an ordered token sequence.
//
// Statements split on braces, semicolons, and whitespace. Carriage returns
// are dropped and tabs become spaces; plain spaces separate tokens and are
// not emitted, but newlines are kept as explicit tokens because schedule
// and shape bodies are newline-terminated rather than semicolon-terminated.
// Malformed input never fails here; later stages reject what they cannot
// classify.
func Tokenize(input string) []Token {
	data := httpPattern.ReplaceAllString(input, "")
	data = commentPattern.ReplaceAllString(data, "")
	data = strings.ReplaceAll(data, "\r", "")
	data = strings.ReplaceAll(data, "\t", " ")

	var tokens []Token
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, Token{Kind: TokenText, Literal: cur.String()})
			cur.Reset()
		}
	}

	for i := 0; i < len(data); i++ {
		// Parameter expansions like ${VSOURCE} stay intact; their braces
		// are not structural.
		if data[i] == '$' && i+1 < len(data) && data[i+1] == '{' {
			cur.WriteString("${")
			i += 2
			for i < len(data) && data[i] != '}' && data[i] != '\n' {
				cur.WriteByte(data[i])
				i++
			}
			if i < len(data) && data[i] == '}' {
				cur.WriteByte('}')
			} else {
				i--
			}
			continue
		}
		switch ch := data[i]; ch {
		case '{':
			flush()
			tokens = append(tokens, Token{Kind: TokenOpenBrace, Literal: "{"})
		case '}':
			flush()
			tokens = append(tokens, Token{Kind: TokenCloseBrace, Literal: "}"})
		case ';':
			flush()
			tokens = append(tokens, Token{Kind: TokenSemicolon, Literal: ";"})
		case '\n':
			flush()
			tokens = append(tokens, Token{Kind: TokenNewline, Literal: "\n"})
		case ' ':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()

	return tokens
}
