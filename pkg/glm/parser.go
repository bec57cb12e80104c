package glm

import "strings"

// Parse turns GLM text into a model tree, applying the legacy-syntax
// normalization pass. Parsing itself never fails: statements that fit no
// recognized shape are degraded or dropped, and the index builder rejects
// anything it cannot classify.
func Parse(input string) *Tree {
	b := &treeBuilder{
		tokens: Tokenize(input),
		tree:   NewTree(),
	}
	b.run()
	normalizeTree(b.tree)
	return b.tree
}

// treeBuilder is the statement state machine. It accumulates tokens into
// statements, dispatches on statement shape, and tracks the stack of open
// object scopes by tree key.
type treeBuilder struct {
	tokens  []Token
	pos     int
	tree    *Tree
	nextKey int
	stack   []int
}

func (b *treeBuilder) run() {
	for b.pos < len(b.tokens) {
		stmt := b.nextStatement()
		if len(stmt) == 0 {
			continue
		}
		b.dispatch(stmt)
	}
}

// nextStatement accumulates tokens until a terminator. The literal token
// "shape" also ends accumulation: shape bodies need their own consumption
// rule and must not swallow the rest of the line as a normal statement.
func (b *treeBuilder) nextStatement() []Token {
	var stmt []Token
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.pos++
		stmt = append(stmt, tok)
		if tok.terminator() || tok.Literal == "shape" {
			break
		}
	}
	return stmt
}

func (b *treeBuilder) dispatch(stmt []Token) {
	head := stmt[0].Literal
	last := stmt[len(stmt)-1]

	switch {
	case head == "#set" || head == "#include":
		// Without a terminating semicolon the directive is "bare" and
		// renders without one. Kept for compatibility with hand-written
		// models.
		b.addTopLevel(&Directive{
			Keyword:  head,
			Argument: argumentText(stmt),
			Bare:     last.Kind != TokenSemicolon,
		})

	case head == "shape":
		b.readShape()

	case last.Kind == TokenSemicolon || last.Kind == TokenNewline:
		if len(stmt) < 2 {
			// Lone terminator, nothing to record.
			return
		}
		if len(b.stack) == 0 {
			// Zero-attribute top-level statement: "module mysql;",
			// "#define VSOURCE=66400;", and friends.
			b.addTopLevel(&Directive{Keyword: head, Argument: argumentText(stmt)})
			return
		}
		b.setScopeField(head, argumentText(stmt))

	case last.Kind == TokenCloseBrace:
		if len(stmt) > 1 {
			b.setScopeField(head, argumentText(stmt))
		}
		if n := len(b.stack); n > 0 {
			b.stack = b.stack[:n-1]
		}

	case head == "schedule":
		b.readSchedule(stmt)

	case last.Kind == TokenOpenBrace:
		b.openScope(stmt)
	}
}

// addTopLevel stores an item at the next key without opening a scope.
func (b *treeBuilder) addTopLevel(it Item) {
	b.tree.Set(b.nextKey, it)
	b.nextKey++
}

// setScopeField records a field assignment on the innermost open scope.
// Assignments outside any scope are dropped (malformed input).
func (b *treeBuilder) setScopeField(key, value string) {
	if len(b.stack) == 0 {
		return
	}
	it, ok := b.tree.Get(b.stack[len(b.stack)-1])
	if !ok {
		return
	}
	if fields := itemFields(it); fields != nil {
		fields.Set(key, value)
	}
}

// openScope allocates a tree key for a block statement, creates the typed
// shell, links it to the enclosing object if any, and pushes the scope.
func (b *treeBuilder) openScope(stmt []Token) {
	key := b.nextKey
	b.nextKey++

	var it Item
	if len(stmt) < 4 && len(stmt) > 1 {
		// Short headers carry a keyword and at most one name token.
		name := stmt[len(stmt)-2].Literal
		switch stmt[0].Literal {
		case "clock":
			it = NewClock()
		case "module":
			it = NewModule(name)
		case "object":
			it = NewObject(name)
		case "class":
			it = &ClassDef{Name: name, Fields: NewFields()}
		}
	}
	if it == nil {
		// Anything longer (or unrecognized) is an embedded configuration
		// object; the header is preserved verbatim.
		it = &EmbeddedConfig{Header: headerText(stmt), Fields: NewFields()}
	}

	b.tree.Set(key, it)
	if len(b.stack) > 0 {
		if parent, ok := b.tree.Get(b.stack[len(b.stack)-1]); ok {
			if obj, ok := parent.(*Object); ok {
				obj.Children = append(obj.Children, key)
			}
		}
	}
	b.stack = append(b.stack, key)
}

// readShape consumes a single-line shape body through the next newline and
// stores it as a raw field on the innermost open object.
func (b *treeBuilder) readShape() {
	var body []Token
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.pos++
		if tok.Kind == TokenNewline {
			break
		}
		body = append(body, tok)
	}
	// Trailing semicolons belong to the terminator, not the value.
	for len(body) > 0 && body[len(body)-1].Kind == TokenSemicolon {
		body = body[:len(body)-1]
	}
	b.setScopeField("shape", joinLiterals(body))
}

// readSchedule consumes a schedule block through its closing brace and
// stores the interior as an opaque body. stmt already holds the header
// through the opening brace.
func (b *treeBuilder) readSchedule(stmt []Token) {
	full := stmt
	for b.pos < len(b.tokens) {
		tok := b.tokens[b.pos]
		b.pos++
		full = append(full, tok)
		if tok.Kind == TokenCloseBrace {
			break
		}
	}
	if len(full) < 4 {
		return
	}
	name := full[1].Literal

	// Interior tokens sit between the opening brace and the closing brace;
	// trailing newlines before the brace are terminators, not body text.
	body := full[3 : len(full)-1]
	for len(body) > 0 && body[len(body)-1].Kind == TokenNewline {
		body = body[:len(body)-1]
	}
	b.addTopLevel(&Schedule{Name: name, Body: strings.TrimSpace(joinLiterals(body))})
}

// argumentText joins a statement's tokens after the head, dropping the
// trailing terminator.
func argumentText(stmt []Token) string {
	if len(stmt) < 2 {
		return ""
	}
	end := len(stmt)
	if stmt[end-1].terminator() {
		end--
	}
	return joinLiterals(stmt[1:end])
}

// headerText joins all statement tokens before the trailing terminator.
func headerText(stmt []Token) string {
	end := len(stmt)
	if end > 0 && stmt[end-1].terminator() {
		end--
	}
	return joinLiterals(stmt[:end])
}

// joinLiterals joins token literals with single spaces, except newline
// tokens which are kept as literal line breaks.
func joinLiterals(tokens []Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if tok.Kind == TokenNewline {
			sb.WriteString("\n")
			continue
		}
		if i > 0 && tokens[i-1].Kind != TokenNewline {
			sb.WriteString(" ")
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}
