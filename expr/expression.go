package expr

// Expression is a parsed operand embedded in an instruction parameter.
// It keeps the raw source text and builds the parse tree lazily; repeated
// Parse calls on unchanged text return the same tree.
type Expression struct {
	raw    string
	node   Node
	err    error
	parsed bool
}

// New creates an expression from raw source text. Parsing is deferred
// until the first Parse call.
func New(raw string) *Expression {
	return &Expression{raw: raw}
}

// Raw returns the source text.
func (e *Expression) Raw() string { return e.raw }

// SetRaw replaces the source text and discards the cached parse tree.
// Used by rewrite passes (object renames, deprecated-id fixes).
func (e *Expression) SetRaw(raw string) {
	if raw == e.raw {
		return
	}
	e.raw = raw
	e.node = nil
	e.err = nil
	e.parsed = false
}

// Parse returns the parse tree, building it on first use. The result is
// cached: parsing is idempotent while the raw text is unchanged.
func (e *Expression) Parse() (Node, error) {
	if !e.parsed {
		e.node, e.err = NewParser(e.raw).Parse()
		e.parsed = true
	}
	return e.node, e.err
}

// Clone returns an independent copy. Only the raw text is carried over;
// the copy rebuilds its parse tree on demand.
func (e *Expression) Clone() *Expression {
	return &Expression{raw: e.raw}
}
