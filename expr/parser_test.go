package expr

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize(`score >= 10 && keyPressed("Space")`)

	var types []TokenType
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	want := []TokenType{
		TokenIdent, TokenOperator, TokenNumber, TokenOperator,
		TokenIdent, TokenLParen, TokenString, TokenRParen, TokenEOF,
	}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), tokens)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d: got type %v, want %v", i, types[i], want[i])
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b || c != d", "((a == b) || (c != d))"},
		{"x < 10 && x > 0", "((x < 10) && (x > 0))"},
		{"-5 + 3", "(-5 + 3)"},
		{"!done && ready", "(!done && ready)"},
		{`name == "hero"`, `(name == "hero")`},
		{"true || false", "(true || false)"},
		{"player.health - 1", "(player.health - 1)"},
		{"max(a, b + 1)", "max(a, (b + 1))"},
		{"count()", "count()"},
	}

	for _, tc := range tests {
		node, err := NewParser(tc.input).Parse()
		if err != nil {
			t.Errorf("Parse(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got := node.String(); got != tc.want {
			t.Errorf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"max(a,",
		"&&",
	}

	for _, input := range tests {
		if _, err := NewParser(input).Parse(); err == nil {
			t.Errorf("Parse(%q): expected error, got none", input)
		}
	}
}

func TestExpressionParseCached(t *testing.T) {
	e := New("score + 1")

	first, err := e.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Error("repeated Parse on unchanged text should return the cached tree")
	}
}

func TestExpressionSetRawResetsCache(t *testing.T) {
	e := New("1 + 2")
	first, _ := e.Parse()

	e.SetRaw("3 * 4")
	second, err := e.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Equal(first, second) {
		t.Error("SetRaw should discard the cached tree")
	}
	if got := second.String(); got != "(3 * 4)" {
		t.Errorf("got %s, want (3 * 4)", got)
	}
}

func TestExpressionCloneIndependent(t *testing.T) {
	e := New("a + b")
	clone := e.Clone()

	clone.SetRaw("c")
	if e.Raw() != "a + b" {
		t.Errorf("mutating clone changed original raw text: %s", e.Raw())
	}
}

func TestEqual(t *testing.T) {
	a, _ := New("f(x) + 1").Parse()
	b, _ := New("f( x )+1").Parse()
	c, _ := New("f(x) + 2").Parse()

	if !Equal(a, b) {
		t.Error("whitespace differences should not affect structural equality")
	}
	if Equal(a, c) {
		t.Error("different literals should not compare equal")
	}
}

func TestParseErrorMentionsPosition(t *testing.T) {
	_, err := NewParser("1 + + 2").Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "position") {
		t.Errorf("error should carry a position: %v", err)
	}
}
