package token_test

import (
	"testing"

	"remi/token"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind token.Kind
		want string
	}{
		{token.PLUS, "+"},
		{token.EQ, "=="},
		{token.SPELLCARD, "spellcard"},
		{token.Kind(9999), "Kind(9999)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKeywordsTable(t *testing.T) {
	tests := []struct {
		word string
		want token.Kind
	}{
		{"spellcard", token.SPELLCARD},
		{"offer", token.OFFER},
		{"eternal", token.ETERNAL},
		{"vow", token.VOW},
		{"invite", token.INVITE},
		{"foreseen", token.FORESEEN},
		{"otherwise", token.OTHERWISE},
		{"until", token.UNTIL},
	}
	for _, tt := range tests {
		kind, ok := token.Keywords[tt.word]
		if !ok {
			t.Errorf("Keywords[%q] missing", tt.word)
			continue
		}
		if kind != tt.want {
			t.Errorf("Keywords[%q] = %v, want %v", tt.word, kind, tt.want)
		}
	}

	if _, ok := token.Keywords["Spellcard"]; ok {
		t.Errorf("keyword lookup must be case-sensitive")
	}
}

func TestTokenEqualIgnoresPosition(t *testing.T) {
	a := token.NewLiteral(token.IDENT, "x", "x", 1, 1)
	b := token.NewLiteral(token.IDENT, "x", "x", 40, 7)
	if !a.Equal(b) {
		t.Errorf("tokens with same kind/literal but different position should be equal")
	}

	c := token.NewLiteral(token.IDENT, "y", "y", 1, 1)
	if a.Equal(c) {
		t.Errorf("tokens with different literal payloads must not be equal")
	}

	d := token.New(token.PLUS, 1, 1)
	e := token.New(token.PLUS, 99, 12)
	if !d.Equal(e) {
		t.Errorf("fixed-spelling tokens should compare equal regardless of position")
	}
}

func TestTokenEqualDifferentKind(t *testing.T) {
	a := token.New(token.PLUS, 1, 1)
	b := token.New(token.MINUS, 1, 1)
	if a.Equal(b) {
		t.Errorf("tokens of different kinds must not be equal")
	}
}
