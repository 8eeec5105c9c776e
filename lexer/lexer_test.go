package lexer_test

import (
	"testing"

	"remi/lexer"
	"remi/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	return toks
}

func TestNextSingleCharTokens(t *testing.T) {
	toks := scanAll(t, "(){}[];:,.+-*/")
	wantKinds := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACK, token.RBRACK, token.SEMI, token.COLON, token.COMMA,
		token.DOT, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.EOF,
	}
	if len(toks) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wantKinds), toks)
	}
	for i, want := range wantKinds {
		if toks[i].Kind != want {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, want)
		}
	}
}

func TestNextTwoCharOperators(t *testing.T) {
	tests := []struct {
		src  string
		want token.Kind
	}{
		{"=", token.ASSIGN},
		{"==", token.EQ},
		{"!", token.BANG},
		{"!=", token.NEQ},
		{"<", token.LT},
		{"<=", token.LE},
		{">", token.GT},
		{">=", token.GE},
		{"|", token.PIPE},
		{"||", token.OROR},
		{"&", token.AMP},
		{"&&", token.ANDAND},
	}
	for _, tt := range tests {
		toks := scanAll(t, tt.src)
		if len(toks) != 2 {
			t.Fatalf("scanning %q: got %d tokens, want 2 (operator + EOF): %v", tt.src, len(toks), toks)
		}
		if toks[0].Kind != tt.want {
			t.Errorf("scanning %q: kind = %v, want %v", tt.src, toks[0].Kind, tt.want)
		}
	}
}

func TestNextKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "spellcard foo_bar2")
	if toks[0].Kind != token.SPELLCARD {
		t.Fatalf("expected SPELLCARD, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.IDENT || toks[1].Literal != "foo_bar2" {
		t.Fatalf("expected IDENT(foo_bar2), got %#v", toks[1])
	}
}

func TestNextIntegerLiteral(t *testing.T) {
	toks := scanAll(t, "42 0 007")
	want := []int64{42, 0, 7}
	for i, w := range want {
		if toks[i].Kind != token.INT || toks[i].Literal != w {
			t.Fatalf("token %d = %#v, want INT(%d)", i, toks[i], w)
		}
	}
}

func TestNextStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello, world"`)
	if toks[0].Kind != token.STRING || toks[0].Literal != "hello, world" {
		t.Fatalf("got %#v", toks[0])
	}
}

func TestNextUnterminatedStringIsError(t *testing.T) {
	_, err := lexer.New(`"never closes`).Scan()
	if err == nil {
		t.Fatalf("expected an error for an unterminated string literal")
	}
	lexErr, ok := err.(lexer.Error)
	if !ok {
		t.Fatalf("expected lexer.Error, got %T", err)
	}
	if lexErr.Line != 1 || lexErr.Column != 1 {
		t.Fatalf("unexpected error position: %#v", lexErr)
	}
}

func TestNextLineCommentSkipped(t *testing.T) {
	toks := scanAll(t, "1 // ignored until newline\n2")
	if len(toks) != 3 { // INT, INT, EOF
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
	if toks[0].Literal != int64(1) || toks[1].Literal != int64(2) {
		t.Fatalf("unexpected literals: %#v", toks)
	}
}

func TestNewlineResetsColumn(t *testing.T) {
	toks := scanAll(t, "a\nb")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Fatalf("first token position = (%d,%d), want (1,1)", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 2 || toks[1].Column != 1 {
		t.Fatalf("second token position = (%d,%d), want (2,1)", toks[1].Line, toks[1].Column)
	}
}

func TestScanStopsAtFirstError(t *testing.T) {
	toks, err := lexer.New("1 + @").Scan()
	if err == nil {
		t.Fatalf("expected an error for an illegal character")
	}
	// "1", "+" scanned successfully before the illegal '@'.
	if len(toks) != 2 {
		t.Fatalf("got %d tokens before the error, want 2: %v", len(toks), toks)
	}
}

func TestEmptyInputYieldsEOF(t *testing.T) {
	toks := scanAll(t, "")
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("got %#v, want a single EOF token", toks)
	}
}
