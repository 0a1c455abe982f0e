package main

import (
	"strings"
	"testing"
)

func lexTokens(t *testing.T, src string) ([]token, []string) {
	t.Helper()

	var toks []token
	var strs []string

	in, _ := newTestInterp("")

	err := in.call(func() {
		l := newLexer()
		for l.start(src); l.tok != EOL && l.tok != REM; l.next() {
			toks = append(toks, l.tok)
			strs = append(strs, l.str)
		}
	})
	if err != nil {
		t.Fatalf("lexing %q: %v", src, err)
	}

	return toks, strs
}

func sameTokens(a, b []token) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		src  string
		want []token
	}{
		{`PRINT A$; "HI" <> 3.5 <= >= : ' rem`,
			[]token{PRINT, IDENT, SEMI, STRING, NE, NUMBER, LE, GE, COLON}},
		{"GOTOX = 1", []token{IDENT, EQ, NUMBER}},
		{"for i=1to 10", []token{FOR, IDENT, EQ, NUMBER, TO, NUMBER}},
		{"A(1,2)*B/C%D-E+F", []token{IDENT, LPAR, NUMBER, COMMA, NUMBER, RPAR,
			STAR, IDENT, SLASH, IDENT, PERCENT, IDENT, MINUS, IDENT, PLUS, IDENT}},
		{"? X < Y > Z", []token{PRINT, IDENT, LT, IDENT, GT, IDENT}},
		{"chr$(65) + inkey$", []token{CHRS, LPAR, NUMBER, RPAR, PLUS, INKEYS}},
		{"X = .5 MOD 2E3", []token{IDENT, EQ, NUMBER, MOD, NUMBER}},
		{"", nil},
	}

	for _, tt := range tests {
		got, _ := lexTokens(t, tt.src)
		if !sameTokens(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestLexerValues(t *testing.T) {
	l := newLexer()

	l.start(`x1$ = "a b" + 12.25`)

	if l.tok != IDENT || l.str != "X1$" {
		t.Errorf("got %v %q", l.tok, l.str)
	}

	l.next()
	l.next()
	if l.tok != STRING || l.str != "a b" {
		t.Errorf("got %v %q", l.tok, l.str)
	}

	l.next()
	l.next()
	if l.tok != NUMBER || l.num != 12.25 {
		t.Errorf("got %v %v", l.tok, l.num)
	}

	l.next()
	if l.tok != EOL {
		t.Errorf("got %v, want EOL", l.tok)
	}
}

func TestLexerDollarEndsName(t *testing.T) {
	_, strs := lexTokens(t, "A$B")

	if len(strs) != 2 || strs[0] != "A$" || strs[1] != "B" {
		t.Errorf("got %q", strs)
	}
}

func TestLexerTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("V", 40)

	_, strs := lexTokens(t, long)

	if len(strs) != 1 || len(strs[0]) != maxVariableLen {
		t.Errorf("got %q", strs)
	}

	_, strs = lexTokens(t, long+"$")

	if len(strs) != 1 || len(strs[0]) != maxVariableLen || !strings.HasSuffix(strs[0], "$") {
		t.Errorf("got %q", strs)
	}
}

func TestLongStringNameStaysString(t *testing.T) {
	out := mustRun(t, `10 ABCDEFGHIJKLMNOPQRSTUVWXYZABCDEFGH$ = "HI"
20 PRINT ABCDEFGHIJKLMNOPQRSTUVWXYZABCDXX$
`, "")

	if out != "HI\n" {
		t.Errorf("got %q", out)
	}
}

func TestLexerErrors(t *testing.T) {
	for _, src := range []string{`PRINT "open`, "A = @", "A = B && C"} {
		in, _ := newTestInterp("")

		err := in.call(func() {
			l := newLexer()
			for l.start(src); l.tok != EOL; l.next() {
			}
		})

		expectKind(t, err, errLexical)
	}
}

func TestLexerSaveRestore(t *testing.T) {
	l := newLexer()

	l.start("A + B * C")
	l.next()

	st := l.save()

	l.next()
	l.next()
	if l.tok != STAR {
		t.Fatalf("got %v, want STAR", l.tok)
	}

	l.restore(st)
	if l.tok != PLUS {
		t.Fatalf("restored %v, want PLUS", l.tok)
	}

	l.next()
	if l.tok != IDENT || l.str != "B" {
		t.Errorf("after restore got %v %q", l.tok, l.str)
	}
}

func TestLexerSkipStatement(t *testing.T) {
	l := newLexer()

	l.start(`DATA 1, "a:b": PRINT`)

	end := l.skipStatement()
	if end != 13 || l.tok != COLON {
		t.Fatalf("end %d tok %v", end, l.tok)
	}

	l.next()
	if l.tok != PRINT {
		t.Errorf("got %v, want PRINT", l.tok)
	}

	l.skipToEOL()
	if l.tok != EOL {
		t.Errorf("got %v, want EOL", l.tok)
	}
}

func TestTokenName(t *testing.T) {
	if tokenName(MIDS) != "MID$" {
		t.Errorf("got %q", tokenName(MIDS))
	}

	if tokenName(COLON) != "':'" {
		t.Errorf("got %q", tokenName(COLON))
	}
}
