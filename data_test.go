package main

import (
	"testing"
)

func TestReadData(t *testing.T) {
	out := mustRun(t, `10 READ A, B$, C$, D
20 PRINT A; "|"; B$; "|"; C$; "|"; D
30 DATA 1.5, "a:b, c"
40 PRINT "X": DATA  Hello World , -2
`, "")

	if out != "1.5|a:b, c|Hello World|-2\nX\n" {
		t.Errorf("got %q", out)
	}
}

func TestReadSkipsRemarks(t *testing.T) {
	out := mustRun(t, `10 REM DATA 99
20 ' DATA 98
30 READ A$, B
40 PRINT A$; B
50 DATA "it's", 3E2
`, "")

	if out != "it's300\n" {
		t.Errorf("got %q", out)
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"10 READ A: RESTORE: READ B: PRINT A; B\n20 DATA 7, 8\n", "77\n"},
		{"10 DATA 1\n20 DATA 2\n30 RESTORE 20: READ X: PRINT X\n", "2\n"},
		{"10 READ X, Y\n20 DATA 1\n30 DATA 2\n40 PRINT X; Y\n", "12\n"},
	}

	for _, tt := range tests {
		if got := mustRun(t, tt.src, ""); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, got, tt.want)
		}
	}

	_, err := runSource(t, "10 RESTORE 99\n", "")
	expectKind(t, err, errControlFlow)
}

func TestOutOfData(t *testing.T) {
	in, _ := newTestInterp("")

	err := runOn(t, in, "10 DATA 1\n20 READ A, B\n")

	be := expectKind(t, err, errControlFlow)
	if be.lineNo != 20 {
		t.Errorf("line %d", be.lineNo)
	}

	if in.getVar("A").num != 1 {
		t.Errorf("A = %v", in.getVar("A"))
	}
}

func TestDataErrors(t *testing.T) {
	_, err := runSource(t, "10 DATA \"x\"\n20 READ A\n", "")
	expectKind(t, err, errTypeMismatch)

	_, err = runSource(t, "10 DATA \"a\" b\n20 READ A$\n", "")
	expectKind(t, err, errSyntax)
}

func TestRunResetsData(t *testing.T) {
	in, out := newTestInterp("")

	loadSource(t, in, "10 READ A: PRINT A\n20 DATA 5, 6\n")

	for _, line := range []string{"RUN", "RUN"} {
		if err := in.call(func() { in.processLine(line) }); err != nil {
			t.Fatal(err)
		}
	}

	if out.String() != "5\n5\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestParseDataNumber(t *testing.T) {
	tests := []struct {
		item string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"-2.5", -2.5, true},
		{"+.5", 0.5, true},
		{"1E3", 1000, true},
		{"", 0, false},
		{"HELLO", 0, false},
		{"12AB", 0, false},
		{"-", 0, false},
		{"1-2", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseDataNumber(tt.item)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseDataNumber(%q) = %v, %v", tt.item, got, ok)
		}
	}
}
