package main

import (
	"io"
	"strings"
	"testing"
)

func storeLines(t *testing.T, ps *programStore, lines map[int]string) {
	t.Helper()

	in, _ := newTestInterp("")

	err := in.call(func() {
		for number, text := range lines {
			ps.store(number, text)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

func listing(t *testing.T, ps *programStore, from, to int) string {
	t.Helper()

	var sb strings.Builder

	if err := ps.list(&sb, from, to); err != nil {
		t.Fatal(err)
	}

	return sb.String()
}

func TestProgramStoreOrdering(t *testing.T) {
	ps := newProgramStore(100)

	storeLines(t, ps, map[int]string{30: "END", 10: "PRINT 1", 20: "PRINT 2"})

	if got := listing(t, ps, 0, 0); got != "10 PRINT 1\n20 PRINT 2\n30 END\n" {
		t.Errorf("got %q", got)
	}

	storeLines(t, ps, map[int]string{20: "PRINT 22", 10: ""})

	if got := listing(t, ps, 0, 0); got != "20 PRINT 22\n30 END\n" {
		t.Errorf("got %q", got)
	}

	if ps.len() != 2 || ps.line(0).number != 20 || ps.line(1).text != "END" {
		t.Errorf("snapshot %v", ps.lines())
	}

	storeLines(t, ps, map[int]string{99: ""})

	if ps.len() != 2 {
		t.Errorf("deleting a missing line changed the program")
	}
}

func TestProgramStoreFind(t *testing.T) {
	ps := newProgramStore(100)

	storeLines(t, ps, map[int]string{10: "A", 20: "B", 40: "C"})

	tests := []struct {
		number int
		idx    int
		ok     bool
	}{
		{10, 0, true},
		{40, 2, true},
		{5, 0, false},
		{30, 2, false},
		{50, 3, false},
	}

	for _, tt := range tests {
		idx, ok := ps.find(tt.number)
		if idx != tt.idx || ok != tt.ok {
			t.Errorf("find(%d) = %d, %v", tt.number, idx, ok)
		}
	}
}

func TestProgramStoreListRanges(t *testing.T) {
	ps := newProgramStore(100)

	storeLines(t, ps, map[int]string{10: "A", 20: "B", 30: "C"})

	tests := []struct {
		from, to int
		want     string
	}{
		{20, 20, "20 B\n"},
		{15, 0, "20 B\n30 C\n"},
		{0, 25, "10 A\n20 B\n"},
		{40, 0, ""},
	}

	for _, tt := range tests {
		if got := listing(t, ps, tt.from, tt.to); got != tt.want {
			t.Errorf("list(%d, %d) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestProgramStoreLimits(t *testing.T) {
	ps := newProgramStore(2)

	storeLines(t, ps, map[int]string{10: "A", 20: "B"})

	in, _ := newTestInterp("")

	err := in.call(func() { ps.store(30, "C") })
	expectKind(t, err, errResourceExhausted)

	if err := in.call(func() { ps.store(20, "BB") }); err != nil {
		t.Errorf("replacing a line at capacity: %v", err)
	}

	for _, number := range []int{0, -1, maxLineNumber + 1} {
		err := in.call(func() { ps.store(number, "X") })
		expectKind(t, err, errSyntax)
	}
}

func TestProgramLoad(t *testing.T) {
	ps := newProgramStore(100)

	storeLines(t, ps, map[int]string{5: "OLD"})

	src := "#!/usr/bin/env basic\n\n20 PRINT \"B\"\nPRINT \"stray\"\n10   PRINT \"A\"  \n"

	var warn strings.Builder

	in, _ := newTestInterp("")

	var loadErr error
	err := in.call(func() { loadErr = ps.load(strings.NewReader(src), &warn) })
	if err != nil || loadErr != nil {
		t.Fatal(err, loadErr)
	}

	if got := listing(t, ps, 0, 0); got != "10 PRINT \"A\"\n20 PRINT \"B\"\n" {
		t.Errorf("got %q", got)
	}

	if !strings.Contains(warn.String(), "line 4") {
		t.Errorf("warning %q", warn.String())
	}
}

func TestProgramSaveLoadRoundTrip(t *testing.T) {
	ps := newProgramStore(100)

	storeLines(t, ps, map[int]string{100: "END", 10: `PRINT "A:B"`, 50: "GOTO 10"})

	var saved strings.Builder
	if err := ps.save(&saved); err != nil {
		t.Fatal(err)
	}

	other := newProgramStore(100)

	in, _ := newTestInterp("")

	var loadErr error
	err := in.call(func() { loadErr = other.load(strings.NewReader(saved.String()), io.Discard) })
	if err != nil || loadErr != nil {
		t.Fatal(err, loadErr)
	}

	if got := listing(t, other, 0, 0); got != listing(t, ps, 0, 0) {
		t.Errorf("got %q", got)
	}
}

func TestSplitLineNumber(t *testing.T) {
	tests := []struct {
		text   string
		number int
		rest   string
		ok     bool
	}{
		{"10 PRINT", 10, "PRINT", true},
		{"20", 20, "", true},
		{"30PRINT X", 30, "PRINT X", true},
		{"PRINT 10", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		number, rest, ok := splitLineNumber(tt.text)
		if number != tt.number || rest != tt.rest || ok != tt.ok {
			t.Errorf("splitLineNumber(%q) = %d, %q, %v", tt.text, number, rest, ok)
		}
	}

	for _, text := range []string{"0 PRINT", "99999 PRINT", "123456789012345678901234 X"} {
		in, _ := newTestInterp("")

		err := in.call(func() { splitLineNumber(text) })
		expectKind(t, err, errSyntax)
	}
}
