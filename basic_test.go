package main

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type fixedKeys string

func (k fixedKeys) readKey() string {
	return string(k)
}

func newTestInterpConfig(cfg *config, input string) (*interp, *strings.Builder) {
	var out strings.Builder

	in := newInterp(cfg, &out, newStreamInput(strings.NewReader(input), &out))
	in.keys = fixedKeys("")
	in.editFn = func(string) error {
		return errors.New("no editor in tests")
	}

	return in, &out
}

func newTestInterp(input string) (*interp, *strings.Builder) {
	return newTestInterpConfig(defaultConfig(), input)
}

func loadSource(t *testing.T, in *interp, src string) {
	t.Helper()

	var loadErr error
	err := in.call(func() {
		loadErr = in.program.load(strings.NewReader(src), io.Discard)
	})
	if err == nil {
		err = loadErr
	}
	if err != nil {
		t.Fatalf("loading program: %v", err)
	}
}

func runOn(t *testing.T, in *interp, src string) error {
	t.Helper()

	loadSource(t, in, src)

	return in.call(in.runProgram)
}

func runSource(t *testing.T, src, input string) (string, error) {
	t.Helper()

	in, out := newTestInterp(input)
	err := runOn(t, in, src)

	return out.String(), err
}

func mustRun(t *testing.T, src, input string) string {
	t.Helper()

	out, err := runSource(t, src, input)
	if err != nil {
		t.Fatalf("unexpected error: %v\noutput so far: %q", err, out)
	}

	return out
}

func expectKind(t *testing.T, err error, kind errorKind) *basicError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v, got no error", kind)
	}

	var be *basicError
	if !errors.As(err, &be) {
		t.Fatalf("expected *basicError, got %T: %v", err, err)
	}

	if be.kind != kind {
		t.Fatalf("expected %v, got %v: %v", kind, be.kind, err)
	}

	return be
}

func TestErrorMessages(t *testing.T) {
	e := &basicError{kind: errArithmetic, msg: EDIVISIONBYZERO, lineNo: 20}
	if got := e.Error(); got != "Error in line 20: Division by 0" {
		t.Errorf("got %q", got)
	}

	e = &basicError{kind: errSyntax, msg: "Oops"}
	if got := e.Error(); got != "Error: Oops" {
		t.Errorf("got %q", got)
	}

	if errResourceExhausted.String() != "ResourceExhaustedError" {
		t.Errorf("kind name %q", errResourceExhausted.String())
	}
}

func TestCallRecoversRuntimeErrors(t *testing.T) {
	in, _ := newTestInterp("")

	err := in.call(func() {
		runtimeError(errRange, "bad %d", 7)
	})

	be := expectKind(t, err, errRange)
	if be.msg != "bad 7" {
		t.Errorf("msg %q", be.msg)
	}

	if err := in.call(func() {}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCallReportsInternalPanics(t *testing.T) {
	in, _ := newTestInterp("")

	err := in.call(func() {
		var m map[string]int
		m["x"] = 1
	})

	expectKind(t, err, errInternal)
}

func TestProcessLineStoresNumberedLines(t *testing.T) {
	in, out := newTestInterp("")

	for _, line := range []string{`20 PRINT "B"`, `10 PRINT "A"`, "  ", "RUN"} {
		if err := in.call(func() { in.processLine(line) }); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}

	if got := out.String(); got != "A\nB\n" {
		t.Errorf("got %q", got)
	}
}

func TestDirectModeKeepsPartialEffects(t *testing.T) {
	in, _ := newTestInterp("")

	err := in.call(func() { in.processLine("A = 5: B = 1 / 0: C = 3") })

	be := expectKind(t, err, errArithmetic)
	if be.Error() != "Error: Division by 0" {
		t.Errorf("got %q", be.Error())
	}

	if in.getVar("A").num != 5 {
		t.Errorf("A = %v", in.getVar("A"))
	}

	if _, ok := in.vars["B"]; ok {
		t.Error("B should not be assigned")
	}

	if _, ok := in.vars["C"]; ok {
		t.Error("C should not be assigned")
	}

	in.resetAfterError()

	if err := in.call(func() { in.processLine("PRINT A") }); err != nil {
		t.Fatal(err)
	}
}

func TestDirectModeGotoKeepsVariables(t *testing.T) {
	in, out := newTestInterp("")

	loadSource(t, in, "10 PRINT \"NO\"\n20 PRINT X\n")

	for _, line := range []string{"X = 42", "GOTO 20"} {
		if err := in.call(func() { in.processLine(line) }); err != nil {
			t.Fatal(err)
		}
	}

	if got := out.String(); got != "42\n" {
		t.Errorf("got %q", got)
	}
}

func TestDirectModeGosubReturnsToLine(t *testing.T) {
	in, out := newTestInterp("")

	loadSource(t, in, "100 PRINT \"SUB\";\n110 RETURN\n")

	if err := in.call(func() { in.processLine(`GOSUB 100: PRINT "BACK"`) }); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "SUBBACK\n" {
		t.Errorf("got %q", got)
	}
}

func TestDirectModeLoops(t *testing.T) {
	in, out := newTestInterp("")

	if err := in.call(func() { in.processLine("FOR I = 1 TO 3: PRINT I;: NEXT I") }); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "123" {
		t.Errorf("got %q", got)
	}
}

func TestRunClearsVariables(t *testing.T) {
	in, out := newTestInterp("")

	loadSource(t, in, "10 PRINT X\n")

	for _, line := range []string{"X = 9", "RUN"} {
		if err := in.call(func() { in.processLine(line) }); err != nil {
			t.Fatal(err)
		}
	}

	if got := out.String(); got != "0\n" {
		t.Errorf("got %q", got)
	}
}

func TestRunFromLine(t *testing.T) {
	in, out := newTestInterp("")

	loadSource(t, in, "10 PRINT \"A\"\n20 PRINT \"B\"\n")

	if err := in.call(func() { in.processLine("RUN 20") }); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "B\n" {
		t.Errorf("got %q", got)
	}
}

func TestNewClearsProgram(t *testing.T) {
	in, _ := newTestInterp("")

	loadSource(t, in, "10 PRINT 1\n")

	for _, line := range []string{"A = 1", "NEW"} {
		if err := in.call(func() { in.processLine(line) }); err != nil {
			t.Fatal(err)
		}
	}

	if in.program.len() != 0 {
		t.Errorf("program has %d lines", in.program.len())
	}

	if len(in.vars) != 0 {
		t.Errorf("variables survived NEW: %v", in.vars)
	}
}

func TestByeSetsExiting(t *testing.T) {
	for _, cmd := range []string{"BYE", "EXIT", "QUIT"} {
		in, _ := newTestInterp("")

		if err := in.call(func() { in.processLine(cmd) }); err != nil {
			t.Fatal(err)
		}

		if !in.exiting {
			t.Errorf("%s did not exit", cmd)
		}
	}
}
