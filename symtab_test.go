package main

import (
	"testing"
)

func TestVariablesDefaultAndType(t *testing.T) {
	in, _ := newTestInterp("")

	if v := in.getVar("N"); v.kind != numKind || v.num != 0 {
		t.Errorf("N = %+v", v)
	}

	if v := in.getVar("S$"); v.kind != strKind || v.str != "" {
		t.Errorf("S$ = %+v", v)
	}

	err := in.call(func() {
		in.setVar("N", numValue(3))
		in.setVar("S$", strValue("x"))
	})
	if err != nil {
		t.Fatal(err)
	}

	err = in.call(func() { in.setVar("N", strValue("oops")) })
	expectKind(t, err, errTypeMismatch)

	if in.getVar("N").num != 3 {
		t.Errorf("failed assignment changed N")
	}
}

func TestScalarsAndArraysAreSeparate(t *testing.T) {
	in, _ := newTestInterp("")

	err := in.call(func() {
		in.setVar("A", numValue(1))
		in.dimArray("A", []int{2})
		in.arraySet("A", []int{2}, numValue(9))
	})
	if err != nil {
		t.Fatal(err)
	}

	if in.getVar("A").num != 1 || in.arrayGet("A", []int{2}).num != 9 {
		t.Errorf("A = %v, A(2) = %v", in.getVar("A"), in.arrayGet("A", []int{2}))
	}
}

func TestArrayOffsets(t *testing.T) {
	a := &basicArray{name: "M", dims: []int{2, 3}}

	tests := []struct {
		subs []int
		want int
	}{
		{[]int{0, 0}, 0},
		{[]int{0, 3}, 3},
		{[]int{1, 0}, 4},
		{[]int{2, 3}, 11},
	}

	for _, tt := range tests {
		var got int

		in, _ := newTestInterp("")
		if err := in.call(func() { got = a.offset(tt.subs) }); err != nil {
			t.Fatalf("%v: %v", tt.subs, err)
		}

		if got != tt.want {
			t.Errorf("%v: got %d, want %d", tt.subs, got, tt.want)
		}
	}

	for _, subs := range [][]int{{3, 0}, {0, 4}, {-1, 0}, {1}, {1, 1, 1}} {
		in, _ := newTestInterp("")

		err := in.call(func() { a.offset(subs) })
		expectKind(t, err, errRange)
	}
}

func TestDimArrayLimits(t *testing.T) {
	cfg := defaultConfig()
	cfg.MaxArrays = 2

	in, _ := newTestInterpConfig(cfg, "")

	err := in.call(func() {
		in.dimArray("A", []int{1})
		in.dimArray("B$", []int{0, 0})
	})
	if err != nil {
		t.Fatal(err)
	}

	if v := in.arrayGet("B$", []int{0, 0}); v.kind != strKind {
		t.Errorf("B$(0, 0) = %+v", v)
	}

	err = in.call(func() { in.dimArray("C", []int{1}) })
	expectKind(t, err, errResourceExhausted)

	err = in.call(func() { in.dimArray("A", []int{1}) })
	expectKind(t, err, errSyntax)
}

func TestVariableNamesSorted(t *testing.T) {
	in, _ := newTestInterp("")

	err := in.call(func() {
		for _, name := range []string{"Z", "B", "M"} {
			in.setVar(name, numValue(1))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	names := in.variableNames()
	if len(names) != 3 || names[0] != "B" || names[1] != "M" || names[2] != "Z" {
		t.Errorf("got %v", names)
	}
}
