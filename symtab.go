package main

import (
	"sort"
	"strings"
)

//
// Scalars and arrays live in separate maps, so 'A' and 'A(1)' are
// different variables.  The type of a name is fixed by its spelling:
// a trailing '$' means string, anything else is numeric
//

func (in *interp) clearVariables() {

	in.vars = make(map[string]value)
	in.arrays = make(map[string]*basicArray)
}

func isStringName(name string) bool {

	return strings.HasSuffix(name, "$")
}

func kindOfName(name string) valueKind {

	if isStringName(name) {
		return strKind
	}

	return numKind
}

func zeroValue(kind valueKind) value {

	return value{kind: kind}
}

func numValue(f float64) value {

	return value{kind: numKind, num: f}
}

func strValue(s string) value {

	return value{kind: strKind, str: s}
}

func boolValue(b bool) value {

	if b {
		return numValue(boolTrue)
	}

	return numValue(boolFalse)
}

func checkAssignType(name string, v value) {

	if kindOfName(name) == v.kind {
		return
	}

	if v.kind == strKind {
		runtimeError(errTypeMismatch, ETYPEMISMATCH+": %s expects a number", name)
	}

	runtimeError(errTypeMismatch, ETYPEMISMATCH+": %s expects a string", name)
}

//
// Unassigned variables read as 0 or the empty string
//

func (in *interp) getVar(name string) value {

	if v, ok := in.vars[name]; ok {
		return v
	}

	return zeroValue(kindOfName(name))
}

func (in *interp) setVar(name string, v value) {

	checkAssignType(name, v)

	if _, ok := in.vars[name]; !ok {
		runtimeCheck(len(in.vars) < in.cfg.MaxVariables, errResourceExhausted,
			ETOOMANYVARIABLES)
	}

	in.vars[name] = v
}

//
// Create an array.  A declared bound of N allows subscripts 0..N,
// and there may be any number of dimensions
//

func (in *interp) dimArray(name string, bounds []int) {

	if _, ok := in.arrays[name]; ok {
		runtimeError(errSyntax, "Array %s already dimensioned", name)
	}

	runtimeCheck(len(in.arrays) < in.cfg.MaxArrays, errResourceExhausted,
		ETOOMANYARRAYS)

	total := 1
	for _, b := range bounds {
		runtimeCheck(b >= 0, errRange, ESUBSCRIPTERROR)
		total *= b + 1
		runtimeCheck(total <= in.cfg.MaxArrayElements, errResourceExhausted,
			EMATRIXTOOLARGE)
	}

	kind := kindOfName(name)

	a := &basicArray{
		name: name,
		kind: kind,
		dims: append([]int(nil), bounds...),
		data: make([]value, total),
	}

	for i := range a.data {
		a.data[i] = zeroValue(kind)
	}

	in.arrays[name] = a
}

func (in *interp) lookupArray(name string) *basicArray {

	a, ok := in.arrays[name]
	if !ok {
		runtimeError(errRange, "Array %s not dimensioned", name)
	}

	return a
}

//
// Row-major offset of an element
//

func (a *basicArray) offset(subs []int) int {

	if len(subs) != len(a.dims) {
		runtimeError(errRange, "%s: %s has %d dimension(s)", ESUBSCRIPTERROR,
			a.name, len(a.dims))
	}

	off := 0
	for i, sub := range subs {
		if sub < 0 || sub > a.dims[i] {
			runtimeError(errRange, ESUBSCRIPTERROR)
		}

		off = off*(a.dims[i]+1) + sub
	}

	return off
}

func (in *interp) arrayGet(name string, subs []int) value {

	a := in.lookupArray(name)

	return a.data[a.offset(subs)]
}

func (in *interp) arraySet(name string, subs []int, v value) {

	a := in.lookupArray(name)
	off := a.offset(subs)

	checkAssignType(name, v)

	a.data[off] = v
}

func (in *interp) assign(lv lvalue, v value) {

	if lv.isArray {
		in.arraySet(lv.name, lv.subs, v)
	} else {
		in.setVar(lv.name, v)
	}
}

//
// Sorted names, for DUMP
//

func (in *interp) variableNames() []string {

	names := make([]string, 0, len(in.vars))
	for name := range in.vars {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (in *interp) arrayNames() []string {

	names := make([]string, 0, len(in.arrays))
	for name := range in.arrays {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
