package main

import (
	"io"
	"math"
	"math/rand"
	"sync/atomic"
	"time"
)

//
// Constants
//

const VERSION = "1.0.0"

const basFileSuffix = ".bas"

const maxVariableLen = 31

const minLineNumber = 1
const maxLineNumber = math.MaxInt16

//
// The program counter takes this value while a direct-mode line
// (one typed without a line number) is being executed
//

const immediateLine = -1

const ticksPerSecond = 60

const clearScreenSeq = "\033[2J\033[H"

const inputPrompt = "? "
const inputMorePrompt = "?? "

const boolTrue = -1.0
const boolFalse = 0.0

//
// Type definitions
//

type valueKind int

const (
	numKind valueKind = iota
	strKind
)

//
// Every BASIC value is either a number or a string.  Strings are
// Go strings, so copies never alias
//

type value struct {
	kind valueKind
	num  float64
	str  string
}

type programLine struct {
	number int
	text   string
}

//
// A resume point inside the source of one line.  Restoring it puts
// the lexer back exactly where it was, current token included
//

type lexState struct {
	src    string
	pos    int // offset of the first byte not yet scanned
	tokPos int // offset of the current token
	tok    token
	num    float64
	str    string
}

type forFrame struct {
	varName string
	limit   float64
	step    float64
	lineIdx int
	resume  lexState
}

type gosubFrame struct {
	lineIdx int
	resume  lexState
}

//
// The DATA cursor is independent of the statement being executed.
// When inData is set, offset is where the next value (or the comma
// before it) starts; otherwise it is where the search for the next
// DATA statement resumes
//

type dataCursor struct {
	lineIdx int
	offset  int
	inData  bool
}

type userFunc struct {
	defined bool
	param   string
	body    string
}

type basicArray struct {
	name string
	kind valueKind
	dims []int // declared upper bounds
	data []value
}

type lvalue struct {
	name    string
	subs    []int
	isArray bool
}

//
// Source of input lines for INPUT.  The interactive host backs this
// with liner, batch mode and tests with a plain reader
//

type lineReader interface {
	readLine(prompt string) (string, error)
}

//
// Non-blocking single key reader for INKEY$
//

type keyReader interface {
	readKey() string
}

//
// Runtime statistics for an executing program
//

type runStats struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}

//
// All interpreter state.  The variable store, program store and
// user functions persist across runs; the stacks and the DATA
// cursor are reset by RUN
//

type interp struct {
	cfg        *config
	program    *programStore
	vars       map[string]value
	arrays     map[string]*basicArray
	fns        [26]userFunc
	forStack   []forFrame
	gosubStack []gosubFrame
	data       dataCursor
	lex        *lexer
	dataLex    *lexer
	immediate  string
	resume     *lexState
	pc         int
	fnDepth    int
	col        int
	out        io.Writer
	input      lineReader
	keys       keyReader
	editFn     func(path string) error
	rng        *rand.Rand
	stats      runStats

	programFilename string

	interrupted atomic.Bool
	jumped      bool
	finished    bool
	exiting     bool
	running     bool
	printStats  bool
	traceExec   bool
}
