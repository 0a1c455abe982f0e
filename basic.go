package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/goforj/godump"
)

func main() {

	cfg, err := loadConfig()
	if err != nil {
		crash(err.Error())
	}

	switch len(os.Args) {
	default:
		crash("Usage: basic [program]")

	case 1:
		os.Exit(interactive(cfg))

	case 2:
		os.Exit(runBatch(cfg, os.Args[1]))
	}
}

func newInterp(cfg *config, out io.Writer, input lineReader) *interp {

	in := &interp{
		cfg:     cfg,
		program: newProgramStore(cfg.MaxLines),
		lex:     newLexer(),
		dataLex: newLexer(),
		out:     out,
		input:   input,
		keys:    termKeys{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		pc:      immediateLine,
	}

	in.editFn = func(path string) error {
		return runEditor(cfg.Editor, path)
	}

	in.clearVariables()

	return in
}

//
// Run a program file to completion.  Any error is printed and the
// process exit status is 1
//

func runBatch(cfg *config, name string) int {

	in := newInterp(cfg, os.Stdout, newStreamInput(os.Stdin, os.Stdout))

	go in.sigHdlr()

	err := in.call(func() {
		in.loadProgram(ensureExtension(name))
		in.runProgram()
	})

	in.flushOutput()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

//
// The command loop.  Numbered lines edit the program, anything else
// is executed at once.  Errors are reported and the loop carries on
//

func interactive(cfg *config) int {

	setupLiners(cfg.HistoryFile)

	defer cleanupLiners()

	in := newInterp(cfg, os.Stdout, linerInput{})

	in.editFn = func(path string) error {
		cleanupLiners()
		defer setupLiners(cfg.HistoryFile)

		return runEditor(cfg.Editor, path)
	}

	go in.sigHdlr()

	if isTerminal() {
		fmt.Print(clearScreenSeq)
	}

	printVersionInfo()

	for !in.exiting {
		line, eof := readCommand(cfg.Prompt)
		if eof {
			break
		}

		if err := in.call(func() { in.processLine(line) }); err != nil {
			in.flushOutput()
			fmt.Fprintln(os.Stderr, err)
			in.resetAfterError()
		}

		in.flushOutput()
	}

	return 0
}

func printVersionInfo() {

	fmt.Printf("BASIC v%s (%s/%s)\n", VERSION, runtime.GOOS, runtime.GOARCH)
	fmt.Println("Type HELP for a list of commands")
}

//
// Make sure the prompt starts on a fresh line
//

func (in *interp) flushOutput() {

	if in.col != 0 {
		fmt.Fprintln(in.out)
		in.col = 0
	}
}

func (in *interp) processLine(text string) {

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if number, rest, ok := splitLineNumber(text); ok {
		in.program.store(number, rest)
		return
	}

	in.executeDirect(text)
}

//
// Execute a line typed without a line number.  Variables carry over
// from earlier lines; the control stacks do not
//

func (in *interp) executeDirect(text string) {

	in.resetRun()
	in.interrupted.Store(false)

	in.immediate = text
	in.pc = immediateLine

	in.execute()

	in.finishRun()
}

//
// Run the whole program from its first line
//

func (in *interp) runProgram() {

	in.interrupted.Store(false)
	in.startRun(0)

	in.execute()

	in.finishRun()
}

//
// After an error, everything the failed statement committed stays,
// but execution state is dropped.  The DATA cursor is left alone
//

func (in *interp) resetAfterError() {

	in.resetRun()

	in.running = false
	in.pc = immediateLine
}

func (in *interp) currentLineNumber() int {

	if in.pc >= 0 && in.pc < in.program.len() {
		return in.program.line(in.pc).number
	}

	return 0
}

func (in *interp) sigHdlr() {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGINT)

	for range ch {
		in.interrupted.Store(true)
	}
}

//
// This procedure is called by the panic deferred recovery function.
// BASIC errors get the line they happened on.  Anything else is an
// interpreter bug: for implicit calls to panic by the Go runtime we
// scan the call stack, looking for a function named 'runtime.gopanic',
// and pick the next non-runtime frame to say where it happened
//

func (in *interp) decodePanic(e any) error {

	if be, ok := e.(*basicError); ok {
		if be.lineNo == 0 {
			be.lineNo = in.currentLineNumber()
		}
		return be
	}

	var panicFrame runtime.Frame
	var panicSeen bool

	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(1, pcs)])

	for {
		frame, more := frames.Next()

		if frame.Function == "runtime.gopanic" {
			panicSeen = true
		} else if panicSeen && !strings.HasPrefix(frame.Function, "runtime.") {
			panicFrame = frame
			panicSeen = false
		}

		if !more {
			break
		}
	}

	debug.PrintStack()

	return &basicError{
		kind: errInternal,
		msg: fmt.Sprintf("%v at %s line %d", e, filepath.Base(panicFrame.File),
			panicFrame.Line),
		lineNo: in.currentLineNumber(),
	}
}

//
// Wrapper routine for a function.  We need this so that panic calls
// can be caught and decoded before returning to our caller
//

func (in *interp) call(f func()) (err error) {

	defer func() {
		if e := recover(); e != nil {
			err = in.decodePanic(e)
		}
	}()

	f()

	return nil
}

//
// DUMP prints the variable store, arrays and user functions
//

type dumpArray struct {
	Bounds []int
	Values []any
}

type dumpState struct {
	Variables map[string]any
	Arrays    map[string]dumpArray
	Functions map[string]string
	Lines     int
}

func (in *interp) executeDump() {

	st := dumpState{
		Variables: make(map[string]any),
		Arrays:    make(map[string]dumpArray),
		Functions: make(map[string]string),
		Lines:     in.program.len(),
	}

	for _, name := range in.variableNames() {
		st.Variables[name] = dumpValue(in.vars[name])
	}

	for _, name := range in.arrayNames() {
		a := in.arrays[name]

		da := dumpArray{Bounds: a.dims}
		for _, v := range a.data {
			da.Values = append(da.Values, dumpValue(v))
		}

		st.Arrays[name] = da
	}

	for i, fn := range in.fns {
		if fn.defined {
			name := fmt.Sprintf("FN%c", 'A'+i)
			st.Functions[name] = fmt.Sprintf("(%s) = %s", fn.param, fn.body)
		}
	}

	in.flushColumn()

	godump.Fdump(in.out, st)

	in.col = 0
}

func dumpValue(v value) any {

	if v.kind == strKind {
		return v.str
	}

	return v.num
}
