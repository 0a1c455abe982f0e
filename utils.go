package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

//
// The terminal is a process-wide resource, so the liner state that
// drives it lives here rather than in the interpreter
//

var console struct {
	cmdLiner    *liner.State
	inputLiner  *liner.State
	historyFile string
}

func isTerminal() bool {

	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// We create two Liner instances.  One for commands, and one for
// any INPUT statements.  We do this because we want a scrollback
// history for commands, but not for user input.  We need to create
// and destroy them in LIFO order, as the Close method is documented
// as 'restoring the terminal to its previous state'.  This means that
// if we create the command instance, and then the 'input' instance,
// the terminal state will go normal => raw => raw.  If we then Close
// them in reverse order, we will see raw => raw => normal
//

func setupLiners(historyFile string) {

	console.historyFile = historyFile

	console.cmdLiner = setupLiner()
	console.inputLiner = setupLiner()

	if historyFile == "" {
		return
	}

	if f, err := os.Open(historyFile); err == nil {
		_, _ = console.cmdLiner.ReadHistory(f)
		f.Close()
	}
}

func setupLiner() *liner.State {

	l := liner.NewLiner()

	l.SetCtrlCAborts(true)
	l.SetMultiLineMode(true)

	return l
}

//
// Restore terminal state, saving the command history on the way
// out.  NB: we cannot call (or cause to be called) crash(), as
// that would recurse
//

func cleanupLiners() {

	if console.cmdLiner != nil && console.historyFile != "" {
		if f, err := os.Create(console.historyFile); err == nil {
			_, _ = console.cmdLiner.WriteHistory(f)
			f.Close()
		}
	}

	cleanupLiner(&console.inputLiner)
	cleanupLiner(&console.cmdLiner)
}

func cleanupLiner(linerState **liner.State) {

	if *linerState != nil {
		(*linerState).Close()
		*linerState = nil
	}
}

//
// Read a command line.  eof is set on ^D at the start of a line.
// ^C at the prompt just abandons the line
//

func readCommand(prompt string) (string, bool) {

	s, err := console.cmdLiner.Prompt(prompt)

	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}

		if err != io.EOF {
			fmt.Fprintf(os.Stderr, "readLine error: %q\n", err)
		}

		return "", true
	}

	if strings.TrimSpace(s) != "" {
		console.cmdLiner.AppendHistory(s)
	}

	return s, false
}

//
// INPUT from the terminal.  ^C while answering is treated the same
// as an interrupt of the running program
//

type linerInput struct{}

func (linerInput) readLine(prompt string) (string, error) {

	s, err := console.inputLiner.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		runtimeError(errInterrupted, EINTERRUPTED)
	}

	return s, err
}

//
// INPUT from a plain stream (batch mode with redirected input, and
// tests).  The prompt goes to w
//

type streamInput struct {
	r *bufio.Reader
	w io.Writer
}

func newStreamInput(r io.Reader, w io.Writer) *streamInput {

	return &streamInput{r: bufio.NewReader(r), w: w}
}

func (si *streamInput) readLine(prompt string) (string, error) {

	fmt.Fprint(si.w, prompt)

	s, err := si.r.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}

	return strings.TrimRight(s, "\r\n"), err
}

//
// INKEY$ from the terminal: one keystroke if one is waiting, else
// the empty string.  The terminal is only in raw mode for the poll
//

type termKeys struct{}

func (termKeys) readKey() string {

	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return ""
		}
		defer term.Restore(fd, old)
	}

	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return ""
	}

	buf := make([]byte, 1)
	if n, err := unix.Read(fd, buf); err != nil || n != 1 {
		return ""
	}

	return string(buf)
}

//
// Write program output, keeping track of the print column
//

func (in *interp) emit(s string) {

	if _, err := io.WriteString(in.out, s); err != nil {
		runtimeError(errIO, err.Error())
	}

	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			in.col = 0
		} else {
			in.col++
		}
	}
}

//
// Terminate a partial output line, if there is one
//

func (in *interp) flushColumn() {

	if in.col != 0 {
		in.emit("\n")
	}
}

func (in *interp) clearScreen() {

	if _, err := io.WriteString(in.out, clearScreenSeq); err != nil {
		runtimeError(errIO, err.Error())
	}

	in.col = 0
}

func formatValue(v value) string {

	if v.kind == strKind {
		return v.str
	}

	return basicFormat(v.num)
}

//
// basicFormat prints integral values without a fraction or exponent,
// and everything else with 6 significant digits
//

func basicFormat(f float64) string {

	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', 6, 64)
}

//
// A file name without a '.' anywhere in it gets the default extension
//

func ensureExtension(name string) string {

	if !strings.Contains(name, ".") {
		return name + basFileSuffix
	}

	return name
}

//
// Map various Linux errors to shorter messages, if needed
//

func mapOSError(err error) error {

	var pErr *fs.PathError

	switch {
	case errors.Is(err, fs.ErrPermission):
		return errors.New("Protection violation")
	case errors.Is(err, fs.ErrNotExist):
		return errors.New("Can't find file")
	case errors.As(err, &pErr):
		return pErr.Err
	}

	return err
}

//
// Run the configured editor on a file, attached to our terminal
//

func runEditor(editor, path string) error {

	args := strings.Fields(editor)
	if len(args) == 0 {
		return errors.New("no editor configured")
	}

	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

//
// Runtime statistics
//

func (in *interp) resetStatistics() {

	in.stats = runStats{elapsed: time.Now()}
	in.stats.utime, in.stats.stime, _ = getCPUInfo()
}

func (in *interp) printStatistics() {

	in.flushColumn()

	in.emit(fmt.Sprintf("Statements executed: %d\n", in.stats.numStatements))

	elapsed := time.Since(in.stats.elapsed)

	utime, stime, err := getCPUInfo()
	if err != nil {
		in.emit(fmt.Sprintf("Elapsed: %s\n", formatCPUTime(int64(elapsed.Seconds()))))
		return
	}

	in.emit(fmt.Sprintf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-in.stats.utime), formatCPUTime(stime-in.stats.stime)))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system CPU seconds for this process, from /proc
//

func getCPUInfo() (int64, int64, error) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return 0, 0, err
	}

	if clktck <= 0 {
		return 0, 0, errors.New("bad clock tick rate")
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0, err
	}

	//
	// The command name may contain blanks, so count fields from
	// the end of it
	//

	stat := string(contents)
	if i := strings.LastIndexByte(stat, ')'); i >= 0 {
		stat = stat[i+1:]
	}

	fields := strings.Fields(stat)
	if len(fields) < 13 {
		return 0, 0, errors.New("short /proc/self/stat")
	}

	utime, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	stime, err := strconv.ParseInt(fields[12], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return utime / clktck, stime / clktck, nil
}

//
// Print a fatal message and abort the process.  Make sure to call
// cleanupLiners, so the terminal state is sane
//

func crash(msg string) {

	cleanupLiners()

	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	os.Exit(1)
}
