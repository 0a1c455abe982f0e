package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"
)

//
// The execution loop.  in.pc is the index of the line being run, or
// immediateLine for the direct-mode line.  Statements that transfer
// control set in.pc and in.jumped; FOR, GOSUB and their partners can
// also set in.resume to re-enter a line in the middle.  The loop ends
// when the program counter runs off the end of the program, or END
// (or an error) stops it
//

func (in *interp) execute() {

	for !in.finished && !in.exiting {
		var text string

		if in.pc == immediateLine {
			text = in.immediate
		} else if in.pc >= 0 && in.pc < in.program.len() {
			text = in.program.line(in.pc).text
		} else {
			break
		}

		if in.resume != nil {
			in.lex.restore(*in.resume)
			in.resume = nil
		} else {
			if in.traceExec && in.pc != immediateLine {
				in.emit(fmt.Sprintf("[%d]", in.program.line(in.pc).number))
			}
			in.lex.start(text)
		}

		in.executeLine()

		if in.jumped {
			in.jumped = false
			continue
		}

		if in.pc == immediateLine {
			break
		}

		in.pc++
	}
}

//
// Run the statements of the current line, starting at the current
// token, until the end of the line or a transfer of control
//

func (in *interp) executeLine() {

	l := in.lex

	for l.tok != EOL && !in.finished && !in.exiting {
		in.checkInterrupts()

		in.executeStatement()

		if in.jumped {
			return
		}

		switch l.tok {
		case COLON:
			l.next()
		case EOL:
			// done
		default:
			runtimeError(errSyntax, "Unexpected %s", tokenName(l.tok))
		}
	}
}

func (in *interp) executeStatement() {

	l := in.lex

	in.stats.numStatements++

	switch l.tok {
	default:
		runtimeError(errSyntax, EBADSTATEMENT)

	case COLON, EOL:
		// empty statement

	case PRINT:
		in.executePrint()

	case IF:
		in.executeIf()

	case GOTO:
		l.next()
		in.jumpTo(in.lineTarget())

	case GOSUB:
		in.executeGosub()

	case ON:
		in.executeOn()

	case RETURN:
		in.executeReturn()

	case FOR:
		in.executeFor()

	case NEXT:
		in.executeNext()

	case LET:
		l.next()
		in.executeLet()

	case IDENT:
		in.executeLet()

	case INPUT:
		in.executeInput()

	case DIM:
		in.executeDim()

	case DEF:
		in.executeDef()

	case READ:
		in.executeRead()

	case DATA:
		l.skipStatement()

	case RESTORE:
		in.executeRestore()

	case REM:
		l.skipToEOL()

	case END, STOP:
		l.next()
		in.finished = true

	case SLEEP:
		in.executeSleep()

	case CLS:
		l.next()
		in.clearScreen()

	case RUN:
		in.executeRun()

	case LIST:
		in.executeList()

	case NEW:
		l.next()
		in.executeNew()

	case SAVE:
		in.executeSave()

	case LOAD:
		in.executeLoad()

	case EDIT:
		l.next()
		in.executeEdit()

	case BYE, EXIT, QUIT:
		l.next()
		in.exiting = true

	case RANDOMIZE:
		in.executeRandomize()

	case HELP:
		in.executeHelp()

	case TRACE:
		l.next()
		in.traceExec = !in.traceExec
		in.emit(fmt.Sprintf("Tracing %s\n", onOff(in.traceExec)))

	case STATS:
		l.next()
		in.printStats = !in.printStats
		in.emit(fmt.Sprintf("Statistics %s\n", onOff(in.printStats)))

	case DUMP:
		l.next()
		in.executeDump()
	}
}

func (in *interp) checkInterrupts() {

	if in.interrupted.Swap(false) {
		runtimeError(errInterrupted, EINTERRUPTED)
	}
}

func (in *interp) jumpTo(idx int) {

	in.pc = idx
	in.jumped = true
	in.resume = nil
}

func (in *interp) resumeAt(idx int, st lexState) {

	in.pc = idx
	in.jumped = true
	in.resume = &st
}

//
// Evaluate a line number and map it to a line index
//

func (in *interp) lineTarget() int {

	number := in.numericExpr("Line number must be numeric")

	idx, ok := in.program.find(int(number))
	if !ok {
		runtimeError(errControlFlow, "Undefined line %s", basicFormat(number))
	}

	return idx
}

func (in *interp) executeGosub() {

	l := in.lex
	l.next()

	idx := in.lineTarget()

	in.pushGosub()

	in.jumpTo(idx)
}

//
// Remember where the current statement ends, for RETURN
//

func (in *interp) pushGosub() {

	runtimeCheck(len(in.gosubStack) < in.cfg.GosubStackDepth,
		errResourceExhausted, EGOSUBOVERFLOW)

	in.gosubStack = append(in.gosubStack,
		gosubFrame{lineIdx: in.pc, resume: in.lex.save()})
}

func (in *interp) executeReturn() {

	in.lex.next()

	n := len(in.gosubStack)
	runtimeCheck(n > 0, errControlFlow, ERETURNWITHOUT)

	f := in.gosubStack[n-1]
	in.gosubStack = in.gosubStack[:n-1]

	in.resumeAt(f.lineIdx, f.resume)
}

//
// ON expr GOTO|GOSUB line [, line]...  The expression selects a
// target by its 1-based position in the list
//

func (in *interp) executeOn() {

	var targets []float64

	l := in.lex
	l.next()

	sel := in.numericExpr("ON expects a number")

	op := l.tok
	if op != GOTO && op != GOSUB {
		runtimeError(errSyntax, "Expected GOTO or GOSUB after ON")
	}
	l.next()

	for {
		targets = append(targets, in.numericExpr("Line number must be numeric"))

		if l.tok != COMMA {
			break
		}
		l.next()
	}

	if sel < 1 || sel >= float64(len(targets)+1) {
		runtimeError(errControlFlow, EONERROR)
	}

	n := int(math.Trunc(sel))

	idx, ok := in.program.find(int(targets[n-1]))
	if !ok {
		runtimeError(errControlFlow, "Undefined line %s", basicFormat(targets[n-1]))
	}

	if op == GOSUB {
		in.pushGosub()
	}

	in.jumpTo(idx)
}

//
// FOR var = start TO limit [STEP step].  Entering a loop on a variable
// that already has a frame discards that frame and everything pushed
// after it.  The body always runs at least once; NEXT does the test
//

func (in *interp) executeFor() {

	l := in.lex
	l.next()

	name := in.expectIdent("Expected FOR variable")
	if isStringName(name) {
		runtimeError(errTypeMismatch, ETYPEMISMATCH+": FOR variable must be numeric")
	}

	in.expect(EQ, "Expected '=' in FOR")
	start := in.numericExpr("FOR start must be numeric")

	in.expect(TO, "Expected TO in FOR")
	limit := in.numericExpr("FOR limit must be numeric")

	step := 1.0
	if l.tok == STEP {
		l.next()
		step = in.numericExpr("FOR step must be numeric")
	}

	in.setVar(name, numValue(start))

	for i := len(in.forStack) - 1; i >= 0; i-- {
		if in.forStack[i].varName == name {
			in.forStack = in.forStack[:i]
			break
		}
	}

	runtimeCheck(len(in.forStack) < in.cfg.ForStackDepth, errResourceExhausted,
		EFORSTACKOVERFLOW)

	in.forStack = append(in.forStack, forFrame{
		varName: name,
		limit:   limit,
		step:    step,
		lineIdx: in.pc,
		resume:  l.save(),
	})
}

//
// NEXT [var [, var]...].  Without a name the innermost loop is
// stepped.  A name that does not match the innermost loop is an error.
// Only a positive step counts up; a zero step uses the downward test
//

func (in *interp) executeNext() {

	l := in.lex
	l.next()

	for {
		var name string
		if l.tok == IDENT {
			name = l.str
			l.next()
		}

		n := len(in.forStack)
		runtimeCheck(n > 0, errControlFlow, ENEXTWITHOUTFOR)

		f := in.forStack[n-1]
		if name != "" && name != f.varName {
			runtimeError(errControlFlow, "NEXT %s does not match FOR %s", name, f.varName)
		}

		v := checkFloat(in.getVar(f.varName).num + f.step)
		in.setVar(f.varName, numValue(v))

		var more bool
		if f.step > 0 {
			more = v <= f.limit
		} else {
			more = v >= f.limit
		}

		if more {
			in.resumeAt(f.lineIdx, f.resume)
			return
		}

		in.forStack = in.forStack[:n-1]

		if name == "" || l.tok != COMMA {
			return
		}
		l.next()
	}
}

func (in *interp) parseLvalue() lvalue {

	lv := lvalue{name: in.expectIdent("Expected variable")}

	if in.lex.tok == LPAR {
		lv.subs = in.subscripts()
		lv.isArray = true
	}

	return lv
}

func (in *interp) executeLet() {

	lv := in.parseLvalue()

	in.expect(EQ, "Expected '=' in assignment")

	in.assign(lv, in.expression())
}

//
// IF cond THEN statement | IF cond THEN line | IF cond GOTO line.
// A false condition skips the rest of the line
//

func (in *interp) executeIf() {

	l := in.lex
	l.next()

	cond := in.expression()
	if cond.kind != numKind {
		runtimeError(errTypeMismatch, ETYPEMISMATCH+": IF condition must be numeric")
	}

	switch l.tok {
	case THEN:
		l.next()
		if cond.num == 0 {
			l.skipToEOL()
			return
		}

		if l.tok == NUMBER {
			in.jumpTo(in.lineTarget())
			return
		}

		in.executeStatement()

	case GOTO:
		l.next()
		if cond.num == 0 {
			l.skipToEOL()
			return
		}

		in.jumpTo(in.lineTarget())

	default:
		runtimeError(errSyntax, "Expected THEN or GOTO after IF")
	}
}

//
// INPUT ["prompt" {;|,}] var [, var]...  With several variables the
// reply is split at commas, and the user is prompted again while
// values are missing
//

func (in *interp) executeInput() {

	var targets []lvalue

	l := in.lex
	l.next()

	prompt := inputPrompt
	if l.tok == STRING {
		prompt = l.str
		l.next()
		if l.tok == SEMI || l.tok == COMMA {
			l.next()
		}
	}

	for {
		targets = append(targets, in.parseLvalue())

		if l.tok != COMMA {
			break
		}
		l.next()
	}

	var fields []string

	for i, lv := range targets {
		if len(fields) == 0 {
			if i > 0 {
				prompt = inputMorePrompt
			}

			reply := in.readInput(prompt)
			if len(targets) == 1 {
				fields = []string{reply}
			} else {
				fields = strings.Split(reply, ",")
			}
		}

		field := fields[0]
		fields = fields[1:]

		if isStringName(lv.name) {
			if len(targets) > 1 {
				field = strings.TrimSpace(field)
			}
			in.assign(lv, strValue(field))
		} else {
			in.assign(lv, numValue(parseNumericPrefix(field)))
		}
	}
}

func (in *interp) readInput(prompt string) string {

	if in.col != 0 {
		in.emit("\n")
	}

	reply, err := in.input.readLine(prompt)
	if err != nil {
		runtimeError(errIO, "INPUT: %s", err.Error())
	}

	in.col = 0

	return strings.TrimRight(reply, "\r\n")
}

//
// DIM name(bound [, bound]...) [, name(...)]...
//

func (in *interp) executeDim() {

	l := in.lex
	l.next()

	for {
		name := in.expectIdent("Expected array name")

		in.expect(LPAR, "Expected '(' after "+name)

		var bounds []int
		for {
			b := in.numericExpr("Array bounds must be numeric")
			runtimeCheck(b >= 0, errRange, ESUBSCRIPTERROR)
			bounds = append(bounds, subscriptIndex(b))

			if l.tok != COMMA {
				break
			}
			l.next()
		}

		in.expect(RPAR, "Missing ')' after array bounds")

		in.dimArray(name, bounds)

		if l.tok != COMMA {
			break
		}
		l.next()
	}
}

//
// DEF FNx(param) = expression.  The body is kept as source text and
// evaluated on each call
//

func (in *interp) executeDef() {

	l := in.lex
	l.next()

	name := in.expectIdent("Expected function name after DEF")
	if !isFnName(name) {
		runtimeError(errSyntax, "Invalid function name %s (must be FNA-FNZ)", name)
	}

	in.expect(LPAR, "Expected '(' after "+name)
	param := in.expectIdent("Expected parameter name")
	in.expect(RPAR, "Expected ')' after parameter")
	in.expect(EQ, "Expected '=' in DEF")

	start := l.tokPos
	end := l.skipStatement()

	body := strings.TrimSpace(l.src[start:end])
	if body == "" {
		runtimeError(errSyntax, "Missing function body")
	}

	in.fns[name[2]-'A'] = userFunc{defined: true, param: param, body: body}
}

//
// SLEEP(ticks) where a tick is 1/60 of a second.  Sleeping is done in
// slices so an interrupt is noticed promptly
//

func (in *interp) executeSleep() {

	const slice = 50 * time.Millisecond

	l := in.lex
	l.next()

	in.expect(LPAR, "Expected '(' after SLEEP")
	ticks := in.numericExpr("SLEEP expects a number")
	in.expect(RPAR, "Missing ')' for SLEEP")

	if ticks <= 0 {
		return
	}

	d := time.Duration(ticks * float64(time.Second) / ticksPerSecond)

	for d > 0 {
		in.checkInterrupts()

		t := min(d, slice)
		time.Sleep(t)
		d -= t
	}
}

func (in *interp) executeRandomize() {

	l := in.lex
	l.next()

	seed := time.Now().UnixNano()
	if l.tok != EOL && l.tok != COLON {
		seed = int64(in.numericExpr("RANDOMIZE expects a number"))
	}

	in.rng = rand.New(rand.NewSource(seed))
}

//
// Reset the per-run state.  Variables are handled by the caller,
// since a direct-mode line keeps them and RUN does not
//

func (in *interp) resetRun() {

	in.forStack = in.forStack[:0]
	in.gosubStack = in.gosubStack[:0]
	in.fnDepth = 0
	in.resume = nil
	in.jumped = false
	in.finished = false
}

//
// RUN [line]
//

func (in *interp) executeRun() {

	l := in.lex
	l.next()

	idx := 0
	if l.tok != EOL && l.tok != COLON {
		idx = in.lineTarget()
	}

	in.startRun(idx)
}

func (in *interp) startRun(idx int) {

	in.clearVariables()
	in.resetRun()
	in.resetData()

	in.running = true
	in.resetStatistics()

	in.jumpTo(idx)
}

//
// Called once the execution loop returns normally
//

func (in *interp) finishRun() {

	if in.running && in.printStats {
		in.printStatistics()
	}

	in.running = false
	in.resetRun()
}

//
// LIST [from[-to]]
//

func (in *interp) executeList() {

	l := in.lex
	l.next()

	from, to := 0, 0

	if l.tok == NUMBER {
		from = int(l.num)
		to = from
		l.next()
	}

	if l.tok == MINUS {
		l.next()
		to = 0
		if l.tok == NUMBER {
			to = int(l.num)
			l.next()
		}
	}

	in.flushColumn()

	if err := in.program.list(in.out, from, to); err != nil {
		runtimeError(errIO, err.Error())
	}
}

//
// NEW, LOAD and RUN change the program or restart it, so if one of
// them is executed by a running program, the program stops here
//

func (in *interp) stopIfRunning() {

	if in.pc != immediateLine {
		in.finished = true
	}
}

func (in *interp) executeNew() {

	in.program.clear()
	in.clearVariables()
	in.fns = [26]userFunc{}
	in.resetData()
	in.programFilename = ""

	in.stopIfRunning()
}

func (in *interp) fileArgument(verb string) string {

	l := in.lex

	if l.tok == EOL || l.tok == COLON {
		if in.programFilename == "" {
			runtimeError(errIO, "%s requires a file name", verb)
		}
		return in.programFilename
	}

	return ensureExtension(in.stringExpr(verb + " expects a file name"))
}

func (in *interp) executeSave() {

	in.lex.next()

	name := in.fileArgument("SAVE")

	if err := in.saveProgram(name); err != nil {
		runtimeError(errIO, "Could not save %s: %s", name, err.Error())
	}

	in.programFilename = name
	in.emit(fmt.Sprintf("Saved %s\n", name))
}

func (in *interp) executeLoad() {

	in.lex.next()

	name := in.fileArgument("LOAD")

	in.stopIfRunning()

	in.loadProgram(name)

	in.emit(fmt.Sprintf("Loaded %s\n", name))
}

//
// Replace the program with the contents of a file.  Variables and
// user functions go with the old program
//

func (in *interp) loadProgram(name string) {

	f, err := os.Open(name)
	if err != nil {
		runtimeError(errIO, "Could not open %s: %s", name, mapOSError(err))
	}
	defer f.Close()

	in.clearVariables()
	in.fns = [26]userFunc{}
	in.resetData()

	if err := in.program.load(f, os.Stderr); err != nil {
		runtimeError(errIO, "Error reading %s: %s", name, err.Error())
	}

	in.programFilename = name
}

func (in *interp) saveProgram(name string) error {

	f, err := os.Create(name)
	if err != nil {
		return mapOSError(err)
	}

	if err := in.program.save(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

//
// EDIT hands the program to an external editor through a temporary
// file, then loads the result back
//

func (in *interp) executeEdit() {

	in.stopIfRunning()

	tmp, err := os.CreateTemp("", "basic-*"+basFileSuffix)
	if err != nil {
		runtimeError(errIO, "Could not create temporary file: %s", err.Error())
	}

	path := tmp.Name()
	defer os.Remove(path)

	err = in.program.save(tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		runtimeError(errIO, "Could not write %s: %s", path, err.Error())
	}

	if err := in.editFn(path); err != nil {
		runtimeError(errIO, "Editor failed: %s", err.Error())
	}

	saved := in.programFilename

	in.loadProgram(path)

	in.programFilename = saved
}

func onOff(b bool) string {

	if b {
		return "ON"
	}

	return "OFF"
}

//
// PRINT [item {;|,} ...].  ';' joins items, ',' moves to the next
// print zone, and a trailing separator suppresses the newline.
// TAB(n) moves to column n and SPC(n) prints n blanks
//

func (in *interp) executePrint() {

	l := in.lex
	l.next()

	if l.tok == USING {
		in.executePrintUsing()
		return
	}

	printNL := true

	for l.tok != EOL && l.tok != COLON {
		switch l.tok {
		case SEMI, COMMA:
			// separator only

		case TAB:
			n := in.printFunctionArg()
			if n > in.col {
				in.emit(strings.Repeat(" ", n-in.col))
			}

		case SPC:
			in.emit(strings.Repeat(" ", in.printFunctionArg()))

		default:
			in.emit(formatValue(in.expression()))
		}

		printNL = true

		switch l.tok {
		case SEMI:
			printNL = false
			l.next()

		case COMMA:
			printNL = false
			in.emit(strings.Repeat(" ", in.cfg.TabWidth-in.col%in.cfg.TabWidth))
			l.next()
		}
	}

	if printNL {
		in.emit("\n")
	}
}

func (in *interp) printFunctionArg() int {

	name := tokenName(in.lex.tok)

	in.lex.next()
	in.expect(LPAR, "Expected '(' for "+name)
	n := in.numericExpr(name + " expects a number")
	in.expect(RPAR, "Missing ')' for "+name)

	return int(max(0, min(n, math.MaxInt16)))
}

//
// PRINT USING format {;|,} expr [{;|,} expr]...
//

func (in *interp) executePrintUsing() {

	var values []value

	l := in.lex
	l.next()

	format := in.stringExpr("PRINT USING format must be a string")

	if l.tok != SEMI && l.tok != COMMA {
		runtimeError(errSyntax, "Expected ';' after PRINT USING format")
	}

	printNL := true

	for l.tok == SEMI || l.tok == COMMA {
		l.next()
		if l.tok == EOL || l.tok == COLON {
			printNL = false
			break
		}
		values = append(values, in.expression())
	}

	in.emit(formatUsing(format, values))

	if printNL {
		in.emit("\n")
	}
}
