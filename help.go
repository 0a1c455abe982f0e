package main

import (
	"sort"
	"strings"
)

var helpText = map[token]string{
	BYE:       "Exit from BASIC (also EXIT and QUIT)",
	CLS:       "Clear the screen",
	DATA:      "Values for READ: DATA 1, -2.5, \"text\", word",
	DEF:       "Define a one-line function: DEF FNA(X) = X * X",
	DIM:       "Create arrays: DIM A(10), B$(5, 5)",
	DUMP:      "Dump variables, arrays and functions",
	EDIT:      "Edit the current program with $EDITOR",
	END:       "Stop the running program",
	FOR:       "Loop: FOR I = 1 TO 10 [STEP 2] ... NEXT I",
	GOSUB:     "Call a subroutine: GOSUB line ... RETURN",
	GOTO:      "Continue at a line: GOTO line",
	HELP:      "List commands, or describe one: HELP PRINT",
	IF:        "IF cond THEN statement | IF cond THEN line | IF cond GOTO line",
	INPUT:     "Read values: INPUT [\"prompt\";] var [, var]...",
	LET:       "Assignment: [LET] var = expression",
	LIST:      "List the program: LIST [from[-to]]",
	LOAD:      "Replace the program with a file: LOAD \"name\"",
	NEW:       "Erase the current program and variables",
	NEXT:      "End of a FOR loop: NEXT [var]",
	ON:        "Computed branch: ON n GOTO|GOSUB line, line...",
	PRINT:     "Print values: PRINT [USING fmt;] item [{;|,} item]...",
	RANDOMIZE: "Seed the random number generator: RANDOMIZE [seed]",
	READ:      "Read values from DATA statements: READ var [, var]...",
	REM:       "Remark; the rest of the line is ignored (also ')",
	RESTORE:   "Start READ again from the first DATA, or a line: RESTORE [line]",
	RETURN:    "Return from a GOSUB",
	RUN:       "Execute the current program: RUN [line]",
	SAVE:      "Save the program: SAVE [\"name\"]",
	SLEEP:     "Pause for ticks of 1/60 second: SLEEP(60)",
	STATS:     "Toggle printing execution statistics when a program stops",
	STOP:      "Stop the running program",
	TRACE:     "Toggle printing each line number as it executes",
}

//
// HELP [keyword]
//

func (in *interp) executeHelp() {

	l := in.lex
	l.next()

	in.flushColumn()

	if l.tok == EOL || l.tok == COLON {
		names := make([]string, 0, len(helpText))
		for tok := range helpText {
			names = append(names, tokenName(tok))
		}

		sort.Strings(names)

		in.emit(strings.Join(names, " ") + "\n")
		return
	}

	name := l.str
	if name == "" {
		name = tokenName(l.tok)
	}

	text, ok := helpText[l.tok]
	if !ok {
		in.emit("No help for " + name + "\n")
	} else {
		in.emit(text + "\n")
	}

	l.next()
}
