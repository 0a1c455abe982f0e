package main

import (
	"strconv"
	"strings"
)

//
// READ pulls values from DATA statements in program order, using a
// cursor and a lexer of its own, so reading never disturbs the
// statement being executed.  DATA statements are skipped when they
// are executed
//

func (in *interp) resetData() {

	in.data = dataCursor{}
}

//
// Move the cursor to the first value of the next DATA statement at
// or after the cursor
//

func (in *interp) locateData() {

	l := in.dataLex

	for in.data.lineIdx < in.program.len() {
		text := in.program.line(in.data.lineIdx).text

		l.startAt(text, in.data.offset)

		for l.tok != EOL {
			switch l.tok {
			case DATA:
				in.data.offset = l.pos
				in.data.inData = true
				return

			case REM:
				l.skipToEOL()
				continue

			case COLON:
				l.next()
				continue
			}

			l.skipStatement()
		}

		in.data.lineIdx++
		in.data.offset = 0
	}

	runtimeError(errControlFlow, EOUTOFDATA)
}

func (in *interp) readDataItem() value {

	for {
		if !in.data.inData {
			in.locateData()
		}

		text := in.program.line(in.data.lineIdx).text

		i := skipBlanks(text, in.data.offset)
		if i < len(text) && text[i] == ',' {
			i = skipBlanks(text, i+1)
		}

		//
		// This DATA statement is used up, so search on from its end
		//

		if i >= len(text) || text[i] == ':' {
			in.data.inData = false
			if i >= len(text) {
				in.data.lineIdx++
				in.data.offset = 0
			} else {
				in.data.offset = i
			}
			continue
		}

		v, end := in.dataValue(text, i)
		in.data.offset = end

		return v
	}
}

//
// Scan one DATA value starting at text[i].  Quoted strings are taken
// literally; anything else runs to the next ',' or ':' and is a
// number if it parses as one, otherwise a string
//

func (in *interp) dataValue(text string, i int) (value, int) {

	if text[i] == '"' {
		l := in.dataLex
		l.startAt(text, i)

		v := strValue(l.str)

		j := skipBlanks(text, l.pos)
		if j < len(text) && text[j] != ',' && text[j] != ':' {
			runtimeError(errSyntax, EDATASYNTAX)
		}

		return v, j
	}

	j := i
	for j < len(text) && text[j] != ',' && text[j] != ':' {
		j++
	}

	item := strings.TrimSpace(text[i:j])

	if f, ok := parseDataNumber(item); ok {
		return numValue(f), j
	}

	return strValue(item), j
}

func parseDataNumber(item string) (float64, bool) {

	if item == "" {
		return 0, false
	}

	sign := ""
	if item[0] == '-' || item[0] == '+' {
		sign = item[:1]
		item = strings.TrimLeft(item[1:], " \t")
	}

	if item == "" || !(isDigit(rune(item[0])) || item[0] == '.') {
		return 0, false
	}

	for _, ch := range item {
		if !isDigit(ch) && !strings.ContainsRune(".eE+-", ch) {
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(sign+item, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func skipBlanks(text string, i int) int {

	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}

	return i
}

func (in *interp) executeRead() {

	l := in.lex
	l.next()

	for {
		lv := in.parseLvalue()
		in.assign(lv, in.readDataItem())

		if l.tok != COMMA {
			break
		}
		l.next()
	}
}

//
// RESTORE [line] puts the cursor back at the start of the program,
// or at the given line
//

func (in *interp) executeRestore() {

	l := in.lex
	l.next()

	in.resetData()

	if l.tok == EOL || l.tok == COLON {
		return
	}

	number := in.numericExpr("RESTORE expects a line number")

	idx, ok := in.program.find(int(number))
	if !ok {
		runtimeError(errControlFlow, "Undefined line %s", basicFormat(number))
	}

	in.data.lineIdx = idx
}
