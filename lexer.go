package main

import (
	"strconv"
	"strings"
	"text/scanner"
)

type token int

const (
	tokNone token = iota
	EOL
	NUMBER
	STRING
	IDENT

	// Keywords

	ABS
	AND
	ASC
	ATN
	BYE
	CHRS
	CLS
	COS
	DATA
	DEF
	DIM
	DUMP
	EDIT
	END
	EXIT
	EXP
	FOR
	GOSUB
	GOTO
	HELP
	IF
	INKEYS
	INPUT
	INT
	LEFTS
	LEN
	LET
	LIST
	LOAD
	LOG
	MIDS
	MOD
	NEW
	NEXT
	NOT
	ON
	OR
	PRINT
	QUIT
	RANDOMIZE
	READ
	REM
	RESTORE
	RETURN
	RIGHTS
	RND
	RUN
	SAVE
	SGN
	SIN
	SLEEP
	SPC
	SQR
	STATS
	STEP
	STOP
	STRS
	TAB
	TAN
	THEN
	TO
	TRACE
	USING
	VAL

	// Operators and punctuation

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ
	NE
	LT
	GT
	LE
	GE
	LPAR
	RPAR
	COMMA
	SEMI
	COLON
)

//
// Keywords are matched only after a whole identifier has been
// scanned, so 'GOTOX' is a variable and 'FORI=1TO10' does not lex
// as a FOR statement
//

var keywordMap = map[string]token{
	"ABS": ABS, "AND": AND, "ASC": ASC, "ATN": ATN, "BYE": BYE,
	"CHR$": CHRS, "CLS": CLS, "COS": COS, "DATA": DATA, "DEF": DEF,
	"DIM": DIM, "DUMP": DUMP, "EDIT": EDIT, "END": END, "EXIT": EXIT,
	"EXP": EXP, "FOR": FOR, "GOSUB": GOSUB, "GOTO": GOTO, "HELP": HELP,
	"IF": IF, "INKEY$": INKEYS, "INPUT": INPUT, "INT": INT,
	"LEFT$": LEFTS, "LEN": LEN, "LET": LET, "LIST": LIST, "LOAD": LOAD,
	"LOG": LOG, "MID$": MIDS, "MOD": MOD, "NEW": NEW, "NEXT": NEXT,
	"NOT": NOT, "ON": ON, "OR": OR, "PRINT": PRINT, "QUIT": QUIT,
	"RANDOMIZE": RANDOMIZE, "READ": READ, "REM": REM,
	"RESTORE": RESTORE, "RETURN": RETURN, "RIGHT$": RIGHTS, "RND": RND,
	"RUN": RUN, "SAVE": SAVE, "SGN": SGN, "SIN": SIN, "SLEEP": SLEEP,
	"SPC": SPC, "SQR": SQR, "STATS": STATS, "STEP": STEP, "STOP": STOP,
	"STR$": STRS, "TAB": TAB, "TAN": TAN, "THEN": THEN, "TO": TO,
	"TRACE": TRACE, "USING": USING, "VAL": VAL,
}

var punctNames = map[token]string{
	EOL: "end of line", NUMBER: "number", STRING: "string",
	IDENT: "identifier", PLUS: "'+'", MINUS: "'-'", STAR: "'*'",
	SLASH: "'/'", PERCENT: "'%'", EQ: "'='", NE: "'<>'", LT: "'<'",
	GT: "'>'", LE: "'<='", GE: "'>='", LPAR: "'('", RPAR: "')'",
	COMMA: "','", SEMI: "';'", COLON: "':'",
}

var keywordNames map[token]string

func init() {

	keywordNames = make(map[token]string, len(keywordMap))
	for name, tok := range keywordMap {
		keywordNames[tok] = name
	}
}

func tokenName(tok token) string {

	if name, ok := keywordNames[tok]; ok {
		return name
	}

	if name, ok := punctNames[tok]; ok {
		return name
	}

	return strconv.Itoa(int(tok))
}

//
// A pull lexer over the source of one line.  It scans exactly one
// token ahead, so the executor can save the position of any token
// and come back to it later (FOR, GOSUB and user functions do this)
//

type lexer struct {
	lexState
	s         scanner.Scanner
	base      int
	sawDollar bool
}

func newLexer() *lexer {

	return &lexer{}
}

func (l *lexer) start(src string) {

	l.startAt(src, 0)
}

func (l *lexer) startAt(src string, pos int) {

	l.src = src
	l.reseat(pos)
	l.next()
}

func (l *lexer) save() lexState {

	return l.lexState
}

func (l *lexer) restore(st lexState) {

	l.lexState = st
	l.reseat(st.pos)
}

//
// Point the low-level scanner at src[pos:] without scanning
// anything.  text/scanner offsets are relative to its reader, so
// we remember where the reader starts
//

func (l *lexer) reseat(pos int) {

	if pos > len(l.src) {
		pos = len(l.src)
	}

	l.base = pos
	l.pos = pos

	l.s.Init(strings.NewReader(l.src[pos:]))
	l.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	l.s.Whitespace = 1<<'\t' | 1<<' ' | 1<<'\r' | 1<<'\n'
	l.s.IsIdentRune = l.identRune
	l.s.Error = dummyScannerError
}

func (l *lexer) next() {

	ch := l.s.Scan()

	l.tokPos = l.base + l.s.Position.Offset
	l.str = ""
	l.num = 0

	switch ch {
	case scanner.EOF:
		l.tok = EOL
		l.tokPos = len(l.src)

	case scanner.Ident:
		txt := strings.ToUpper(l.s.TokenText())

		//
		// Look the identifier up in the keyword map, and return
		// the keyword if found.  Anything else is a variable name,
		// truncated to the maximum significant length
		//

		if kw, ok := keywordMap[txt]; ok {
			l.tok = kw
			l.str = txt
			break
		}

		if len(txt) > maxVariableLen {
			if strings.HasSuffix(txt, "$") {
				txt = txt[:maxVariableLen-1] + "$"
			} else {
				txt = txt[:maxVariableLen]
			}
		}

		l.tok = IDENT
		l.str = txt

	case scanner.Int, scanner.Float:
		f, err := strconv.ParseFloat(l.s.TokenText(), 64)
		if err != nil {
			runtimeError(errLexical, EILLEGALNUMBER)
		}

		l.tok = NUMBER
		l.num = f

	case '"':
		l.lexString()

	case '\'':
		l.tok = REM

	case '?':
		l.tok = PRINT

	case '<':
		switch l.s.Peek() {
		case '>':
			_ = l.s.Next()
			l.tok = NE
		case '=':
			_ = l.s.Next()
			l.tok = LE
		default:
			l.tok = LT
		}

	case '>':
		if l.s.Peek() == '=' {
			_ = l.s.Next()
			l.tok = GE
		} else {
			l.tok = GT
		}

	case '=':
		l.tok = EQ

	case '+':
		l.tok = PLUS

	case '-':
		l.tok = MINUS

	case '*':
		l.tok = STAR

	case '/':
		l.tok = SLASH

	case '%':
		l.tok = PERCENT

	case '(':
		l.tok = LPAR

	case ')':
		l.tok = RPAR

	case ',':
		l.tok = COMMA

	case ';':
		l.tok = SEMI

	case ':':
		l.tok = COLON

	default:
		runtimeError(errLexical, "Unknown character '%c'", ch)
	}

	l.pos = l.base + l.s.Pos().Offset
	if l.tok == EOL {
		l.pos = len(l.src)
	}
}

//
// Scan a double quoted string.  There are no escapes, and the string
// must be closed on the same line
//

func (l *lexer) lexString() {

	var buf strings.Builder

	for {
		rch := l.s.Next()
		if rch == scanner.EOF {
			runtimeError(errLexical, "Unterminated string")
		}

		if rch == '"' {
			l.tok = STRING
			l.str = buf.String()
			return
		}

		buf.WriteRune(rch)
	}
}

//
// Abandon the rest of the line (REM, a false IF)
//

func (l *lexer) skipToEOL() {

	l.reseat(len(l.src))
	l.tokPos = len(l.src)
	l.tok = EOL
	l.str = ""
}

//
// Skip the raw text of the statement starting at the current token,
// up to the next ':' outside of quotes or the end of the line, and
// return where it ends.  DATA and DEF bodies are skipped this way,
// as their text is not meant to be tokenized until it is used
//

func (l *lexer) skipStatement() int {

	quoted := false

	i := l.tokPos
	for ; i < len(l.src); i++ {
		c := l.src[i]
		if c == '"' {
			quoted = !quoted
		} else if c == ':' && !quoted {
			break
		}
	}

	l.reseat(i)
	l.next()

	return i
}

//
// This is a dummy to suppress reporting of errors by the scanner
//

func dummyScannerError(s *scanner.Scanner, msg string) {
}

//
// Ident predicate routine for text/scanner.  Names are a letter
// followed by letters and digits, with an optional trailing '$'
// marking a string name
//

func (l *lexer) identRune(ch rune, pos int) bool {

	if pos == 0 {
		l.sawDollar = false
		return isLetter(ch)
	}

	if l.sawDollar {
		return false
	}

	if ch == '$' {
		l.sawDollar = true
		return true
	}

	return isLetter(ch) || isDigit(ch)
}

func isLetter(ch rune) bool {

	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isDigit(ch rune) bool {

	return ch >= '0' && ch <= '9'
}
