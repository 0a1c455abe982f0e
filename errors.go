package main

import (
	"fmt"
)

//
// Manifest constants for the error messages the interpreter raises
// in more than one place.  One-off messages are spelled out where
// they are raised
//

const (
	EINTERRUPTED       = "Interrupted"
	EMATRIXTOOLARGE    = "Array or matrix too large"
	EFLOATINGERROR     = "Floating point error"
	EILLEGALNUMBER     = "Illegal number"
	ELOGERROR          = "Argument to LOG <= 0"
	ESQRERROR          = "Argument to SQR is negative"
	ESUBSCRIPTERROR    = "Subscript out of range"
	EOUTOFDATA         = "Out of data"
	EONERROR           = "ON statement out of range"
	EDIVISIONBYZERO    = "Division by 0"
	EILLEGALLINENUMBER = "Illegal line number"
	EDATASYNTAX        = "Syntax error in DATA"
	ETYPEMISMATCH      = "Type mismatch"
	EPROGRAMTOOLARGE   = "Program too large"
	ETOOMANYVARIABLES  = "Too many variables"
	ETOOMANYARRAYS     = "Too many arrays"
	EFORSTACKOVERFLOW  = "FOR stack overflow"
	EGOSUBOVERFLOW     = "GOSUB stack overflow"
	ERETURNWITHOUT     = "RETURN without GOSUB"
	ENEXTWITHOUTFOR    = "NEXT without FOR"
	EFNTOODEEP         = "FN recursion too deep"
	EUNEXPECTEDEOL     = "Unexpected end of line"
	EBADSTATEMENT      = "Syntax error or unknown command"
)

type errorKind int

const (
	errLexical errorKind = iota
	errSyntax
	errTypeMismatch
	errRange
	errResourceExhausted
	errControlFlow
	errArithmetic
	errIO
	errInterrupted
	errInternal
)

var errorKindNames = [...]string{
	errLexical:           "LexicalError",
	errSyntax:            "SyntaxError",
	errTypeMismatch:      "TypeMismatchError",
	errRange:             "RangeError",
	errResourceExhausted: "ResourceExhaustedError",
	errControlFlow:       "ControlFlowError",
	errArithmetic:        "ArithmeticError",
	errIO:                "IOError",
	errInterrupted:       "Interrupted",
	errInternal:          "InternalError",
}

func (k errorKind) String() string {

	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}

	return fmt.Sprintf("errorKind(%d)", int(k))
}

//
// A runtime error.  lineNo is filled in by call() from the program
// counter when the panic is recovered, and stays 0 for errors in a
// direct-mode line
//

type basicError struct {
	kind   errorKind
	msg    string
	lineNo int
}

func (e *basicError) Error() string {

	if e.lineNo > 0 {
		return fmt.Sprintf("Error in line %d: %s", e.lineNo, e.msg)
	}

	return "Error: " + e.msg
}

//
// Abort the current statement.  Everything the statement already
// committed stays committed; the host decides what happens next
//

func runtimeError(kind errorKind, format string, args ...any) {

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	panic(&basicError{kind: kind, msg: msg})
}

func runtimeCheck(cond bool, kind errorKind, msg string) {

	if !cond {
		runtimeError(kind, msg)
	}
}

//
// Internal consistency checks.  These should never fire
//

func basicAssert(cond bool, msg string) {

	if !cond {
		runtimeError(errInternal, "Assertion failed: %s", msg)
	}
}
