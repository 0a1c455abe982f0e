package main

import (
	"math"
	"strconv"
	"strings"
)

//
// Builtin functions.  Every builtin except RND takes a parenthesized
// argument list; RND's argument is optional and ignored
//

var builtinArity = map[token][2]int{
	ABS: {1, 1}, ATN: {1, 1}, COS: {1, 1}, EXP: {1, 1}, INT: {1, 1},
	LOG: {1, 1}, SGN: {1, 1}, SIN: {1, 1}, SQR: {1, 1}, TAN: {1, 1},
	LEN: {1, 1}, ASC: {1, 1}, VAL: {1, 1}, CHRS: {1, 1}, STRS: {1, 1},
	LEFTS: {2, 2}, RIGHTS: {2, 2}, MIDS: {2, 3}, RND: {0, 1},
}

func isBuiltin(tok token) bool {

	_, ok := builtinArity[tok]

	return ok
}

func (in *interp) builtin(fn token) value {

	name := tokenName(fn)

	in.lex.next()

	if fn == RND {
		if in.lex.tok == LPAR {
			in.lex.next()
			if in.lex.tok != RPAR {
				_ = in.numericExpr("RND expects a number")
			}
			in.expect(RPAR, "Missing ')' for RND")
		}

		return numValue(in.rng.Float64())
	}

	args := in.argList(name)

	arity := builtinArity[fn]
	if len(args) < arity[0] || len(args) > arity[1] {
		runtimeError(errSyntax, "Wrong number of arguments to %s", name)
	}

	switch fn {
	case ABS:
		return numValue(math.Abs(argNum(name, args, 0)))

	case ATN:
		return numValue(math.Atan(argNum(name, args, 0)))

	case COS:
		return numValue(checkFloat(math.Cos(argNum(name, args, 0))))

	case SIN:
		return numValue(checkFloat(math.Sin(argNum(name, args, 0))))

	case TAN:
		return numValue(checkFloat(math.Tan(argNum(name, args, 0))))

	case EXP:
		return numValue(checkFloat(math.Exp(argNum(name, args, 0))))

	case INT:
		return numValue(math.Floor(argNum(name, args, 0)))

	case LOG:
		x := argNum(name, args, 0)
		runtimeCheck(x > 0, errArithmetic, ELOGERROR)
		return numValue(math.Log(x))

	case SQR:
		x := argNum(name, args, 0)
		runtimeCheck(x >= 0, errArithmetic, ESQRERROR)
		return numValue(math.Sqrt(x))

	case SGN:
		x := argNum(name, args, 0)
		switch {
		case x > 0:
			return numValue(1)
		case x < 0:
			return numValue(-1)
		}
		return numValue(0)

	case LEN:
		return numValue(float64(len(argStr(name, args, 0))))

	case ASC:
		s := argStr(name, args, 0)
		runtimeCheck(len(s) > 0, errRange, "ASC of empty string")
		return numValue(float64(s[0]))

	case VAL:
		return numValue(parseNumericPrefix(argStr(name, args, 0)))

	case CHRS:
		n := argNum(name, args, 0)
		runtimeCheck(n >= 0 && n < 256, errRange, "CHR$ argument out of range")
		return strValue(string([]byte{byte(n)}))

	case STRS:
		return strValue(basicFormat(argNum(name, args, 0)))

	case LEFTS:
		s := argStr(name, args, 0)
		n := argCount(name, args, 1)
		return strValue(s[:min(n, len(s))])

	case RIGHTS:
		s := argStr(name, args, 0)
		n := argCount(name, args, 1)
		return strValue(s[len(s)-min(n, len(s)):])

	//
	// MID$(s, start [, n]) with a 1-based start.  A start past the
	// end of the string yields the empty string
	//

	case MIDS:
		s := argStr(name, args, 0)
		start := argNum(name, args, 1)
		runtimeCheck(start >= 1, errRange, "MID$ start must be >= 1")

		first := int(min(start, float64(len(s)+1))) - 1
		last := len(s)

		if len(args) == 3 {
			n := argCount(name, args, 2)
			last = min(first+n, len(s))
		}

		return strValue(s[first:last])
	}

	basicAssert(false, "unhandled builtin "+name)

	return value{}
}

func (in *interp) argList(name string) []value {

	var args []value

	in.expect(LPAR, "Expected '(' for "+name)

	if in.lex.tok == RPAR {
		in.lex.next()
		return args
	}

	for {
		args = append(args, in.expression())

		if in.lex.tok != COMMA {
			break
		}
		in.lex.next()
	}

	in.expect(RPAR, "Missing ')' for "+name)

	return args
}

func argNum(name string, args []value, i int) float64 {

	if args[i].kind != numKind {
		runtimeError(errTypeMismatch, "%s: %s expects a number", ETYPEMISMATCH, name)
	}

	return args[i].num
}

func argStr(name string, args []value, i int) string {

	if args[i].kind != strKind {
		runtimeError(errTypeMismatch, "%s: %s expects a string", ETYPEMISMATCH, name)
	}

	return args[i].str
}

//
// A non-negative character count
//

func argCount(name string, args []value, i int) int {

	n := argNum(name, args, i)
	runtimeCheck(n >= 0, errRange, name+" length must not be negative")

	return int(min(n, math.MaxInt32))
}

//
// Parse the longest numeric prefix of s, ignoring leading blanks.
// Anything unparsable yields 0
//

func parseNumericPrefix(s string) float64 {

	s = strings.TrimLeft(s, " \t")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
		digits++
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
			digits++
		}
	}

	if digits == 0 {
		return 0
	}

	end := i

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		k := j
		for k < len(s) && isDigit(rune(s[k])) {
			k++
		}

		if k > j {
			end = k
		}
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}

	return f
}
