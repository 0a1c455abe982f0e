package main

import (
	"math"
	"strings"
)

//
// Expression evaluation, by recursive descent over the tokens of the
// current line.  Precedence, lowest first:
//
//   OR
//   AND
//   NOT
//   = <> < > <= >=
//   + -
//   * / % MOD
//   unary + -
//   primaries
//
// Binary operators of equal precedence associate to the left.
// Relational and logical operators yield -1 for true and 0 for false
//

func (in *interp) expression() value {

	return in.orExpr()
}

func (in *interp) orExpr() value {

	left := in.andExpr()

	for in.lex.tok == OR {
		in.lex.next()
		right := in.andExpr()
		l, r := numericOperands("OR", left, right)
		left = boolValue(l != 0 || r != 0)
	}

	return left
}

func (in *interp) andExpr() value {

	left := in.notExpr()

	for in.lex.tok == AND {
		in.lex.next()
		right := in.notExpr()
		l, r := numericOperands("AND", left, right)
		left = boolValue(l != 0 && r != 0)
	}

	return left
}

func (in *interp) notExpr() value {

	if in.lex.tok != NOT {
		return in.relational()
	}

	in.lex.next()

	v := in.notExpr()
	if v.kind != numKind {
		runtimeError(errTypeMismatch, ETYPEMISMATCH+": NOT expects a number")
	}

	return boolValue(v.num == 0)
}

func (in *interp) relational() value {

	left := in.additive()

	for {
		op := in.lex.tok
		switch op {
		case EQ, NE, LT, GT, LE, GE:
		default:
			return left
		}

		in.lex.next()
		right := in.additive()

		if left.kind != right.kind {
			runtimeError(errTypeMismatch, ETYPEMISMATCH+" in comparison")
		}

		var cmp int
		if left.kind == strKind {
			cmp = strings.Compare(left.str, right.str)
		} else if left.num < right.num {
			cmp = -1
		} else if left.num > right.num {
			cmp = 1
		}

		switch op {
		case EQ:
			left = boolValue(cmp == 0)
		case NE:
			left = boolValue(cmp != 0)
		case LT:
			left = boolValue(cmp < 0)
		case GT:
			left = boolValue(cmp > 0)
		case LE:
			left = boolValue(cmp <= 0)
		case GE:
			left = boolValue(cmp >= 0)
		}
	}
}

func (in *interp) additive() value {

	left := in.term()

	for {
		op := in.lex.tok
		if op != PLUS && op != MINUS {
			return left
		}

		in.lex.next()
		right := in.term()

		if op == PLUS && left.kind == strKind && right.kind == strKind {
			left = strValue(left.str + right.str)
			continue
		}

		l, r := numericOperands(tokenName(op), left, right)
		if op == PLUS {
			left = numValue(checkFloat(l + r))
		} else {
			left = numValue(checkFloat(l - r))
		}
	}
}

func (in *interp) term() value {

	left := in.unary()

	for {
		op := in.lex.tok
		switch op {
		case STAR, SLASH, PERCENT, MOD:
		default:
			return left
		}

		in.lex.next()
		right := in.unary()

		l, r := numericOperands(tokenName(op), left, right)

		switch op {
		case STAR:
			left = numValue(checkFloat(l * r))

		case SLASH:
			runtimeCheck(r != 0, errArithmetic, EDIVISIONBYZERO)
			left = numValue(checkFloat(l / r))

		//
		// The remainder is taken on the integer parts of both
		// operands, truncating toward zero
		//

		case PERCENT, MOD:
			li, ri := truncInt(l), truncInt(r)
			runtimeCheck(ri != 0, errArithmetic, EDIVISIONBYZERO)
			left = numValue(float64(li % ri))
		}
	}
}

func (in *interp) unary() value {

	switch in.lex.tok {
	case MINUS:
		in.lex.next()
		v := in.unary()
		if v.kind != numKind {
			runtimeError(errTypeMismatch, ETYPEMISMATCH+": unary '-' expects a number")
		}
		return numValue(-v.num)

	case PLUS:
		in.lex.next()
		v := in.unary()
		if v.kind != numKind {
			runtimeError(errTypeMismatch, ETYPEMISMATCH+": unary '+' expects a number")
		}
		return v
	}

	return in.primary()
}

func (in *interp) primary() value {

	l := in.lex

	switch l.tok {
	case NUMBER:
		v := numValue(l.num)
		l.next()
		return v

	case STRING:
		v := strValue(l.str)
		l.next()
		return v

	case IDENT:
		return in.identExpr()

	case LPAR:
		l.next()
		v := in.expression()
		in.expect(RPAR, "Missing ')'")
		return v

	case INKEYS:
		l.next()
		return strValue(in.keys.readKey())

	case TAB, SPC:
		runtimeError(errSyntax, "%s is only valid in PRINT", tokenName(l.tok))

	case EOL:
		runtimeError(errSyntax, EUNEXPECTEDEOL)
	}

	if isBuiltin(l.tok) {
		return in.builtin(l.tok)
	}

	runtimeError(errSyntax, "Expected number, variable, or function, found %s",
		tokenName(l.tok))

	return value{}
}

//
// A variable, an array element or a user function call
//

func (in *interp) identExpr() value {

	name := in.lex.str
	in.lex.next()

	if in.lex.tok != LPAR {
		return in.getVar(name)
	}

	if isFnName(name) {
		return in.callUserFunction(name)
	}

	return in.arrayGet(name, in.subscripts())
}

//
// Parse '(' expr [, expr]... ')' as integer subscripts
//

func (in *interp) subscripts() []int {

	var subs []int

	in.expect(LPAR, "Expected '('")

	for {
		f := in.numericExpr("Subscripts must be numeric")
		subs = append(subs, subscriptIndex(f))

		if in.lex.tok != COMMA {
			break
		}
		in.lex.next()
	}

	in.expect(RPAR, "Missing ')' after subscripts")

	return subs
}

//
// Truncate a subscript toward zero.  Values that cannot be valid are
// clamped so the bounds check rejects them
//

func subscriptIndex(f float64) int {

	t := math.Trunc(f)

	if t < -1 || math.IsNaN(t) {
		return -1
	}

	if t > math.MaxInt32 {
		return math.MaxInt32
	}

	return int(t)
}

func truncInt(f float64) int64 {

	t := math.Trunc(f)

	if t >= math.MaxInt64 || t <= math.MinInt64 || math.IsNaN(t) {
		runtimeError(errArithmetic, EFLOATINGERROR)
	}

	return int64(t)
}

func (in *interp) numericExpr(msg string) float64 {

	v := in.expression()
	if v.kind != numKind {
		runtimeError(errTypeMismatch, "%s: %s", ETYPEMISMATCH, msg)
	}

	return v.num
}

func (in *interp) stringExpr(msg string) string {

	v := in.expression()
	if v.kind != strKind {
		runtimeError(errTypeMismatch, "%s: %s", ETYPEMISMATCH, msg)
	}

	return v.str
}

func (in *interp) expect(tok token, msg string) {

	if in.lex.tok != tok {
		if in.lex.tok == EOL {
			runtimeError(errSyntax, "%s (%s)", msg, EUNEXPECTEDEOL)
		}
		runtimeError(errSyntax, msg)
	}

	in.lex.next()
}

func (in *interp) expectIdent(msg string) string {

	if in.lex.tok != IDENT {
		runtimeError(errSyntax, msg)
	}

	name := in.lex.str
	in.lex.next()

	return name
}

func numericOperands(op string, left, right value) (float64, float64) {

	if left.kind != numKind || right.kind != numKind {
		runtimeError(errTypeMismatch, "%s: %s expects numbers", ETYPEMISMATCH, op)
	}

	return left.num, right.num
}

//
// Check the result of a floating operation for Inf or NaN
//

func checkFloat(f float64) float64 {

	if math.IsInf(f, 0) || math.IsNaN(f) {
		runtimeError(errArithmetic, EFLOATINGERROR)
	}

	return f
}

//
// User functions are FNA through FNZ, each with one parameter.
// The parameter is bound for the duration of the call and its prior
// value (or absence) is put back afterwards
//

func isFnName(name string) bool {

	return len(name) == 3 && strings.HasPrefix(name, "FN") &&
		name[2] >= 'A' && name[2] <= 'Z'
}

func (in *interp) callUserFunction(name string) value {

	fn := &in.fns[name[2]-'A']
	if !fn.defined {
		runtimeError(errSyntax, "Undefined function %s", name)
	}

	in.expect(LPAR, "Expected '(' after "+name)
	arg := in.expression()
	in.expect(RPAR, "Missing ')' after "+name+" argument")

	runtimeCheck(in.fnDepth < in.cfg.FnRecursionDepth, errResourceExhausted,
		EFNTOODEEP)

	saved := in.lex.save()
	prior, existed := in.vars[fn.param]

	in.setVar(fn.param, arg)
	in.fnDepth++

	in.lex.start(fn.body)
	v := in.expression()
	if in.lex.tok != EOL {
		runtimeError(errSyntax, "Unexpected %s in %s", tokenName(in.lex.tok), name)
	}

	in.fnDepth--

	if existed {
		in.vars[fn.param] = prior
	} else {
		delete(in.vars, fn.param)
	}

	in.lex.restore(saved)

	return v
}
