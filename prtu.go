package main

import (
	"math"
	"strconv"
	"strings"
)

//
// PRINT USING format fields
//

type usingField any

type usingLiteral struct {
	ch string
}

type usingString struct {
	width int
}

type usingNumber struct {
	left          int
	right         int
	dollar        bool
	fillchar      bool
	trailingMinus bool
	doComma       bool
	exponential   bool
}

type usingParser struct {
	buf    string
	fields []usingField
	idx    int
}

//
// Largest float64 that 'f' formatting renders exactly
//

const maxExactFloat = 9007199254740992.0

//
// Format the values with a PRINT USING format string.  Walk the
// field list, consuming values until they are exhausted.  If we run
// out of fields with values left over, the line is ended and the
// format starts over
//

func formatUsing(format string, values []value) string {

	var out strings.Builder

	fields := parseUsing(format)

	fieldIdx, valIdx := 0, 0

	for valIdx < len(values) {

		//
		// A format with no descriptors at all can never consume a
		// value, something like: PRINT USING "hello"; 12345
		//

		if fieldIdx == len(fields) {
			if valIdx == 0 {
				badFormat("")
			}
			out.WriteString("\n")
			fieldIdx = 0
		}

		f := fields[fieldIdx]
		fieldIdx++

		if lit, ok := f.(usingLiteral); ok {
			out.WriteString(lit.ch)
			continue
		}

		v := values[valIdx]
		valIdx++

		switch f := f.(type) {
		case usingString:
			if v.kind != strKind {
				runtimeError(errTypeMismatch, ETYPEMISMATCH+": string expected by PRINT USING")
			}
			out.WriteString(padString(v.str, f.width))

		case usingNumber:
			if v.kind != numKind {
				runtimeError(errTypeMismatch, ETYPEMISMATCH+": number expected by PRINT USING")
			}
			out.WriteString(usingFormatNumber(v.num, f))
		}
	}

	//
	// Trailing literal text after the last descriptor is printed too
	//

	for ; fieldIdx < len(fields); fieldIdx++ {
		lit, ok := fields[fieldIdx].(usingLiteral)
		if !ok {
			break
		}
		out.WriteString(lit.ch)
	}

	return out.String()
}

//
// Truncate or blank-pad a string to exactly width characters
//

func padString(s string, width int) string {

	if len(s) >= width {
		return s[:width]
	}

	return s + strings.Repeat(" ", width-len(s))
}

func usingFormatNumber(num float64, info usingNumber) string {

	var tmpstr, rbuf, buf string

	fillch := " "
	left := info.left
	right := info.right

	//
	// Asterisk fill and the floating dollar sign cannot be used
	// for negative numbers unless trailing minus is enabled
	//

	if num < 0 && !info.trailingMinus && (info.dollar || info.fillchar) {
		badFormat("for negative number")
	}

	//
	// 'f' format generates extraneous digits past the mantissa, and
	// 'g' would switch to exponential format for large numbers, so
	// anything too big to render exactly is flagged as an overflow
	//

	if info.exponential {
		tmpstr = strconv.FormatFloat(num, 'e', right, 64)
	} else if math.Abs(num) >= maxExactFloat {
		return "%" + strconv.FormatFloat(num, 'g', -1, 64)
	} else {
		tmpstr = strconv.FormatFloat(num, 'f', right, 64)
	}

	if info.dollar {
		left += 2
		tmpstr = "$" + tmpstr
	} else if info.fillchar {
		left += 2
		fillch = "*"
	}

	mant, exp, hasExp := strings.Cut(tmpstr, "e")
	if hasExp {
		exp = "E" + exp
	}

	intPart, fracPart, hasFrac := strings.Cut(mant, ".")

	llen := len(intPart)

	if llen > left {
		return "%" + strings.TrimPrefix(tmpstr, "$")
	}

	buf = strings.Repeat(fillch, left-llen)

	if hasFrac {
		if len(fracPart) > right {
			fracPart = fracPart[:right]
		}
		rbuf = "." + fracPart
	} else if right > 0 {
		rbuf = "." + strings.Repeat("0", right)
	}

	rbuf += exp

	if info.doComma {
		var grouped strings.Builder

		digits := strings.TrimLeft(intPart, "$-")
		prefix := intPart[:len(intPart)-len(digits)]
		ncommas := 0

		for i := range len(digits) {
			if i > 0 && (len(digits)-i)%3 == 0 {
				grouped.WriteByte(',')
				ncommas++
			}
			grouped.WriteByte(digits[i])
		}

		intPart = prefix + grouped.String()
		buf = strings.TrimPrefix(buf, strings.Repeat(fillch, ncommas))
	}

	buf += intPart + rbuf

	if info.trailingMinus && num < 0 {
		buf = strings.Replace(buf, "-", "", 1) + "-"
	}

	return buf
}

func badFormat(msg string) {

	tstr := "Format error"
	if msg != "" {
		tstr += " " + msg
	}

	runtimeError(errSyntax, tstr)
}

func (pp *usingParser) save(f usingField) {

	//
	// Asterisk fill and dollar sign cannot be used in exponential mode
	//

	if info, ok := f.(usingNumber); ok {
		if (info.dollar || info.fillchar) && info.exponential {
			badFormat("")
		}
	}

	pp.fields = append(pp.fields, f)
}

//
// Field syntax:
//
//   #    digit position         .    decimal point
//   ,    group thousands        -    trailing minus
//   $$   floating dollar sign   **   asterisk fill
//   ^^^^ exponential form       !    first character of a string
//   \  \ string of the width between and including the backslashes
//
// Anything else is literal text
//

func parseUsing(format string) []usingField {

	var pending usingNumber

	pp := &usingParser{buf: format}

	for {
		switch pp.peekch() {
		default:
			pp.save(usingLiteral{string(pp.getch())})

		case 0:
			return pp.fields

		case '$':
			pp.idx++

			if pp.peekch() != '$' {
				pp.save(usingLiteral{"$"})
			} else {
				pp.idx++
				pending.dollar = true
			}

		case '*':
			pp.idx++

			if pp.peekch() != '*' {
				pp.save(usingLiteral{"*"})
			} else {
				pp.idx++
				pending.fillchar = true
			}

		case '#':
			info := pending
			pending = usingNumber{}

			tmp, comma := pp.getseq('#', ',')
			info.left = len(tmp)
			info.doComma = comma

			if pp.peekch() == '.' {
				pp.idx++

				if pp.peekch() != '#' {
					badFormat("")
				}

				tmp, comma = pp.getseq('#', ',')
				info.right = len(tmp)
				info.doComma = info.doComma || comma
			}

			switch pp.peekch() {
			case '-':
				info.trailingMinus = true
				pp.idx++
			case '^':
				info.exponential = pp.checkExponential()
			}

			pp.save(info)

		case '\\':
			pch := pp.getch()
			tmp, _ := pp.getseq(' ', 0)

			if pp.peekch() != '\\' {
				badFormat("")
			}

			tmp = string(pch) + tmp + string(pp.getch())

			pp.save(usingString{len(tmp)})

		case '!':
			pp.idx++
			pp.save(usingString{1})
		}
	}
}

func (pp *usingParser) checkExponential() bool {

	tmp, _ := pp.getseq('^', 0)
	if len(tmp) < 4 || len(tmp) > 5 {
		badFormat("")
	}

	return true
}

func (pp *usingParser) getseq(b1, b2 byte) (string, bool) {

	tmpbuf := make([]byte, 0)
	sawb2 := false

	for {
		pch := pp.peekch()
		if pch == b2 && pch != 0 {
			sawb2 = true
			pp.idx++
		} else if pch == b1 {
			tmpbuf = append(tmpbuf, pp.getch())
		} else {
			break
		}
	}

	return string(tmpbuf), sawb2
}

func (pp *usingParser) peekch() byte {

	if pp.idx == len(pp.buf) {
		return 0
	}

	return pp.buf[pp.idx]
}

func (pp *usingParser) getch() byte {

	basicAssert(pp.idx < len(pp.buf), "PRINT USING buffer botch")

	ch := pp.buf[pp.idx]
	pp.idx++

	return ch
}
