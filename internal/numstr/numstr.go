// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package numstr canonicalises the textual form of decimal numbers without
// changing their mathematical value.
package numstr

import "strings"

// MaxLength is the longest numeric string accepted. Longer strings are
// rejected to guard against silent precision loss downstream.
const MaxLength = 128

// parts is a split numeric literal: sign, integer digits, fraction digits
// and exponent. Digit strings exclude the sign and separators.
type parts struct {
	neg      bool
	integer  string
	fraction string
	hasExp   bool
	expNeg   bool
	exp      string
}

// split parses s as [+-]?(digits(.digits?)?|.digits)([eE][+-]?digits)?.
func split(s string) (parts, bool) {
	var p parts
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		p.neg = s[i] == '-'
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	p.integer = s[start:i]

	if i < len(s) && s[i] == '.' {
		i++
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		p.fraction = s[start:i]
	}
	if p.integer == "" && p.fraction == "" {
		return parts{}, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		p.hasExp = true
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			p.expNeg = s[i] == '-'
			i++
		}
		start = i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		p.exp = s[start:i]
		if p.exp == "" {
			return parts{}, false
		}
	}
	return p, i == len(s)
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// IsNumeric reports whether s, once surrounding whitespace is trimmed, is
// a decimal number literal.
func IsNumeric(s string) bool {
	_, ok := split(strings.TrimSpace(s))
	return ok
}

// Normalize returns the canonical form of the numeric string s:
//
//  1. surrounding whitespace is trimmed
//  2. a leading "+" is dropped
//  3. redundant leading zeros of the mantissa and exponent are stripped
//  4. a bare decimal point gets a leading "0"
//  5. trailing fractional zeros are stripped, and the point with them
//  6. an exponent of ±0 is dropped
//  7. the exponent marker becomes "e" followed by an explicit sign
//
// For example "+00012.34000e005" becomes "12.34e+5". Normalize reports
// false if s is not numeric.
func Normalize(s string) (string, bool) {
	p, ok := split(strings.TrimSpace(s))
	if !ok {
		return "", false
	}

	integer := strings.TrimLeft(p.integer, "0")
	if integer == "" {
		integer = "0"
	}
	fraction := strings.TrimRight(p.fraction, "0")

	var sb strings.Builder
	sb.Grow(len(s))
	if p.neg {
		sb.WriteByte('-')
	}
	sb.WriteString(integer)
	if fraction != "" {
		sb.WriteByte('.')
		sb.WriteString(fraction)
	}

	exp := strings.TrimLeft(p.exp, "0")
	if p.hasExp && exp != "" {
		sb.WriteByte('e')
		if p.expNeg {
			sb.WriteByte('-')
		} else {
			sb.WriteByte('+')
		}
		sb.WriteString(exp)
	}
	return sb.String(), true
}

// IsInteger reports whether the canonical numeric string s is written as
// an optionally negative run of digits.
func IsInteger(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
