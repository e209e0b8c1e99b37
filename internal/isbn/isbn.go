// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package isbn cleans and validates ISBN strings as they arrive from the
// catalog or from hand edits.
package isbn

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean folds full-width characters to ASCII and removes hyphens, other dash
// punctuation, and whitespace. It does not validate the result.
func Clean(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.Is(unicode.Pd, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Valid reports whether s is a cleaned ISBN-10 or ISBN-13 with a correct
// check digit.
func Valid(s string) bool {
	switch len(s) {
	case 10:
		return strings.ToUpper(s) == base10(s[:9])
	case 13:
		return valid13(s)
	}
	return false
}

func valid13(s string) bool {
	check, ok := check13(s[:12])
	if !ok {
		return false
	}
	return strconv.Itoa(check) == s[12:]
}

// check13 computes the ISBN-13 check digit for a 12-digit base.
func check13(base string) (int, bool) {
	sum := 0
	for i, c := range base {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10, true
}

// base10 returns the nine-digit base with its ISBN-10 check character
// appended, or "" when base contains a non-digit.
func base10(base string) string {
	sum := 0
	for i, c := range base {
		if c < '0' || c > '9' {
			return ""
		}
		sum += int(c-'0') * (10 - i)
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return base + "X"
	}
	return base + strconv.Itoa(check)
}
