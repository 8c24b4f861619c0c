// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package isbn validates 13-digit book identifiers (ISBN-13 / EAN-13) and
// encodes them into the 95-module bar pattern printed on back covers.
//
// Validation never fails with an error: it returns a Result describing
// whether the input is usable and why not. Encode expects a code that
// Validate accepted.
package isbn

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of one validation. It is immutable.
type Result struct {
	// Valid reports whether the identifier can be used.
	Valid bool `json:"valid" yaml:"valid"`

	// Code is the normalized 13-digit code, or the placeholder text as
	// given when Placeholder is set. Empty when Valid is false.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`

	// Placeholder marks a reserved identifier whose digits are not
	// assigned yet (e.g. "978-2-940426-XX-X"). It has no checksum and
	// cannot be encoded.
	Placeholder bool `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// Message explains a failure, or describes what normalization did.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// placeholderPattern accepts the 978 prefix followed by digits and hyphens
// with a run of X filler standing in for unassigned digits. A placeholder
// must also fill all 13 slots, see isPlaceholder.
var placeholderPattern = regexp.MustCompile(`^978[\d-]*X[X-]*[\d-]*$`)

// isPlaceholder reports whether raw (spaces removed, upper case) is a
// complete placeholder: the pattern above with 13 digit or filler slots.
func isPlaceholder(raw string) bool {
	if !placeholderPattern.MatchString(raw) {
		return false
	}
	slots := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] != '-' {
			slots++
		}
	}
	return slots == 13
}

// Validate checks an identifier written with arbitrary punctuation.
//
//   - placeholder text filling 13 slots is accepted as is, without
//     checksum verification;
//   - 12 digits get their check digit computed and appended;
//   - 13 digits must carry the right check digit;
//   - anything else is rejected.
func Validate(input string) Result {
	raw := strings.ToUpper(strings.Join(strings.Fields(input), ""))
	if isPlaceholder(raw) {
		return Result{Valid: true, Code: strings.TrimSpace(input), Placeholder: true, Message: "placeholder"}
	}

	digits := onlyDigits(input)
	switch {
	case len(digits) < 12:
		return Result{Message: fmt.Sprintf("needs at least 12 digits, got %d", len(digits))}
	case len(digits) == 12:
		check := Checksum(digits)
		return Result{
			Valid:   true,
			Code:    digits + string('0'+byte(check)),
			Message: fmt.Sprintf("check digit %d added", check),
		}
	case len(digits) == 13:
		want := Checksum(digits[:12])
		got := int(digits[12] - '0')
		if got != want {
			return Result{Message: fmt.Sprintf("bad check digit %d, should be %d", got, want)}
		}
		return Result{Valid: true, Code: digits}
	default:
		return Result{Message: fmt.Sprintf("bad format: %d digits", len(digits))}
	}
}

// Checksum computes the check digit over the first 12 digits of code:
// weight 1 at even positions, 3 at odd positions, then (10 - sum%10) % 10.
// Non-digit bytes must have been removed by the caller.
func Checksum(code string) int {
	sum := 0
	for i := 0; i < 12 && i < len(code); i++ {
		d := int(code[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
