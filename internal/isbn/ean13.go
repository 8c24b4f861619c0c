// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isbn

import (
	"errors"
	"fmt"
	"strings"
)

// Symbol geometry of an EAN-13 bar pattern, in modules.
const (
	Modules      = 95
	guardModules = 3
	digitModules = 7
	// CenterOffset is the position of the center guard: start guard plus
	// six left-hand digits.
	CenterOffset = guardModules + 6*digitModules
)

const (
	startGuard  = "101"
	centerGuard = "01010"
	endGuard    = "101"
)

// Digit patterns of the EAN-13 symbology. Left-hand digits use the odd (L)
// or even (G) set as chosen by the leading digit; right-hand digits use R.
var (
	leftOdd = [10]string{
		"0001101", "0011001", "0010011", "0111101", "0100011",
		"0110001", "0101111", "0111011", "0110111", "0001011",
	}
	leftEven = [10]string{
		"0100111", "0110011", "0011011", "0100001", "0011101",
		"0111001", "0000101", "0010001", "0001001", "0010111",
	}
	right = [10]string{
		"1110010", "1100110", "1101100", "1000010", "1011100",
		"1001110", "1010000", "1000100", "1001000", "1110100",
	}

	// parity maps the leading digit to the O/E sets of digits 1-6.
	parity = [10]string{
		"OOOOOO", "OOEOEE", "OOEEOE", "OOEEEO", "OEOOEE",
		"OEEOOE", "OEEEOO", "OEOEOE", "OEOEEO", "OEEOEO",
	}
)

// ErrNotEncodable reports a code that is not 13 digits.
var ErrNotEncodable = errors.New("code must be exactly 13 digits")

// Encode returns the 95-character string of '0' (space) and '1' (bar)
// modules for a 13-digit code. Callers validate the code first; Encode
// checks only its shape and does not verify the check digit.
func Encode(code string) (string, error) {
	if len(code) != 13 || onlyDigits(code) != code {
		return "", fmt.Errorf("encoding %q: %w", code, ErrNotEncodable)
	}

	var b strings.Builder
	b.Grow(Modules)
	b.WriteString(startGuard)

	sets := parity[code[0]-'0']
	for i := 1; i <= 6; i++ {
		d := code[i] - '0'
		if sets[i-1] == 'O' {
			b.WriteString(leftOdd[d])
		} else {
			b.WriteString(leftEven[d])
		}
	}

	b.WriteString(centerGuard)
	for i := 7; i <= 12; i++ {
		b.WriteString(right[code[i]-'0'])
	}
	b.WriteString(endGuard)

	return b.String(), nil
}

// Bar is a run of adjacent ink modules.
type Bar struct {
	Start int `json:"start"`
	Width int `json:"width"`
}

// Bars collapses a module pattern into runs of ink, the shape a renderer
// draws as rectangles.
func Bars(pattern string) []Bar {
	var bars []Bar
	for i := 0; i < len(pattern); {
		if pattern[i] != '1' {
			i++
			continue
		}
		j := i
		for j < len(pattern) && pattern[j] == '1' {
			j++
		}
		bars = append(bars, Bar{Start: i, Width: j - i})
		i = j
	}
	return bars
}
