// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package isbn

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		valid       bool
		code        string
		placeholder bool
		msgContains string
	}{
		{
			name:  "twelve digits get a check digit",
			input: "123456789012",
			valid: true,
			code:  "1234567890128",
		},
		{
			name:  "valid thirteen digits",
			input: "9780306406157",
			valid: true,
			code:  "9780306406157",
		},
		{
			name:  "punctuation is ignored",
			input: "ISBN 978-0-306-40615-7",
			valid: true,
			code:  "9780306406157",
		},
		{
			name:        "wrong check digit names the expected one",
			input:       "1234567890121",
			msgContains: "should be 8",
		},
		{
			name:        "too short",
			input:       "978-2-94",
			msgContains: "needs at least 12 digits",
		},
		{
			name:        "too long",
			input:       "97823456789012",
			msgContains: "bad format",
		},
		{
			name:        "empty",
			input:       "",
			msgContains: "needs at least 12 digits",
		},
		{
			name:        "placeholder passes through",
			input:       "978-2-940426-XX-X",
			valid:       true,
			code:        "978-2-940426-XX-X",
			placeholder: true,
		},
		{
			name:        "truncated placeholder is rejected",
			input:       "978-X",
			msgContains: "needs at least 12 digits",
		},
		{
			name:        "placeholder one slot short",
			input:       "978-2-940426-XX",
			msgContains: "needs at least 12 digits",
		},
		{
			name:        "placeholder one slot long",
			input:       "978-2-940426-XX-XX",
			msgContains: "needs at least 12 digits",
		},
		{
			name:        "lowercase placeholder",
			input:       "9782940426xxx",
			valid:       true,
			code:        "9782940426xxx",
			placeholder: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.input)
			if got.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (message %q)", got.Valid, tt.valid, got.Message)
			}
			if got.Code != tt.code {
				t.Errorf("Code = %q, want %q", got.Code, tt.code)
			}
			if got.Placeholder != tt.placeholder {
				t.Errorf("Placeholder = %v, want %v", got.Placeholder, tt.placeholder)
			}
			if tt.msgContains != "" && !strings.Contains(got.Message, tt.msgContains) {
				t.Errorf("Message = %q, want it to contain %q", got.Message, tt.msgContains)
			}
		})
	}
}

func TestValidateNormalizedCodeIsAlwaysThirteenDigits(t *testing.T) {
	for _, in := range []string{"123456789012", "978030640615", "9780306406157", "000000000000"} {
		got := Validate(in)
		if !got.Valid || len(got.Code) != 13 || onlyDigits(got.Code) != got.Code {
			t.Errorf("Validate(%q) = %+v, want a 13-digit code", in, got)
		}
	}
}

func TestChecksum(t *testing.T) {
	tests := map[string]int{
		"123456789012": 8,
		"978030640615": 7,
		"000000000000": 0,
		"978294042601": 0,
		"590123412345": 7,
	}
	for code, want := range tests {
		if got := Checksum(code); got != want {
			t.Errorf("Checksum(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestEncodeAllZeros(t *testing.T) {
	got, err := Encode("0000000000000")
	if err != nil {
		t.Fatal(err)
	}
	want := "101" + strings.Repeat("0001101", 6) + "01010" + strings.Repeat("1110010", 6) + "101"
	if got != want {
		t.Errorf("Encode = %s\nwant     %s", got, want)
	}
}

func TestEncodeShape(t *testing.T) {
	for _, code := range []string{"9780306406157", "1234567890128", "5901234123457", "0000000000000"} {
		t.Run(code, func(t *testing.T) {
			bits, err := Encode(code)
			if err != nil {
				t.Fatal(err)
			}
			if len(bits) != Modules {
				t.Fatalf("len = %d, want %d", len(bits), Modules)
			}
			if !strings.HasPrefix(bits, "101") || !strings.HasSuffix(bits, "101") {
				t.Errorf("missing start or end guard: %s", bits)
			}
			if got := bits[CenterOffset : CenterOffset+5]; got != "01010" {
				t.Errorf("center guard = %s, want 01010", got)
			}
			if strings.Trim(bits, "01") != "" {
				t.Errorf("pattern holds characters other than 0 and 1: %s", bits)
			}
			if got := decode(t, bits); got != code {
				t.Errorf("decoded %s, want %s", got, code)
			}
		})
	}
}

func TestEncodeRejectsBadShape(t *testing.T) {
	for _, code := range []string{"", "123", "978030640615X", "97803064061571"} {
		if _, err := Encode(code); !errors.Is(err, ErrNotEncodable) {
			t.Errorf("Encode(%q) error = %v, want ErrNotEncodable", code, err)
		}
	}
}

func TestBars(t *testing.T) {
	got := Bars("1011001110")
	want := []Bar{{0, 1}, {2, 2}, {6, 3}}
	if len(got) != len(want) {
		t.Fatalf("Bars = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bars[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// decode reverses Encode using the pattern tables, recovering the leading
// digit from the parity of the left half.
func decode(t *testing.T, bits string) string {
	t.Helper()
	lookup := func(table [10]string, chunk string) int {
		for d, p := range table {
			if p == chunk {
				return d
			}
		}
		return -1
	}

	var digits strings.Builder
	var sets strings.Builder
	for i := 0; i < 6; i++ {
		chunk := bits[3+i*7 : 3+(i+1)*7]
		if d := lookup(leftOdd, chunk); d >= 0 {
			sets.WriteByte('O')
			digits.WriteByte(byte('0' + d))
			continue
		}
		if d := lookup(leftEven, chunk); d >= 0 {
			sets.WriteByte('E')
			digits.WriteByte(byte('0' + d))
			continue
		}
		t.Fatalf("left chunk %d (%s) matches no pattern", i, chunk)
	}
	first := -1
	for d, p := range parity {
		if p == sets.String() {
			first = d
		}
	}
	if first < 0 {
		t.Fatalf("parity %s matches no leading digit", sets.String())
	}
	for i := 0; i < 6; i++ {
		start := CenterOffset + 5 + i*7
		d := lookup(right, bits[start:start+7])
		if d < 0 {
			t.Fatalf("right chunk %d matches no pattern", i)
		}
		digits.WriteByte(byte('0' + d))
	}
	return string(byte('0'+first)) + digits.String()
}
