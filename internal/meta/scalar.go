// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// numberPattern accepts decimal literals with optional sign, fraction and exponent.
	numberPattern = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

	// zeroPadded protects codes such as identifiers and chapter numbers
	// from numeric coercion.
	zeroPadded = regexp.MustCompile(`^0[0-9]+`)
)

// specialChars force double quoting when they appear in a plain string.
const specialChars = ":#{}[],&*!|>'\"%@`"

// ConvertValue coerces the raw text of a scalar into a Value: booleans
// (true/yes/on, false/no/off), null (null, ~), numbers (except
// zero-padded digit runs), quoted strings, bracketed inline lists and
// plain strings.
func ConvertValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Str("")
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return Bool(true)
	case "false", "no", "off":
		return Bool(false)
	case "null", "~":
		return Null()
	}
	if isNumber(s) {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(n)
		}
	}
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		switch {
		case first == '"' && last == '"':
			return Str(unescapeDouble(s[1 : len(s)-1]))
		case first == '\'' && last == '\'':
			return Str(strings.ReplaceAll(s[1:len(s)-1], "''", "'"))
		case first == '[' && last == ']':
			parts := splitFlow(s[1 : len(s)-1])
			items := make([]Value, len(parts))
			for i, p := range parts {
				items[i] = ConvertValue(p)
			}
			return Seq(items...)
		case s == "{}":
			return Map(nil)
		}
	}
	return Str(s)
}

func isNumber(s string) bool {
	return numberPattern.MatchString(s) && !zeroPadded.MatchString(s)
}

// splitFlow splits the inside of an inline list on commas that are not
// inside quotes. An all-blank body yields no elements.
func splitFlow(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var (
		parts []string
		cur   strings.Builder
		quote byte
	)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' && i+1 < len(body) {
				cur.WriteByte(c)
				i++
				cur.WriteByte(body[i])
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

// needsQuote reports whether a non-empty string would not read back as
// the same plain string.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	if numberPattern.MatchString(s) {
		return true
	}
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no", "on", "off", "null", "~":
		return true
	}
	if strings.ContainsAny(s, specialChars) || strings.ContainsAny(s, "\n\r\t") {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	return strings.HasPrefix(s, "- ") || s == "-" || strings.HasPrefix(s, "---")
}

// quote writes s as a double-quoted scalar.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unescapeDouble reverses quote. Unknown escapes are kept verbatim.
func unescapeDouble(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
