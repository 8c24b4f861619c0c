// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"strings"
	"unicode/utf8"
)

const (
	// maxInlineItems is the largest sequence written in [a, b] form.
	maxInlineItems = 5
	// maxInlineItemLen bounds the length of each inline item.
	maxInlineItemLen = 40
)

// Stringify writes m as "key: value" lines, without delimiters. Entries
// appear in insertion order; m is not modified.
func Stringify(m *Mapping) string {
	var b strings.Builder
	writeMapping(&b, m, 0)
	return b.String()
}

// StringifyFrontMatter writes m between "---" delimiter lines, the form
// used for export.
func StringifyFrontMatter(m *Mapping) string {
	return "---\n" + Stringify(m) + "---\n"
}

func writeMapping(b *strings.Builder, m *Mapping, indent int) {
	for _, e := range m.Entries() {
		writeEntry(b, indent, e.Key, e.Value)
	}
}

func writeEntry(b *strings.Builder, indent int, key string, v Value) {
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString(key)
	b.WriteByte(':')

	switch v.kind {
	case KindNull:
		b.WriteString(" null\n")
	case KindBool, KindNumber:
		b.WriteString(" " + v.Text() + "\n")
	case KindString:
		switch {
		case v.s == "":
			b.WriteByte('\n')
		case isBlockString(v.s):
			b.WriteString(" |\n")
			writeBlockLines(b, indent+2, v.s)
		default:
			b.WriteString(" " + scalarText(v.s) + "\n")
		}
	case KindSequence:
		if len(v.seq) == 0 {
			b.WriteString(" []\n")
			return
		}
		if isInline(v.seq) {
			b.WriteString(" " + flowSequence(v.seq) + "\n")
			return
		}
		b.WriteByte('\n')
		for _, item := range v.seq {
			writeItem(b, indent+2, item)
		}
	case KindMapping:
		if v.m.Len() == 0 {
			b.WriteString(" {}\n")
			return
		}
		b.WriteByte('\n')
		writeMapping(b, v.m, indent+2)
	}
}

func writeItem(b *strings.Builder, indent int, v Value) {
	pad := strings.Repeat(" ", indent)
	switch v.kind {
	case KindNull:
		b.WriteString(pad + "- null\n")
	case KindBool, KindNumber:
		b.WriteString(pad + "- " + v.Text() + "\n")
	case KindString:
		switch {
		case v.s == "":
			b.WriteString(pad + "- \"\"\n")
		case isBlockString(v.s):
			b.WriteString(pad + "- |\n")
			writeBlockLines(b, indent+2, v.s)
		default:
			b.WriteString(pad + "- " + scalarText(v.s) + "\n")
		}
	case KindSequence:
		b.WriteString(pad + "- " + flowSequence(v.seq) + "\n")
	case KindMapping:
		if v.m.Len() == 0 {
			b.WriteString(pad + "- {}\n")
			return
		}
		// The first entry shares the dash line; the rest align under it.
		var sub strings.Builder
		writeMapping(&sub, v.m, indent+2)
		b.WriteString(pad + "- " + sub.String()[indent+2:])
	}
}

func writeBlockLines(b *strings.Builder, indent int, s string) {
	pad := strings.Repeat(" ", indent)
	for _, line := range strings.Split(s, LineBreak) {
		if line == "" {
			b.WriteByte('\n')
			continue
		}
		b.WriteString(pad + line + "\n")
	}
}

// isBlockString reports whether s can be written as a literal block and
// read back unchanged.
func isBlockString(s string) bool {
	if !strings.Contains(s, LineBreak) || strings.Contains(s, "\n") {
		return false
	}
	lines := strings.Split(s, LineBreak)
	first, last := lines[0], lines[len(lines)-1]
	if first == "" || last == "" || first[0] == ' ' || first[0] == '\t' {
		return false
	}
	for _, l := range lines {
		if l != "" && strings.TrimSpace(l) == "" {
			return false
		}
	}
	return true
}

// isInline reports whether a sequence fits the [a, b, c] form: at most
// five short plain strings.
func isInline(items []Value) bool {
	if len(items) == 0 || len(items) > maxInlineItems {
		return false
	}
	for _, item := range items {
		s, ok := item.AsString()
		if !ok || needsQuote(s) || utf8.RuneCountInString(s) > maxInlineItemLen {
			return false
		}
	}
	return true
}

// flowSequence writes items in bracket form. Nested mappings cannot be
// expressed inline and are written as {}.
func flowSequence(items []Value) string {
	parts := make([]string, len(items))
	for i, item := range items {
		switch item.kind {
		case KindString:
			parts[i] = scalarText(item.s)
			if item.s == "" {
				parts[i] = `""`
			}
		case KindSequence:
			parts[i] = flowSequence(item.seq)
		case KindMapping:
			parts[i] = "{}"
		case KindNull:
			parts[i] = "null"
		default:
			parts[i] = item.Text()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func scalarText(s string) string {
	if needsQuote(s) {
		return quote(s)
	}
	return s
}
