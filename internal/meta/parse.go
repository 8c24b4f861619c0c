// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package meta

import (
	"regexp"
	"strings"
)

// LineBreak separates the lines of a literal (|) block scalar. It is the
// paragraph separator of the layout host that consumes the metadata.
const LineBreak = "\r"

var (
	// keyValuePattern splits a mapping line at its first colon.
	keyValuePattern = regexp.MustCompile(`^([^:]+):\s*(.*)$`)

	// itemPattern matches a sequence item line.
	itemPattern = regexp.MustCompile(`^\s*-(\s|$)`)

	// pairPattern matches a bare "key: value" pair after a sequence dash.
	// The colon must be followed by whitespace or end the line so that
	// times and URLs stay scalars.
	pairPattern = regexp.MustCompile(`^[^\s:"'\[\]{}#,-][^:"'\[\]{}]*:(\s.*)?$`)
)

// mode is the single active state of the scanner.
type mode uint8

const (
	modeScalar mode = iota
	modeSequence
	modeMapping
	modeLiteral
	modeFolded
)

// Parse converts front-matter text into a Mapping. It never fails: lines
// it cannot interpret are skipped. A leading and trailing "---" delimiter
// pair is removed first, and anything after the closing delimiter is
// ignored.
func Parse(text string) *Mapping {
	return parseLines(stripDelimiters(splitLines(text)))
}

// cursor walks the input lines. Exactly one mode is active; indent is the
// column of the key line that entered it.
type cursor struct {
	lines []string
	pos   int
	out   *Mapping

	mode   mode
	key    string
	indent int

	block *blockScalar // modeLiteral, modeFolded
	body  []string     // modeMapping: raw lines of the nested mapping
	items []Value      // modeSequence: committed items
	item  *seqItem     // modeSequence: item still consuming lines
}

func parseLines(lines []string) *Mapping {
	c := &cursor{lines: lines, out: NewMapping()}
	for c.pos = 0; c.pos < len(c.lines); c.pos++ {
		c.step(c.lines[c.pos])
	}
	c.close()
	return c.out
}

func (c *cursor) step(line string) {
	switch c.mode {
	case modeLiteral, modeFolded:
		if c.block.add(line) {
			return
		}
	case modeSequence:
		if c.continueSequence(line) {
			return
		}
	case modeMapping:
		if c.continueMapping(line) {
			return
		}
	}
	c.close()
	c.scan(line)
}

// scan interprets a line in scalar mode.
func (c *cursor) scan(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' || itemPattern.MatchString(line) {
		return
	}
	m := keyValuePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	key := unquoteKey(strings.TrimSpace(m[1]))
	if key == "" {
		return
	}
	value := strings.TrimSpace(m[2])
	col := indentOf(line)

	if value == "" {
		next, ok := c.peek()
		switch {
		case ok && indentOf(next) >= col && itemPattern.MatchString(next):
			c.enter(modeSequence, key, col)
			return
		case ok && indentOf(next) > col && keyValuePattern.MatchString(next):
			c.enter(modeMapping, key, col)
			return
		case ok && indentOf(next) > col:
			c.enter(modeFolded, key, col)
			return
		}
		c.out.Set(key, Str(""))
		return
	}
	if value == `""` {
		c.enter(modeFolded, key, col)
		return
	}
	if literal, ok := blockIndicator(value); ok {
		if literal {
			c.enter(modeLiteral, key, col)
		} else {
			c.enter(modeFolded, key, col)
		}
		return
	}
	c.out.Set(key, ConvertValue(value))
}

// peek returns the next line that is neither blank nor a comment.
func (c *cursor) peek() (string, bool) {
	for i := c.pos + 1; i < len(c.lines); i++ {
		t := strings.TrimSpace(c.lines[i])
		if t == "" || t[0] == '#' {
			continue
		}
		return c.lines[i], true
	}
	return "", false
}

func (c *cursor) enter(m mode, key string, col int) {
	c.mode = m
	c.key = key
	c.indent = col
	c.block = nil
	c.body = nil
	c.items = nil
	c.item = nil
	if m == modeLiteral || m == modeFolded {
		c.block = newBlock(m == modeLiteral, col+2)
	}
}

// close commits the value of the active mode under the pending key and
// returns to scalar mode.
func (c *cursor) close() {
	switch c.mode {
	case modeLiteral, modeFolded:
		c.out.Set(c.key, c.block.value())
	case modeSequence:
		c.closeItem()
		c.out.Set(c.key, Seq(c.items...))
	case modeMapping:
		c.out.Set(c.key, Map(parseLines(c.body)))
	}
	c.enter(modeScalar, "", 0)
}

func (c *cursor) continueMapping(line string) bool {
	if isBlank(line) {
		c.body = append(c.body, "")
		return true
	}
	if indentOf(line) > c.indent {
		c.body = append(c.body, line)
		return true
	}
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// seqItem is a sequence item that may span several lines: a mapping
// (complex item), a block scalar, or a plain scalar wrapped onto more
// indented lines.
type seqItem struct {
	dash  int
	lines []string
	block *blockScalar

	plain  bool
	scalar string
}

func (it *seqItem) add(line string) {
	switch {
	case it.block != nil:
		it.block.add(line)
	case it.plain:
		// Wrapped plain scalars fold with a single space.
		t := strings.TrimSpace(line)
		if t != "" && t[0] != '#' {
			it.scalar += " " + t
		}
	default:
		it.lines = append(it.lines, line)
	}
}

func (c *cursor) continueSequence(line string) bool {
	if isBlank(line) {
		if c.item != nil {
			c.item.add(line)
		}
		return true
	}
	col := indentOf(line)
	if itemPattern.MatchString(line) && col >= c.indent && (c.item == nil || col <= c.item.dash) {
		c.closeItem()
		c.openItem(line, col)
		return true
	}
	if c.item != nil && col > c.item.dash {
		c.item.add(line)
		return true
	}
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return true
	}
	return col > c.indent
}

func (c *cursor) openItem(line string, col int) {
	rest := strings.TrimSpace(strings.TrimSpace(line)[1:])
	if rest == "" {
		c.item = &seqItem{dash: col}
		return
	}
	if literal, ok := blockIndicator(rest); ok {
		c.item = &seqItem{dash: col, block: newBlock(literal, col+2)}
		return
	}
	if pairPattern.MatchString(rest) {
		c.item = &seqItem{dash: col, lines: []string{strings.Repeat(" ", col+2) + rest}}
		return
	}
	c.item = &seqItem{dash: col, plain: true, scalar: rest}
}

func (c *cursor) closeItem() {
	it := c.item
	if it == nil {
		return
	}
	c.item = nil
	switch {
	case it.block != nil:
		c.items = append(c.items, it.block.value())
		return
	case it.plain:
		c.items = append(c.items, ConvertValue(it.scalar))
		return
	}
	m := parseLines(it.lines)
	if m.Len() == 0 {
		c.items = append(c.items, Null())
		return
	}
	c.items = append(c.items, Map(m))
}

// blockScalar accumulates the continuation lines of a | or > scalar.
type blockScalar struct {
	literal bool
	min     int // lowest column a continuation line may start at
	indent  int // column of the first content line; -1 until seen
	lines   []string
	blanks  int
}

func newBlock(literal bool, min int) *blockScalar {
	return &blockScalar{literal: literal, min: min, indent: -1}
}

// add consumes line if it continues the block. Blank lines are held back
// and kept only when more content follows them (literal mode).
func (b *blockScalar) add(line string) bool {
	if isBlank(line) {
		if len(b.lines) > 0 {
			b.blanks++
		}
		return true
	}
	col := indentOf(line)
	if col < b.min {
		return false
	}
	if b.indent < 0 {
		b.indent = col
	}
	text := line[min(col, b.indent):]
	if b.literal {
		for i := 0; i < b.blanks; i++ {
			b.lines = append(b.lines, "")
		}
	} else {
		text = strings.TrimSpace(text)
	}
	b.blanks = 0
	b.lines = append(b.lines, text)
	return true
}

func (b *blockScalar) value() Value {
	sep := " "
	if b.literal {
		sep = LineBreak
	}
	return Str(strings.Join(b.lines, sep))
}

// blockIndicator recognizes |, > and their chomping variants.
func blockIndicator(s string) (literal, ok bool) {
	switch s {
	case "|", "|-", "|+":
		return true, true
	case ">", ">-", ">+":
		return false, true
	}
	return false, false
}

func unquoteKey(k string) string {
	if len(k) >= 2 && (k[0] == '"' || k[0] == '\'') && k[len(k)-1] == k[0] {
		return k[1 : len(k)-1]
	}
	return k
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// splitLines splits on \n, \r\n and \r, dropping a byte-order mark.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// stripDelimiters removes a leading "---" line and everything from the
// matching closing "---" (or "...") on. Without a leading delimiter only a
// trailing "---" is removed.
func stripDelimiters(lines []string) []string {
	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	if start < len(lines) && strings.TrimRight(lines[start], " \t") == "---" {
		lines = lines[start+1:]
		for i, l := range lines {
			if t := strings.TrimRight(l, " \t"); t == "---" || t == "..." {
				return lines[:i]
			}
		}
		return lines
	}
	end := len(lines)
	for end > 0 && isBlank(lines[end-1]) {
		end--
	}
	if end > 0 && strings.TrimRight(lines[end-1], " \t") == "---" {
		return lines[:end-1]
	}
	return lines
}

// SplitFrontMatter separates a leading "---" block from the body of a
// content file. ok is false when text has no front matter, in which case
// body is text unchanged.
func SplitFrontMatter(text string) (front, body string, ok bool) {
	lines := splitLines(text)
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return "", text, false
	}
	for i := 1; i < len(lines); i++ {
		if t := strings.TrimRight(lines[i], " \t"); t == "---" || t == "..." {
			front = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return front, body, true
		}
	}
	return "", text, false
}
