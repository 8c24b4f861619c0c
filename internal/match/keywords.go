// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// extensions are the file extensions dropped before tokenizing.
var extensions = map[string]bool{
	".md": true, ".markdown": true, ".txt": true,
	".docx": true, ".doc": true, ".rtf": true, ".odt": true,
	".indd": true, ".indt": true, ".idml": true, ".icml": true,
	".html": true, ".htm": true, ".xml": true,
}

var (
	// seriesPrefix matches a book code followed by numbered groups,
	// e.g. "livre-02-" or "b12-3-04-".
	seriesPrefix = regexp.MustCompile(`^[a-z0-9]+(?:-\d+)+-`)

	// numberPrefix matches a plain leading chapter number, e.g. "03-".
	numberPrefix = regexp.MustCompile(`^\d+[-_\s]`)
)

// minKeywordLen is the shortest token kept, in runes.
const minKeywordLen = 3

// ExtractKeywords tokenizes a filename into lowercase keywords. The
// extension and numbering prefixes are removed, the rest is split on
// hyphens, underscores and whitespace, and tokens shorter than three runes
// are dropped. Duplicates keep their first position.
//
//	ExtractKeywords("03-introduction.md")        // ["introduction"]
//	ExtractKeywords("LIVRE-02-Frontmatter.indd") // ["frontmatter"]
func ExtractKeywords(name string) []string {
	s := normalizeName(name)
	if ext := path.Ext(s); extensions[ext] {
		s = strings.TrimSuffix(s, ext)
	}
	if loc := seriesPrefix.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	} else if loc := numberPrefix.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})

	var keywords []string
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < minKeywordLen || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

// normalizeName composes accents (filenames from macOS arrive decomposed),
// lowercases, and drops any directory part.
func normalizeName(name string) string {
	s := norm.NFC.String(strings.ToLower(strings.TrimSpace(name)))
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	return s
}
