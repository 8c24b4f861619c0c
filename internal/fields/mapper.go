// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fields

import (
	"strings"

	"github.com/pdiddy/imprint/internal/meta"
)

// External names of the complex list-of-object fields.
const (
	extTitle      = "title"
	extCreator    = "creator"
	extIdentifier = "identifier"
)

// importNames maps every accepted external name, aliases included, to its
// canonical field. title, creator and identifier are handled separately.
var importNames = map[string]string{
	"subtitle":           Subtitle,
	"author":             Author,
	"date":               PrintDate,
	"published-print":    PrintDate,
	"publishedprint":     PrintDate,
	"print-date":         PrintDate,
	"printdate":          PrintDate,
	"isbn":               ISBNPrint,
	"isbn-print":         ISBNPrint,
	"isbnprint":          ISBNPrint,
	"isbn-ebook":         ISBNEbook,
	"isbnebook":          ISBNEbook,
	"rights":             Rights,
	"copyright":          Rights,
	"translation":        Translation,
	"translator":         Translation,
	"critical-apparatus": CriticalApparatus,
	"criticalapparatus":  CriticalApparatus,
	"cover-credit":       CoverCredit,
	"covercredit":        CoverCredit,
	"original-title":     OriginalTitle,
	"originaltitle":      OriginalTitle,
	"editions":           Editions,
	"publisher":          Editions,
	"funding":            Funding,
	"price":              Price,
	"language":           Language,
	"lang":               Language,
}

// exportNames maps canonical fields whose external name differs.
var exportNames = map[string]string{
	PrintDate: "date",
	Editions:  "publisher",
	Language:  "lang",
}

// Creator roles, as full words and MARC relator codes.
var creatorRoles = map[string]string{
	"author":     Author,
	"aut":        Author,
	"translator": Translation,
	"trl":        Translation,
}

// Record fields holding the items of a complex list that no canonical field
// takes: titles other than main and subtitle, creators with other roles,
// identifiers other than the first ISBN. ToExternal merges them back into
// the lists it rebuilds.
const (
	TitleExtra      = "title-extra"
	CreatorExtra    = "creator-extra"
	IdentifierExtra = "identifier-extra"
)

// ToCanonical builds a record from external metadata. The complex title,
// creator and identifier lists are flattened; several creators with one
// role become a sequence of names. List items no canonical field takes
// are kept under TitleExtra, CreatorExtra and IdentifierExtra. A field set
// from a complex list is not overwritten by a plain field of the same
// meaning. Unknown fields pass through unchanged. The input is not
// modified.
func ToCanonical(external *meta.Mapping) *Record {
	r := NewRecord()
	complexSet := make(map[string]bool)

	setComplex := func(field string, v meta.Value) {
		r.Set(field, v)
		complexSet[field] = true
	}
	setPlain := func(field string, v meta.Value) {
		if !complexSet[field] && !r.Has(field) {
			r.Set(field, v)
		}
	}

	for _, e := range external.Entries() {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		switch key {
		case extTitle:
			seq, ok := listOfObjects(e.Value)
			if !ok {
				setPlain(Title, e.Value)
				continue
			}
			var rest []meta.Value
			for _, item := range seq {
				field := ""
				if m, ok := item.AsMapping(); ok {
					switch strings.ToLower(textOf(m, "type")) {
					case "main":
						field = Title
					case "subtitle":
						field = Subtitle
					}
				}
				if field == "" || complexSet[field] {
					rest = append(rest, item)
					continue
				}
				m, _ := item.AsMapping()
				setComplex(field, meta.Str(textOf(m, "text")))
			}
			r.appendExtra(TitleExtra, rest)

		case extCreator:
			seq, ok := listOfObjects(e.Value)
			if !ok {
				setPlain(Author, e.Value)
				continue
			}
			names := make(map[string][]meta.Value)
			var order []string
			var rest []meta.Value
			for _, item := range seq {
				m, isMap := item.AsMapping()
				if !isMap {
					rest = append(rest, item)
					continue
				}
				field, known := creatorRoles[strings.ToLower(textOf(m, "role"))]
				if !known {
					rest = append(rest, item)
					continue
				}
				if _, seen := names[field]; !seen {
					order = append(order, field)
				}
				names[field] = append(names[field], meta.Str(textOf(m, "text")))
			}
			for _, field := range order {
				if len(names[field]) == 1 {
					setComplex(field, names[field][0])
				} else {
					setComplex(field, meta.Seq(names[field]...))
				}
			}
			r.appendExtra(CreatorExtra, rest)

		case extIdentifier:
			seq, ok := listOfObjects(e.Value)
			if !ok {
				setPlain(ISBNEbook, e.Value)
				continue
			}
			var rest []meta.Value
			for _, item := range seq {
				m, isMap := item.AsMapping()
				if isMap && strings.EqualFold(textOf(m, "scheme"), "isbn") && !complexSet[ISBNEbook] {
					setComplex(ISBNEbook, meta.Str(textOf(m, "text")))
					continue
				}
				rest = append(rest, item)
			}
			r.appendExtra(IdentifierExtra, rest)

		case TitleExtra, CreatorExtra, IdentifierExtra:
			if seq, ok := e.Value.AsSequence(); ok {
				r.appendExtra(key, seq)
			} else {
				r.appendExtra(key, []meta.Value{e.Value})
			}

		default:
			if field, ok := importNames[key]; ok {
				setPlain(field, e.Value)
				continue
			}
			if !r.Has(e.Key) {
				r.Set(e.Key, e.Value)
			}
		}
	}
	return r
}

// ToExternal renders a record in the external convention. A subtitle or
// extra titles expand title into a list of {type, text} objects and an
// author expands into a creator list of {role, text}, one object per name;
// the flat fields are then omitted. Items kept under TitleExtra,
// CreatorExtra and IdentifierExtra are appended to their lists.
// Renamed fields take their external names, unknown fields pass through.
// The record is not modified.
func ToExternal(r *Record) *meta.Mapping {
	out := meta.NewMapping()
	expandTitle := r.Has(Subtitle) || r.Has(TitleExtra)

	for _, key := range r.Keys() {
		v, _ := r.Get(key)
		switch key {
		case Title, Subtitle, TitleExtra:
			if !expandTitle {
				out.Set(extTitle, v)
				continue
			}
			if out.Has(extTitle) {
				continue
			}
			var items []meta.Value
			if r.Has(Title) {
				items = append(items, object("type", "main", r.Text(Title)))
			}
			if r.Has(Subtitle) {
				items = append(items, object("type", "subtitle", r.Text(Subtitle)))
			}
			items = append(items, r.extra(TitleExtra)...)
			out.Set(extTitle, meta.Seq(items...))

		case Author, CreatorExtra:
			if out.Has(extCreator) {
				continue
			}
			var items []meta.Value
			if a, ok := r.Get(Author); ok {
				if seq, ok := a.AsSequence(); ok {
					for _, name := range seq {
						items = append(items, object("role", "author", name.Text()))
					}
				} else {
					items = append(items, object("role", "author", a.Text()))
				}
			}
			items = append(items, r.extra(CreatorExtra)...)
			out.Set(extCreator, meta.Seq(items...))

		case IdentifierExtra:
			out.Set(extIdentifier, meta.Seq(r.extra(IdentifierExtra)...))

		default:
			if name, ok := exportNames[key]; ok {
				out.Set(name, v)
				continue
			}
			out.Set(key, v)
		}
	}
	return out
}

// appendExtra adds unconsumed list items to the extra field key.
func (r *Record) appendExtra(key string, items []meta.Value) {
	if len(items) == 0 {
		return
	}
	r.Set(key, meta.Seq(append(r.extra(key), items...)...))
}

// extra returns the items held under an extra field. A non-list value
// counts as one item.
func (r *Record) extra(key string) []meta.Value {
	v, ok := r.Get(key)
	if !ok {
		return nil
	}
	if seq, ok := v.AsSequence(); ok {
		return seq
	}
	return []meta.Value{v}
}

// listOfObjects returns the items of a sequence holding at least one
// mapping. Any other value is a plain field.
func listOfObjects(v meta.Value) ([]meta.Value, bool) {
	seq, ok := v.AsSequence()
	if !ok {
		return nil, false
	}
	for _, item := range seq {
		if _, ok := item.AsMapping(); ok {
			return seq, true
		}
	}
	return nil, false
}

func textOf(m *meta.Mapping, key string) string {
	v, _ := m.Get(key)
	return v.Text()
}

func object(kindKey, kind, text string) meta.Value {
	return meta.Map(meta.MappingOf(
		meta.Entry{Key: kindKey, Value: meta.Str(kind)},
		meta.Entry{Key: "text", Value: meta.Str(text)},
	))
}
