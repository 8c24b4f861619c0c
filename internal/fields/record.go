// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fields maps book metadata between the external front-matter
// convention (pandoc-style names and list-of-object shapes) and the flat
// canonical record the rest of imprint works with.
package fields

import (
	"slices"

	"github.com/pdiddy/imprint/internal/meta"
)

// Canonical field names.
const (
	Title             = "title"
	Subtitle          = "subtitle"
	Author            = "author"
	ISBNPrint         = "isbn-print"
	ISBNEbook         = "isbn-ebook"
	PrintDate         = "print-date"
	Rights            = "rights"
	Translation       = "translation"
	CriticalApparatus = "critical-apparatus"
	CoverCredit       = "cover-credit"
	OriginalTitle     = "original-title"
	Editions          = "editions"
	Funding           = "funding"
	Price             = "price"
	Language          = "language"
)

// Canonical lists the recognized fields in display order.
var Canonical = []string{
	Title, Subtitle, Author, OriginalTitle, Translation, CriticalApparatus,
	CoverCredit, Editions, PrintDate, ISBNPrint, ISBNEbook, Rights,
	Funding, Price, Language,
}

// IsCanonical reports whether name is a recognized canonical field.
func IsCanonical(name string) bool {
	return slices.Contains(Canonical, name)
}

// Record is a canonical metadata record: recognized fields plus any
// unrecognized ones, kept verbatim and in source order. A Record is not
// safe for concurrent mutation.
type Record struct {
	m *meta.Mapping
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{m: meta.NewMapping()}
}

// Get returns the value of a field.
func (r *Record) Get(field string) (meta.Value, bool) {
	return r.m.Get(field)
}

// Text returns a field as plain text, "" when absent or not a scalar.
func (r *Record) Text(field string) string {
	v, _ := r.m.Get(field)
	return v.Text()
}

// Has reports whether a field is present.
func (r *Record) Has(field string) bool {
	return r.m.Has(field)
}

// Set stores a field, keeping its position when it already exists.
func (r *Record) Set(field string, v meta.Value) {
	r.m.Set(field, v)
}

// SetText stores a string field.
func (r *Record) SetText(field, s string) {
	r.m.Set(field, meta.Str(s))
}

// Delete removes a field and reports whether it was present.
func (r *Record) Delete(field string) bool {
	return r.m.Delete(field)
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	return r.m.Keys()
}

// Extra returns the unrecognized field names in order.
func (r *Record) Extra() []string {
	var out []string
	for _, k := range r.m.Keys() {
		if !IsCanonical(k) {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return r.m.Len()
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	return &Record{m: r.m.Clone()}
}

// Mapping returns a copy of the record as a value mapping.
func (r *Record) Mapping() *meta.Mapping {
	return r.m.Clone()
}

// Equal reports whether both records hold the same fields and values.
func (r *Record) Equal(o *Record) bool {
	return r.m.Equal(o.m)
}

// RecordOf wraps a canonical mapping, copying it.
func RecordOf(m *meta.Mapping) *Record {
	if m == nil {
		return NewRecord()
	}
	return &Record{m: m.Clone()}
}
