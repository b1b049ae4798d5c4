// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

// Origin records how a Result was produced.
type Origin string

const (
	// OriginCitation is a provider BibTeX citation that parsed cleanly.
	OriginCitation Origin = "citation"
	// OriginSynthesized is a @misc entry built from the work's raw fields.
	OriginSynthesized Origin = "synthesized"
	// OriginRaw is a provider citation kept verbatim because it did not parse.
	OriginRaw Origin = "raw"
)

// Result is the normalized form of one work: either a structured Entry or
// raw citation text. Both branches expose rendered text and a sort year.
type Result struct {
	entry     *Entry
	text      string
	year      int
	yearKnown bool
	origin    Origin
}

// Parsed wraps a structured entry. The sort year comes from its year field.
func Parsed(e Entry, origin Origin) Result {
	y, ok := ExtractYearString(e.Get("year"))
	return Result{
		entry:     &e,
		text:      e.String(),
		year:      y,
		yearKnown: ok,
		origin:    origin,
	}
}

// RawText wraps citation text that could not be parsed. The sort year is
// scraped from a `year = ...` field when one is present.
func RawText(text string) Result {
	y, ok := ExtractYearFromBibTeX(text)
	return Result{
		text:      text,
		year:      y,
		yearKnown: ok,
		origin:    OriginRaw,
	}
}

// Entry returns the structured entry, if this result has one.
func (r Result) Entry() (Entry, bool) {
	if r.entry == nil {
		return Entry{}, false
	}
	return *r.entry, true
}

// Text returns the BibTeX text written to the output file.
func (r Result) Text() string { return r.text }

// Year returns the sort year and whether it is known.
func (r Result) Year() (int, bool) { return r.year, r.yearKnown }

// Origin reports which branch produced the result.
func (r Result) Origin() Origin { return r.origin }
