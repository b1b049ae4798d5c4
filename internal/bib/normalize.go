// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/orcid-bib/pkg/types"
)

// ErrNoEntries is returned by ParseEntry when the text holds no records.
var ErrNoEntries = errors.New("no entries parsed from BibTeX")

const untitled = "untitled"

// Normalize converts one work into a Result. A BibTeX citation is parsed
// and enriched with the resolved identifier; if it does not parse it is
// kept verbatim. Works without a BibTeX citation get a synthesized @misc
// entry. Normalize never fails.
func Normalize(d *types.WorkDetail, ids types.Identifiers) Result {
	if HasBibTeXCitation(d) {
		return fromCitation(d, ids)
	}
	return Parsed(Synthesize(d, ids), OriginSynthesized)
}

// HasBibTeXCitation reports whether the work carries a BibTeX citation.
func HasBibTeXCitation(d *types.WorkDetail) bool {
	return d.Citation != nil && strings.EqualFold(d.Citation.Type, "bibtex")
}

func fromCitation(d *types.WorkDetail, ids types.Identifiers) Result {
	text := d.Citation.Value
	e, err := ParseEntry(text)
	if err != nil {
		return RawText(strings.TrimSpace(text))
	}

	e.Key = repairKey(e.Key, d.PutCode)
	// Existing identifiers are never overwritten; a URL is only added
	// when the DOI could not be.
	if ids.DOI != "" && !e.Has("doi") {
		e.Set("doi", ids.DOI)
	} else if ids.URL != "" && !e.Has("url") {
		e.Set("url", ids.URL)
	}
	return Parsed(e, OriginCitation)
}

// parseMu serializes calls into the parser, which keeps package-level
// state.
var parseMu sync.Mutex

// ParseEntry parses BibTeX text and returns its first record. The text is
// canonicalized first, so quoted values, '#' concatenations and macros keep
// their full text. Field names and the entry type are lower-cased; fields
// are ordered by name because the parser does not keep source order.
func ParseEntry(text string) (Entry, error) {
	canonical, err := canonicalize(text)
	if err != nil {
		return Entry{}, err
	}
	if canonical == "" {
		return Entry{}, ErrNoEntries
	}

	parseMu.Lock()
	parsed, err := bibtex.Parse(strings.NewReader(canonical))
	parseMu.Unlock()
	if err != nil {
		return Entry{}, err
	}
	if parsed == nil || len(parsed.Entries) == 0 || parsed.Entries[0] == nil {
		return Entry{}, ErrNoEntries
	}

	first := parsed.Entries[0]
	e := Entry{
		Type: strings.ToLower(strings.TrimSpace(first.Type)),
		Key:  strings.TrimSpace(first.CiteName),
	}
	for name, v := range first.Fields {
		if v == nil {
			continue
		}
		e.Fields = append(e.Fields, Field{
			Name:  strings.TrimPrefix(strings.ToLower(name), reservedFieldPrefix),
			Value: v.String(),
		})
	}
	sort.Slice(e.Fields, func(i, j int) bool {
		return e.Fields[i].Name < e.Fields[j].Name
	})
	return e, nil
}

// Synthesize builds a minimal @misc entry from the work's raw fields:
// title, year, authors, journal, and the DOI (or URL when there is no DOI).
func Synthesize(d *types.WorkDetail, ids types.Identifiers) Entry {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = untitled
	}

	e := Entry{
		Type: "misc",
		Key:  CiteKey(title, d.PutCode),
	}
	e.Set("title", escapeLatex(title))

	if y := strings.TrimSpace(d.Year); y != "" {
		e.Set("year", y)
	}

	var authors []string
	for _, c := range d.Contributors {
		if name := strings.TrimSpace(c.CreditName); name != "" {
			authors = append(authors, escapeLatex(name))
		}
	}
	if len(authors) > 0 {
		e.Set("author", strings.Join(authors, " and "))
	}

	if j := strings.TrimSpace(d.JournalTitle); j != "" {
		e.Set("journal", escapeLatex(j))
	}

	switch {
	case ids.DOI != "":
		e.Set("doi", ids.DOI)
	case ids.URL != "":
		e.Set("url", ids.URL)
	}
	return e
}
