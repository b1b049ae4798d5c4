// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish orders normalized entries and writes them to disk as a
// BibTeX file and, optionally, a CSL-YAML file.
package publish

import (
	"sort"
	"strings"

	"github.com/pdiddy/orcid-bib/internal/bib"
)

// Sort returns a copy of results ordered newest first. Entries with an
// unknown year follow all dated entries. Ties are broken by the rendered
// text compared case-insensitively, then byte-wise, so the order is total.
func Sort(results []bib.Result) []bib.Result {
	out := make([]bib.Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b bib.Result) bool {
	ya, aKnown := a.Year()
	yb, bKnown := b.Year()
	if aKnown != bKnown {
		return aKnown
	}
	if aKnown && ya != yb {
		return ya > yb
	}
	la, lb := strings.ToLower(a.Text()), strings.ToLower(b.Text())
	if la != lb {
		return la < lb
	}
	return a.Text() < b.Text()
}
