// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orcid

import (
	"strings"

	"github.com/pdiddy/orcid-bib/pkg/types"
)

const doiResolverMarker = "doi.org/"

// ResolveIdentifiers picks the DOI and URL for a work. The scan runs in
// provider order: the first "doi" entry ends it, and the first "url" entry
// seen before that is kept. A URL listed after the DOI is never seen.
func ResolveIdentifiers(ids []types.ExternalID) types.Identifiers {
	var out types.Identifiers
	for _, id := range ids {
		switch strings.ToLower(id.Type) {
		case "doi":
			out.DOI = NormalizeDOI(id.Value)
			return out
		case "url":
			if out.URL == "" {
				out.URL = strings.TrimSpace(id.Value)
			}
		}
	}
	return out
}

// NormalizeDOI reduces a DOI given as a resolver URL to the bare DOI.
// For http(s) values the text after "doi.org/" is kept; without that marker
// the last path segment is used. Other values are returned trimmed.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	lower := strings.ToLower(doi)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return doi
	}
	if i := strings.Index(lower, doiResolverMarker); i >= 0 {
		return doi[i+len(doiResolverMarker):]
	}
	return doi[strings.LastIndex(doi, "/")+1:]
}
