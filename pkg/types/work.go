// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the orcid-bib pipeline:
// the work records read from ORCID and the configuration passed into the
// pipeline entry point.
package types

// WorkSummary is one row of the ORCID works listing. It carries the
// put-code used to fetch the full record plus enough metadata to log
// progress. Summaries live only for the duration of a single run.
type WorkSummary struct {
	// PutCode is the ORCID identifier of the work within the record.
	PutCode int64 `json:"put_code" yaml:"put_code"`

	// Title is the work title as listed (may be empty).
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Type is the ORCID work type (e.g. "journal-article").
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Year is the publication year as listed (free text, may be empty).
	Year string `json:"year,omitempty" yaml:"year,omitempty"`
}

// Citation is the provider-supplied citation block of a work.
type Citation struct {
	// Type is the citation format tag (e.g. "bibtex", "formatted-apa").
	Type string `json:"type" yaml:"type"`

	// Value is the citation text in that format.
	Value string `json:"value" yaml:"value"`
}

// ExternalID is one external identifier attached to a work.
type ExternalID struct {
	// Type is the identifier scheme (e.g. "doi", "url", "eid").
	Type string `json:"type" yaml:"type"`

	// Value is the identifier as entered at the provider.
	Value string `json:"value" yaml:"value"`
}

// Contributor is one person credited on a work.
type Contributor struct {
	// CreditName is the display name (may be empty).
	CreditName string `json:"credit_name,omitempty" yaml:"credit_name,omitempty"`

	// Role is the contributor role when supplied (e.g. "author").
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// WorkDetail is the full ORCID record of one work.
type WorkDetail struct {
	PutCode      int64         `json:"put_code" yaml:"put_code"`
	Title        string        `json:"title,omitempty" yaml:"title,omitempty"`
	Type         string        `json:"type,omitempty" yaml:"type,omitempty"`
	Year         string        `json:"year,omitempty" yaml:"year,omitempty"`
	JournalTitle string        `json:"journal_title,omitempty" yaml:"journal_title,omitempty"`
	Citation     *Citation     `json:"citation,omitempty" yaml:"citation,omitempty"`
	ExternalIDs  []ExternalID  `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`
	Contributors []Contributor `json:"contributors,omitempty" yaml:"contributors,omitempty"`
}

// Identifiers holds the DOI and URL resolved from a work's external
// identifiers. Either may be empty.
type Identifiers struct {
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}
