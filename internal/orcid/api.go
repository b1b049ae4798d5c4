// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orcid

import "github.com/pdiddy/orcid-bib/pkg/types"

// ORCID v3.0 JSON structures. Most scalar fields are wrapped in
// {"value": ...} objects and any of them may be null.

type valueField struct {
	Value string `json:"value"`
}

type titleField struct {
	Title valueField `json:"title"`
}

type publicationDate struct {
	Year  valueField `json:"year"`
	Month valueField `json:"month"`
	Day   valueField `json:"day"`
}

type worksResponse struct {
	Group []workGroup `json:"group"`
}

type workGroup struct {
	WorkSummary []workSummary `json:"work-summary"`
}

type workSummary struct {
	PutCode         int64           `json:"put-code"`
	Title           titleField      `json:"title"`
	Type            string          `json:"type"`
	PublicationDate publicationDate `json:"publication-date"`
}

type workResponse struct {
	PutCode         int64           `json:"put-code"`
	Title           titleField      `json:"title"`
	JournalTitle    valueField      `json:"journal-title"`
	Type            string          `json:"type"`
	PublicationDate publicationDate `json:"publication-date"`
	Citation        *citation       `json:"citation"`
	ExternalIDs     externalIDs     `json:"external-ids"`
	Contributors    contributors    `json:"contributors"`
}

type citation struct {
	Type  string `json:"citation-type"`
	Value string `json:"citation-value"`
}

type externalIDs struct {
	ExternalID []externalID `json:"external-id"`
}

type externalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

type contributors struct {
	Contributor []contributor `json:"contributor"`
}

type contributor struct {
	CreditName valueField            `json:"credit-name"`
	Attributes contributorAttributes `json:"contributor-attributes"`
}

type contributorAttributes struct {
	Role string `json:"contributor-role"`
}

func (s workSummary) toType() types.WorkSummary {
	return types.WorkSummary{
		PutCode: s.PutCode,
		Title:   s.Title.Title.Value,
		Type:    s.Type,
		Year:    s.PublicationDate.Year.Value,
	}
}

func (w workResponse) toType() *types.WorkDetail {
	d := &types.WorkDetail{
		PutCode:      w.PutCode,
		Title:        w.Title.Title.Value,
		Type:         w.Type,
		Year:         w.PublicationDate.Year.Value,
		JournalTitle: w.JournalTitle.Value,
	}
	if w.Citation != nil {
		d.Citation = &types.Citation{Type: w.Citation.Type, Value: w.Citation.Value}
	}
	for _, id := range w.ExternalIDs.ExternalID {
		d.ExternalIDs = append(d.ExternalIDs, types.ExternalID{Type: id.Type, Value: id.Value})
	}
	for _, c := range w.Contributors.Contributor {
		d.Contributors = append(d.Contributors, types.Contributor{
			CreditName: c.CreditName.Value,
			Role:       c.Attributes.Role,
		})
	}
	return d
}
