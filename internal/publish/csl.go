package publish

import (
	"bytes"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/orcid-bib/internal/bib"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps BibTeX entry types to CSL item types.
var cslTypes = map[string]string{
	"article":       "article-journal",
	"book":          "book",
	"booklet":       "book",
	"inbook":        "chapter",
	"incollection":  "chapter",
	"inproceedings": "paper-conference",
	"conference":    "paper-conference",
	"proceedings":   "book",
	"phdthesis":     "thesis",
	"mastersthesis": "thesis",
	"techreport":    "report",
	"manual":        "report",
	"unpublished":   "manuscript",
	"misc":          "document",
}

var authorSeparator = regexp.MustCompile(`(?i)\s+and\s+`)

// ToCSL converts structured results to CSL items, preserving order.
// Raw-text results have no fields to map and are counted in skipped.
func ToCSL(results []bib.Result) (items []CSLItem, skipped int) {
	for _, r := range results {
		e, ok := r.Entry()
		if !ok {
			skipped++
			continue
		}
		item := toCSLItem(e)
		if y, known := r.Year(); known {
			item.Issued = &CSLDate{DateParts: [][]int{{y}}}
		}
		items = append(items, item)
	}
	return items, skipped
}

// EncodeCSL renders items as a CSL-YAML list.
func EncodeCSL(items []CSLItem) ([]byte, error) {
	if items == nil {
		items = []CSLItem{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSL writes the structured results to path as CSL-YAML and returns
// the number of raw-text results that were left out.
func WriteCSL(path string, results []bib.Result) (skipped int, err error) {
	items, skipped := ToCSL(results)
	data, err := EncodeCSL(items)
	if err != nil {
		return skipped, err
	}
	return skipped, writeAtomic(path, data)
}

func toCSLItem(e bib.Entry) CSLItem {
	cslType, ok := cslTypes[e.Type]
	if !ok {
		cslType = "document"
	}

	item := CSLItem{
		ID:    e.Key,
		Type:  cslType,
		Title: plainText(e.Get("title")),
		DOI:   e.Get("doi"),
		URL:   e.Get("url"),
	}

	container := e.Get("journal")
	if container == "" {
		container = e.Get("booktitle")
	}
	item.ContainerTitle = plainText(container)

	if authors := strings.TrimSpace(e.Get("author")); authors != "" {
		for _, a := range authorSeparator.Split(authors, -1) {
			if name := parseAuthorName(plainText(a)); name != (CSLName{}) {
				item.Author = append(item.Author, name)
			}
		}
	}
	return item
}

// parseAuthorName splits a BibTeX name into CSL family/given parts.
// "Family, Given" is split on the comma; otherwise everything before the
// last space is given and the last token is family. Single-token names use
// the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{
			Family: strings.TrimSpace(family),
			Given:  strings.TrimSpace(given),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  strings.TrimSpace(name[:idx]),
		Family: name[idx+1:],
	}
}

var latexWords = []struct{ cmd, char string }{
	{`\textbackslash{}`, `\`},
	{`\textasciitilde{}`, "~"},
	{`\textasciicircum{}`, "^"},
}

// plainText undoes simple LaTeX escapes and drops grouping braces, so
// "{RNA} \& DNA" becomes "RNA & DNA". Other commands are left as written.
func plainText(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '{' || c == '}' {
			continue
		}
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		matched := false
		for _, w := range latexWords {
			if strings.HasPrefix(s[i:], w.cmd) {
				b.WriteString(w.char)
				i += len(w.cmd) - 1
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if i+1 < len(s) && strings.IndexByte(`&%$#_{}`, s[i+1]) >= 0 {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
