// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bib turns ORCID work records into BibTeX entries. Normalize is a
// pure function: every work yields exactly one Result, falling back to the
// raw citation text or a synthesized @misc record when a citation cannot
// be used.
package bib

import (
	"fmt"
	"strings"
)

// Field is one name/value pair of an entry.
type Field struct {
	Name  string
	Value string
}

// Entry is a BibTeX record. Fields keep insertion order and render in that
// order.
type Entry struct {
	Type   string
	Key    string
	Fields []Field
}

// Get returns the value of the named field, or "" when absent.
func (e *Entry) Get(name string) string {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Has reports whether the named field is present with a non-empty value.
func (e *Entry) Has(name string) bool {
	return strings.TrimSpace(e.Get(name)) != ""
}

// Set replaces the named field or appends it.
func (e *Entry) Set(name, value string) {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// String renders the entry with a two-space indent and a trailing comma
// after every field, values wrapped in braces.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "  %s = {%s},\n", f.Name, f.Value)
	}
	b.WriteString("}")
	return b.String()
}

// escapeLatex escapes characters that are special to LaTeX so free text
// from ORCID survives inside a braced BibTeX value.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\textbackslash{}`,
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
