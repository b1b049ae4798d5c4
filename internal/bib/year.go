// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"regexp"
	"strconv"
)

var (
	yearPattern      = regexp.MustCompile(`(1\d{3}|20\d{2})`)
	yearFieldPattern = regexp.MustCompile(`(?i)year\s*=\s*[{"]?\s*(1\d{3}|20\d{2})`)
)

// ExtractYear accepts an integer year in 1000-9999.
func ExtractYear(v int) (int, bool) {
	if v >= 1000 && v <= 9999 {
		return v, true
	}
	return 0, false
}

// ExtractYearString returns the first 1xxx or 20xx substring of s, so
// "2024", "{2024}" and "2024-05" all yield 2024.
func ExtractYearString(s string) (int, bool) {
	return firstYear(yearPattern, s)
}

// ExtractYearFromBibTeX finds a year in unparsed BibTeX text by looking for
// a `year = ...` field.
func ExtractYearFromBibTeX(text string) (int, bool) {
	return firstYear(yearFieldPattern, text)
}

func firstYear(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}
