// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"
	"regexp"
	"strings"
)

// nonWordRun matches runs of characters that are not letters, digits or
// underscore in any script.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SanitizeKey derives a citation key from a title: every run of non-word
// characters becomes a single underscore and outer underscores are trimmed.
// The result may be empty.
func SanitizeKey(title string) string {
	return strings.Trim(nonWordRun.ReplaceAllString(title, "_"), "_")
}

// CiteKey returns SanitizeKey(title), or "work_<putCode>" when that is empty.
func CiteKey(title string, putCode int64) string {
	if k := SanitizeKey(title); k != "" {
		return k
	}
	return fallbackKey(putCode)
}

// repairKey makes a key taken from a parsed citation usable: whitespace
// runs become underscores and an empty key falls back to the put-code.
func repairKey(key string, putCode int64) string {
	key = strings.Join(strings.Fields(key), "_")
	if key == "" {
		return fallbackKey(putCode)
	}
	return key
}

func fallbackKey(putCode int64) string {
	return fmt.Sprintf("work_%d", putCode)
}
