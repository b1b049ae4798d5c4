// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/orcid-bib/internal/bib"
)

func misc(key, year string) bib.Result {
	e := bib.Entry{Type: "misc", Key: key}
	e.Set("title", key)
	if year != "" {
		e.Set("year", year)
	}
	return bib.Parsed(e, bib.OriginSynthesized)
}

func keys(results []bib.Result) []string {
	var out []string
	for _, r := range results {
		if e, ok := r.Entry(); ok {
			out = append(out, e.Key)
		} else {
			out = append(out, r.Text())
		}
	}
	return out
}

// --- Sort ---

func TestSort_YearDescendingUnknownLast(t *testing.T) {
	in := []bib.Result{
		misc("c_undated", ""),
		misc("old", "1999"),
		misc("new", "2024"),
		misc("a_undated", ""),
		misc("mid", "2010"),
	}

	got := keys(Sort(in))
	assert.Equal(t, []string{"new", "mid", "old", "a_undated", "c_undated"}, got)
	// Input is not modified.
	assert.Equal(t, "c_undated", keys(in)[0])
}

func TestSort_TiesCaseInsensitive(t *testing.T) {
	in := []bib.Result{
		misc("beta", "2020"),
		misc("Alpha", "2020"),
		misc("gamma", "2020"),
	}
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, keys(Sort(in)))
}

func TestSort_TotalOrderOnCaseOnlyDifference(t *testing.T) {
	a := bib.RawText("@misc{X, year = {2020}}")
	b := bib.RawText("@misc{x, year = {2020}}")

	assert.Equal(t, []string{a.Text(), b.Text()}, keys(Sort([]bib.Result{b, a})))
	assert.Equal(t, []string{a.Text(), b.Text()}, keys(Sort([]bib.Result{a, b})))
}

func TestSort_RawTextUsesScrapedYear(t *testing.T) {
	raw := bib.RawText("not parseable, year = {2030}")
	in := []bib.Result{misc("dated", "2021"), raw}
	got := keys(Sort(in))
	assert.Equal(t, raw.Text(), got[0])
}

func TestSort_Empty(t *testing.T) {
	assert.Empty(t, Sort(nil))
}

// --- Render / WriteFile ---

func TestRender_BlankLineBetweenEntries(t *testing.T) {
	out := Render([]bib.Result{misc("a", "2020"), misc("b", "2019")})
	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 2)
	assert.True(t, strings.HasPrefix(parts[0], "@misc{a,"))
	assert.True(t, strings.HasPrefix(parts[1], "@misc{b,"))
	assert.False(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "\n\n\n")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "publications.bib")

	results := []bib.Result{misc("Über", "2020"), misc("b", "")}
	require.NoError(t, WriteFile(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Render(results), string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publications.bib")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer"), 0o644))

	require.NoError(t, WriteFile(path, []bib.Result{misc("a", "")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "@misc{a,\n  title = {a},\n}", string(data))
}

func TestWriteOutputs_WritesBoth(t *testing.T) {
	dir := t.TempDir()
	bibPath := filepath.Join(dir, "publications.bib")
	cslPath := filepath.Join(dir, "publications.yaml")

	results := []bib.Result{misc("a", "2020"), bib.RawText("free text")}
	skipped, err := WriteOutputs(bibPath, cslPath, results)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	data, err := os.ReadFile(bibPath)
	require.NoError(t, err)
	assert.Equal(t, Render(results), string(data))
	assert.FileExists(t, cslPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteOutputs_NoCSLPath(t *testing.T) {
	dir := t.TempDir()
	skipped, err := WriteOutputs(filepath.Join(dir, "publications.bib"), "", []bib.Result{misc("a", "")})
	require.NoError(t, err)
	assert.Zero(t, skipped)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteOutputs_CSLFailureKeepsPreviousBibliography(t *testing.T) {
	dir := t.TempDir()
	bibPath := filepath.Join(dir, "publications.bib")
	require.NoError(t, os.WriteFile(bibPath, []byte("previous"), 0o644))

	// A regular file where the CSL directory should be.
	blocker := filepath.Join(dir, "csl")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := WriteOutputs(bibPath, filepath.Join(blocker, "publications.yaml"), []bib.Result{misc("a", "2020")})
	require.Error(t, err)

	data, err := os.ReadFile(bibPath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp file removed")
}

// --- CSL ---

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		in   string
		want CSLName
	}{
		{"Smith, John", CSLName{Family: "Smith", Given: "John"}},
		{"John Smith", CSLName{Family: "Smith", Given: "John"}},
		{"J. R. Doe", CSLName{Family: "Doe", Given: "J. R."}},
		{"Plato", CSLName{Literal: "Plato"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAuthorName(tt.in))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "RNA & DNA", plainText(`{RNA} \& DNA`))
	assert.Equal(t, `a_b \ c~`, plainText(`a\_b \textbackslash{} c\textasciitilde{}`))
	assert.Equal(t, `Schr\"odinger`, plainText(`Schr{\"o}dinger`))
}

func TestToCSL(t *testing.T) {
	article := bib.Entry{Type: "article", Key: "smith2020"}
	article.Set("title", "Deep {RNA} Things")
	article.Set("author", "Smith, J. and Jane Doe")
	article.Set("journal", "Nature")
	article.Set("year", "2020")
	article.Set("doi", "10.1/x")

	results := []bib.Result{
		bib.Parsed(article, bib.OriginCitation),
		bib.RawText("unparseable"),
		misc("Untitled", ""),
	}

	items, skipped := ToCSL(results)
	assert.Equal(t, 1, skipped)
	require.Len(t, items, 2)

	assert.Equal(t, CSLItem{
		ID:             "smith2020",
		Type:           "article-journal",
		Title:          "Deep RNA Things",
		Author:         []CSLName{{Family: "Smith", Given: "J."}, {Family: "Doe", Given: "Jane"}},
		ContainerTitle: "Nature",
		Issued:         &CSLDate{DateParts: [][]int{{2020}}},
		DOI:            "10.1/x",
	}, items[0])

	assert.Equal(t, "document", items[1].Type)
	assert.Nil(t, items[1].Issued)
}

func TestWriteCSL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publications.yaml")

	skipped, err := WriteCSL(path, []bib.Result{misc("One", "2021"), bib.RawText("x")})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "One", items[0].ID)
	assert.Equal(t, [][]int{{2021}}, items[0].Issued.DateParts)
}

func TestEncodeCSL_EmptyList(t *testing.T) {
	data, err := EncodeCSL(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
