// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one fetch: cache gate, enumerate works, fetch and
// normalize each one, write the sorted bibliography, then record the fetch
// time. It is the only place that sequences network calls and the only
// place that aborts a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/orcid-bib/internal/bib"
	"github.com/pdiddy/orcid-bib/internal/cache"
	"github.com/pdiddy/orcid-bib/internal/orcid"
	"github.com/pdiddy/orcid-bib/internal/publish"
	"github.com/pdiddy/orcid-bib/pkg/types"
)

// WorkSource lists and fetches works. *orcid.Client implements it.
type WorkSource interface {
	ListWorks(ctx context.Context) ([]types.WorkSummary, error)
	GetWork(ctx context.Context, putCode int64) (*types.WorkDetail, error)
}

// Summary describes the outcome of a run.
type Summary struct {
	// CacheHit is true when the run stopped at the cache gate.
	CacheHit bool

	// LastFetch is the cached fetch time on a cache hit, or the time
	// recorded by this run.
	LastFetch time.Time

	Total       int
	Citations   int
	Raw         int
	Synthesized int

	// CSLSkipped counts raw-text entries left out of the CSL file.
	CSLSkipped int
}

// Option configures a run.
type Option func(*runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *runner) { r.now = now }
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(r *runner) { r.log = log }
}

type runner struct {
	cfg types.FetchConfig
	src WorkSource
	now func() time.Time
	log zerolog.Logger
}

// Run executes the pipeline. A fetch error, or a failure to write either
// output file, leaves the output file, CSL file and cache record untouched. The cache record is written last, only after
// every output file has been replaced.
func Run(ctx context.Context, cfg types.FetchConfig, src WorkSource, opts ...Option) (Summary, error) {
	r := &runner{
		cfg: cfg,
		src: src,
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (Summary, error) {
	var sum Summary

	if rec, fresh := r.checkCache(); fresh {
		r.log.Info().
			Str("last_fetch", rec.LastFetch.Format(time.DateOnly)).
			Msg("ORCID cache is up to date, no fetch needed")
		sum.CacheHit = true
		sum.LastFetch = rec.LastFetch
		return sum, nil
	}

	r.log.Debug().Str("orcid", r.cfg.ORCIDID).Msg("listing works")
	works, err := r.src.ListWorks(ctx)
	if err != nil {
		return sum, err
	}
	sum.Total = len(works)

	results := make([]bib.Result, 0, len(works))
	for i, w := range works {
		res, err := r.fetchOne(ctx, i, len(works), w)
		if err != nil {
			return sum, err
		}
		switch res.Origin() {
		case bib.OriginCitation:
			sum.Citations++
		case bib.OriginRaw:
			sum.Raw++
		case bib.OriginSynthesized:
			sum.Synthesized++
		}
		results = append(results, res)
	}

	sorted := publish.Sort(results)
	skipped, err := publish.WriteOutputs(r.cfg.OutputPath, r.cfg.CSLOutputPath, sorted)
	if err != nil {
		return sum, fmt.Errorf("writing output: %w", err)
	}
	sum.CSLSkipped = skipped
	if skipped > 0 {
		r.log.Warn().Int("skipped", skipped).Str("path", r.cfg.CSLOutputPath).
			Msg("unparsed citations left out of CSL output")
	}

	sum.LastFetch = r.now()
	if err := cache.Save(r.cfg.CachePath, sum.LastFetch); err != nil {
		return sum, err
	}

	r.log.Info().
		Int("publications", len(results)).
		Int("citations", sum.Citations).
		Int("raw", sum.Raw).
		Int("synthesized", sum.Synthesized).
		Str("path", r.cfg.OutputPath).
		Msg("publications from ORCID saved")
	return sum, nil
}

// checkCache reports whether the cache gate should stop the run. Any
// problem reading the record counts as stale.
func (r *runner) checkCache() (cache.Record, bool) {
	if r.cfg.Force {
		r.log.Debug().Msg("cache check skipped (force)")
		return cache.Record{}, false
	}
	rec, err := cache.Load(r.cfg.CachePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.log.Debug().Str("path", r.cfg.CachePath).Msg("no cache file, fetching")
		return cache.Record{}, false
	case err != nil:
		r.log.Warn().Err(err).Msg("cache could not be read, fetching fresh")
		return cache.Record{}, false
	}
	return rec, rec.Fresh(r.now(), r.cfg.MaxAge)
}

func (r *runner) fetchOne(ctx context.Context, i, total int, w types.WorkSummary) (bib.Result, error) {
	log := r.log.With().
		Int64("put_code", w.PutCode).
		Str("progress", fmt.Sprintf("%d/%d", i+1, total)).
		Logger()

	detail, err := r.src.GetWork(ctx, w.PutCode)
	if err != nil {
		return bib.Result{}, err
	}

	ids := orcid.ResolveIdentifiers(detail.ExternalIDs)
	if ids.DOI != "" {
		log.Debug().Str("doi", ids.DOI).Msg("DOI found")
	} else if ids.URL != "" {
		log.Debug().Str("url", ids.URL).Msg("URL found")
	}

	res := bib.Normalize(detail, ids)
	switch res.Origin() {
	case bib.OriginCitation:
		log.Info().Msg("BibTeX citation found")
	case bib.OriginRaw:
		log.Warn().Msg("BibTeX citation could not be parsed, keeping it verbatim")
	case bib.OriginSynthesized:
		log.Info().Msg("no BibTeX citation, built entry from work fields")
	}
	log.Debug().Str("citation", res.Text()).Msg("entry")
	return res, nil
}
