// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists the time of the last successful fetch. The record
// is the only state carried between runs: a JSON object
// {"last_fetch": "<ISO-8601 timestamp>"}.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoTimestamp is returned when the cache file has no last_fetch value.
var ErrNoTimestamp = errors.New("cache record has no last_fetch timestamp")

// Record is the persisted cache state.
type Record struct {
	LastFetch time.Time
}

type fileRecord struct {
	LastFetch string `json:"last_fetch"`
}

// timestampLayouts are tried in order. The zone-less forms are what
// Python's datetime.isoformat() writes for naive local times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Load reads the record at path. A missing file returns an error wrapping
// os.ErrNotExist; callers treat every error as a stale cache.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var fr fileRecord
	if err := json.Unmarshal(data, &fr); err != nil {
		return Record{}, fmt.Errorf("parsing cache file %s: %w", path, err)
	}
	if fr.LastFetch == "" {
		return Record{}, ErrNoTimestamp
	}

	t, err := parseTimestamp(fr.LastFetch)
	if err != nil {
		return Record{}, fmt.Errorf("parsing cache file %s: %w", path, err)
	}
	return Record{LastFetch: t}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// Age is the time elapsed since the last fetch.
func (r Record) Age(now time.Time) time.Duration {
	return now.Sub(r.LastFetch)
}

// Fresh reports whether less than maxAge has passed since the last fetch.
func (r Record) Fresh(now time.Time, maxAge time.Duration) bool {
	return r.Age(now) < maxAge
}

// Save writes a record for t to path, creating the parent directory and
// replacing any previous content.
func Save(path string, t time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.Marshal(fileRecord{LastFetch: t.Format(time.RFC3339Nano)})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache file: %w", err)
	}
	return nil
}
