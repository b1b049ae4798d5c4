// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/orcid-bib/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the last-fetch record",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Print the last fetch time and whether it is still fresh",
			Args:  cobra.NoArgs,
			RunE:  runCacheStatus,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the cache record so the next run fetches",
			Args:  cobra.NoArgs,
			RunE:  runCacheClear,
		},
	)
	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	rec, err := cache.Load(cfg.CachePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintf(out, "%s: no cache record\n", cfg.CachePath)
		return nil
	case err != nil:
		fmt.Fprintf(out, "%s: unreadable (%v), next run will fetch\n", cfg.CachePath, err)
		return nil
	}

	now := time.Now()
	state := "stale"
	if rec.Fresh(now, cfg.MaxAge) {
		state = "fresh"
	}
	fmt.Fprintf(out, "%s: last fetch %s (%s ago), %s\n",
		cfg.CachePath,
		rec.LastFetch.Local().Format(time.RFC3339),
		rec.Age(now).Truncate(time.Second),
		state)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cache.Clear(cfg.CachePath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cfg.CachePath)
	return nil
}
