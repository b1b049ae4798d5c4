// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the orcid-bib CLI. The root command
// fetches a researcher's works from ORCID and writes them to a BibTeX file,
// skipping the fetch while the previous one is younger than max-age.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/orcid-bib/internal/logging"
	"github.com/pdiddy/orcid-bib/internal/orcid"
	"github.com/pdiddy/orcid-bib/internal/pipeline"
	"github.com/pdiddy/orcid-bib/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orcid-bib",
		Short: "Export ORCID works to a BibTeX bibliography",
		Long: `orcid-bib lists the works on an ORCID record, fetches each one, and writes
a single BibTeX file sorted newest first.

Works that carry a BibTeX citation keep it (with the DOI or URL added when
missing). Works without one get a @misc entry built from their title, year,
contributors, and journal. A cache record remembers the last successful
fetch so repeated runs inside max-age make no requests.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runFetch,
	}

	addFlags(cmd)
	cmd.AddCommand(newCacheCmd(), newVersionCmd())
	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, used, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging)
	if used != "" {
		log.Debug().Str("file", used).Msg("using config file")
	}

	s, err := secrets.Load(secrets.DefaultDir, log)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		log.Debug().Strs("keys", s.Keys()).Msg("loaded secrets")
	}
	cfg.AccessToken = secretDefault(s, secrets.AccessTokenKey, os.Getenv(envPrefix+"_ACCESS_TOKEN"))

	client := orcid.NewClientFromConfig(cfg)
	_, err = pipeline.Run(cmd.Context(), cfg, client, pipeline.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Msg("fetch failed")
	}
	return err
}

// secretDefault returns fallback when set, or the secret value for key.
func secretDefault(s secrets.Secrets, key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return s.Get(key)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
