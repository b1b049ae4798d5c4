// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/orcid-bib/pkg/types"
)

const (
	configName = "orcid-bib"
	envPrefix  = "ORCID_BIB"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"orcid":      "orcid_id",
	"output":     "output",
	"csl-output": "csl_output",
	"cache-file": "cache_file",
	"max-age":    "max_age",
	"force":      "force",
	"base-url":   "base_url",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func addFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./orcid-bib.yaml or ~/.config/orcid-bib/orcid-bib.yaml)")
	pf.String("cache-file", types.DefaultCachePath, "path of the last-fetch cache record")
	pf.Duration("max-age", types.DefaultMaxAge, "how long a successful fetch stays fresh")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")

	f := cmd.Flags()
	f.String("orcid", types.DefaultORCIDID, "ORCID iD whose works are exported")
	f.StringP("output", "o", types.DefaultOutputPath, "BibTeX output file")
	f.String("csl-output", "", "also write a CSL-YAML bibliography to this file")
	f.String("base-url", types.DefaultBaseURL, "ORCID public API root")
	f.Bool("force", false, "fetch even when the cache is fresh")
}

// loadConfig merges defaults, the config file, ORCID_BIB_* environment
// variables and flags, in increasing order of precedence. It returns the
// config file used, if any.
func loadConfig(cmd *cobra.Command) (types.FetchConfig, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return types.FetchConfig{}, "", fmt.Errorf("binding flag %s: %w", flag, err)
			}
		}
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.FetchConfig{}, "", fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg types.FetchConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.FetchConfig{}, "", fmt.Errorf("parsing config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return types.FetchConfig{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultFetchConfig()

	v.SetDefault("orcid_id", d.ORCIDID)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("output", d.OutputPath)
	v.SetDefault("csl_output", "")
	v.SetDefault("cache_file", d.CachePath)
	v.SetDefault("max_age", d.MaxAge)
	v.SetDefault("force", false)

	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("user_agent", userAgent())
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("max_retries", 0)

	v.SetDefault("log.level", d.Logging.Level)
	v.SetDefault("log.format", d.Logging.Format)
	v.SetDefault("log.output", d.Logging.Output)
}

func userAgent() string {
	if version == "dev" {
		return types.DefaultUserAgent
	}
	return "orcid-bib/" + version
}

func validate(cfg types.FetchConfig) error {
	switch {
	case strings.TrimSpace(cfg.ORCIDID) == "":
		return errors.New("orcid_id must not be empty")
	case cfg.OutputPath == "":
		return errors.New("output must not be empty")
	case cfg.CachePath == "":
		return errors.New("cache_file must not be empty")
	case cfg.MaxAge < 0:
		return fmt.Errorf("max_age must not be negative, got %s", cfg.MaxAge)
	case cfg.MaxRetries < 0:
		return fmt.Errorf("max_retries must not be negative, got %d", cfg.MaxRetries)
	}
	return nil
}
