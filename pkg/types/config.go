package types

import "time"

// Defaults for a run with no configuration file, environment, or flags.
const (
	DefaultORCIDID    = "0009-0008-0363-6748"
	DefaultBaseURL    = "https://pub.orcid.org/v3.0"
	DefaultOutputPath = "publications.bib"
	DefaultCachePath  = ".cache/orcid_cache.json"
	DefaultMaxAge     = 24 * time.Hour
	DefaultTimeout    = 60 * time.Second
	DefaultRateLimit  = 24.0
	DefaultUserAgent  = "orcid-bib/0.1"
)

// HTTPConfig holds shared HTTP settings used for requests to ORCID.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimit is the maximum number of requests per second.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LoggingConfig selects the log level, encoding, and destination.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is "stderr" or "stdout".
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// FetchConfig is everything the pipeline needs for one run. The CLI fills
// it from viper; tests build it directly.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// ORCIDID is the researcher whose works are fetched.
	ORCIDID string `json:"orcid_id" yaml:"orcid_id" mapstructure:"orcid_id"`

	// BaseURL is the ORCID public API root, without trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// OutputPath is the .bib file written on success.
	OutputPath string `json:"output" yaml:"output" mapstructure:"output"`

	// CSLOutputPath, when set, receives a CSL-YAML copy of the bibliography.
	CSLOutputPath string `json:"csl_output,omitempty" yaml:"csl_output,omitempty" mapstructure:"csl_output"`

	// CachePath is the JSON file holding the last successful fetch time.
	CachePath string `json:"cache_file" yaml:"cache_file" mapstructure:"cache_file"`

	// MaxAge is how long a successful fetch stays fresh.
	MaxAge time.Duration `json:"max_age" yaml:"max_age" mapstructure:"max_age"`

	// Force skips the cache gate.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	// AccessToken is an optional ORCID /read-public bearer token. It is
	// loaded from the secrets directory, never from config files.
	AccessToken string `json:"-" yaml:"-" mapstructure:"-"`

	Logging LoggingConfig `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultFetchConfig returns a FetchConfig populated with the defaults.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			RateLimit: DefaultRateLimit,
		},
		ORCIDID:    DefaultORCIDID,
		BaseURL:    DefaultBaseURL,
		OutputPath: DefaultOutputPath,
		CachePath:  DefaultCachePath,
		MaxAge:     DefaultMaxAge,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}
