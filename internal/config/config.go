package config

import (
	"path/filepath"
	"time"

	"countryfeatures/internal/components/telemetry"
	"countryfeatures/internal/countryname"
	"countryfeatures/internal/scrapers/worldometers"
	"countryfeatures/lib/configutil"
)

const DefaultPath = "countryfeatures.json5"

type InputsConfig struct {
	GDP        string `json:"gdp"`
	Population string `json:"population"`
}

type CrawlerConfig struct {
	IndexUrl         string `json:"index_url"`
	Selector         string `json:"selector"`
	PathPrefix       string `json:"path_prefix"`
	UserAgent        string `json:"user_agent"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

func (c CrawlerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c CrawlerConfig) ClientOptions() worldometers.ClientOptions {
	return worldometers.ClientOptions{
		UserAgent:        c.UserAgent,
		Timeout:          c.Timeout(),
		CloudflareBypass: c.CloudflareBypass,
	}
}

func (c CrawlerConfig) CrawlOptions() worldometers.CrawlOptions {
	return worldometers.CrawlOptions{
		IndexUrl: c.IndexUrl,
		Links: worldometers.LinkOptions{
			Selector:   c.Selector,
			PathPrefix: c.PathPrefix,
		},
	}
}

type Config struct {
	Inputs    InputsConfig `json:"inputs"`
	OutputDir string       `json:"output_dir"`
	// Database is a SQLite path, ":memory:" or a libSQL url.
	Database            string               `json:"database"`
	Crawler             CrawlerConfig        `json:"crawler"`
	SuggestionThreshold float64              `json:"suggestion_threshold"`
	Verbose             bool                 `json:"verbose"`
	Otlp                telemetry.OtlpConfig `json:"otlp"`
}

func Default() Config {
	return Config{
		Inputs: InputsConfig{
			GDP:        filepath.Join("output", "gdp_per_capita_2021.csv"),
			Population: filepath.Join("output", "population_2021.csv"),
		},
		OutputDir: "output",
		Database:  "countryfeatures.db",
		Crawler: CrawlerConfig{
			IndexUrl:       worldometers.DefaultIndexUrl,
			Selector:       worldometers.DefaultSelector,
			PathPrefix:     worldometers.DefaultPathPrefix,
			UserAgent:      worldometers.DefaultUserAgent,
			TimeoutSeconds: int(worldometers.DefaultTimeout / time.Second),
		},
		SuggestionThreshold: countryname.DefaultSuggestionThreshold,
	}
}

// Load reads the config file at `path` (and its local override) on top of
// Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	return configutil.ReadConfigWithDefaults(path, Default())
}
