// Package config loads panel-cli configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Geocoder GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig configures the provider panel source spreadsheet.
type InputConfig struct {
	File     string `yaml:"file" mapstructure:"file"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	Country  string `yaml:"country" mapstructure:"country"`
}

// OutputConfig configures where enriched artifacts are written.
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Spreadsheet string `yaml:"spreadsheet" mapstructure:"spreadsheet"`
	MapFile     string `yaml:"map_file" mapstructure:"map_file"`
	GeoJSONFile string `yaml:"geojson_file" mapstructure:"geojson_file"`
	SummaryFile string `yaml:"summary_file" mapstructure:"summary_file"`
}

// GeocoderConfig configures the upstream geocoding service client.
type GeocoderConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	MinDelaySecs float64 `yaml:"min_delay_secs" mapstructure:"min_delay_secs"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the provider HTTP timeout.
func (g GeocoderConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// MinDelay returns the mandatory delay between successive lookups.
func (g GeocoderConfig) MinDelay() time.Duration {
	return time.Duration(g.MinDelaySecs * float64(time.Second))
}

// CacheConfig configures the persistent resolution cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// ResolverConfig configures the fallback resolver's retry policy.
type ResolverConfig struct {
	AttemptsPerTier int `yaml:"attempts_per_tier" mapstructure:"attempts_per_tier"`
	BackoffSecs     int `yaml:"backoff_secs" mapstructure:"backoff_secs"`
}

// Backoff returns the fixed delay between failed attempts within a tier.
func (r ResolverConfig) Backoff() time.Duration {
	return time.Duration(r.BackoffSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input.file", "data/providers.xlsx")
	v.SetDefault("input.country", "Kenya")
	v.SetDefault("output.dir", "outputs")
	v.SetDefault("output.spreadsheet", "providers_geocoded.xlsx")
	v.SetDefault("output.map_file", "provider_map.html")
	v.SetDefault("output.geojson_file", "provider_map.geojson")
	v.SetDefault("output.summary_file", "provider_summary.md")
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "medical_providers_panel")
	v.SetDefault("geocoder.min_delay_secs", 1.0)
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "outputs/geocode_cache.db")
	v.SetDefault("resolver.attempts_per_tier", 3)
	v.SetDefault("resolver.backoff_secs", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Default returns the configuration produced by defaults alone, without
// reading any file or environment. Used by `config init`.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// ExampleYAML renders the default configuration as a YAML document.
func ExampleYAML() ([]byte, error) {
	out, err := yaml.Marshal(Default())
	if err != nil {
		return nil, eris.Wrap(err, "config: marshal example")
	}
	return out, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
