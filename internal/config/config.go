// Package config loads application configuration from config.yaml and the
// environment, and owns the global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Filter   FilterConfig   `yaml:"filter" mapstructure:"filter"`
	Accuracy AccuracyConfig `yaml:"accuracy" mapstructure:"accuracy"`
	Archive  ArchiveConfig  `yaml:"archive" mapstructure:"archive"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetConfig configures the record store loader.
type DatasetConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Charset   string `yaml:"charset" mapstructure:"charset"`
	// Strict rejects a load containing invalid rows instead of dropping them.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// FilterConfig configures outlier exclusion defaults.
type FilterConfig struct {
	OutlierSigma   float64  `yaml:"outlier_sigma" mapstructure:"outlier_sigma"`
	OutlierMetrics []string `yaml:"outlier_metrics" mapstructure:"outlier_metrics"`
}

// AccuracyConfig configures the accuracy validator: per-check weights
// (summing to 100) and check tolerances.
type AccuracyConfig struct {
	SchemaCompletenessWeight     float64 `yaml:"schema_completeness_weight" mapstructure:"schema_completeness_weight"`
	RangeValidityWeight          float64 `yaml:"range_validity_weight" mapstructure:"range_validity_weight"`
	DuplicateKeysWeight          float64 `yaml:"duplicate_keys_weight" mapstructure:"duplicate_keys_weight"`
	TemporalCoverageWeight       float64 `yaml:"temporal_coverage_weight" mapstructure:"temporal_coverage_weight"`
	CrossFieldPlausibilityWeight float64 `yaml:"cross_field_plausibility_weight" mapstructure:"cross_field_plausibility_weight"`
	IndustryPatternsWeight       float64 `yaml:"industry_patterns_weight" mapstructure:"industry_patterns_weight"`
	RegionalPatternsWeight       float64 `yaml:"regional_patterns_weight" mapstructure:"regional_patterns_weight"`

	// GapTolerance is how many missing years a company's span may contain
	// before temporal coverage counts it against the score.
	GapTolerance int `yaml:"gap_tolerance" mapstructure:"gap_tolerance"`
	// PassThreshold is the per-check score at or above which a graded check
	// counts as passed.
	PassThreshold float64 `yaml:"pass_threshold" mapstructure:"pass_threshold"`
}

// ArchiveConfig configures the accuracy report archive.
type ArchiveConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSec     float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("ESG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "company_esg_financial_dataset.csv")
	v.SetDefault("dataset.delimiter", ",")
	v.SetDefault("dataset.strict", false)
	v.SetDefault("filter.outlier_sigma", 3.0)
	v.SetDefault("filter.outlier_metrics", []string{"esg_overall", "revenue", "carbon_emissions"})
	v.SetDefault("accuracy.schema_completeness_weight", 15.0)
	v.SetDefault("accuracy.range_validity_weight", 20.0)
	v.SetDefault("accuracy.duplicate_keys_weight", 10.0)
	v.SetDefault("accuracy.temporal_coverage_weight", 10.0)
	v.SetDefault("accuracy.cross_field_plausibility_weight", 20.0)
	v.SetDefault("accuracy.industry_patterns_weight", 15.0)
	v.SetDefault("accuracy.regional_patterns_weight", 10.0)
	v.SetDefault("accuracy.gap_tolerance", 1)
	v.SetDefault("accuracy.pass_threshold", 70.0)
	v.SetDefault("archive.driver", "sqlite")
	v.SetDefault("archive.path", "esg-insight.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
