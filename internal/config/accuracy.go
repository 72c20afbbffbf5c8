package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

const weightSumEpsilon = 1e-6

// DefaultAccuracy returns the stock accuracy configuration.
func DefaultAccuracy() AccuracyConfig {
	return AccuracyConfig{
		SchemaCompletenessWeight:     15,
		RangeValidityWeight:          20,
		DuplicateKeysWeight:          10,
		TemporalCoverageWeight:       10,
		CrossFieldPlausibilityWeight: 20,
		IndustryPatternsWeight:       15,
		RegionalPatternsWeight:       10,
		GapTolerance:                 1,
		PassThreshold:                70,
	}
}

// WeightSum returns the total of all check weights.
func (c AccuracyConfig) WeightSum() float64 {
	return c.SchemaCompletenessWeight +
		c.RangeValidityWeight +
		c.DuplicateKeysWeight +
		c.TemporalCoverageWeight +
		c.CrossFieldPlausibilityWeight +
		c.IndustryPatternsWeight +
		c.RegionalPatternsWeight
}

// Validate checks that weights are non-negative and sum to 100.
func (c AccuracyConfig) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"schema_completeness_weight", c.SchemaCompletenessWeight},
		{"range_validity_weight", c.RangeValidityWeight},
		{"duplicate_keys_weight", c.DuplicateKeysWeight},
		{"temporal_coverage_weight", c.TemporalCoverageWeight},
		{"cross_field_plausibility_weight", c.CrossFieldPlausibilityWeight},
		{"industry_patterns_weight", c.IndustryPatternsWeight},
		{"regional_patterns_weight", c.RegionalPatternsWeight},
	} {
		if w.value < 0 {
			return eris.Errorf("accuracy config: %s must be non-negative, got %g", w.name, w.value)
		}
	}

	sum := c.WeightSum()
	if sum < 100-weightSumEpsilon || sum > 100+weightSumEpsilon {
		return eris.Errorf("accuracy config: check weights must sum to 100, got %g", sum)
	}
	if c.GapTolerance < 0 {
		return eris.Errorf("accuracy config: gap_tolerance must be non-negative, got %d", c.GapTolerance)
	}
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		return eris.Errorf("accuracy config: pass_threshold must be within [0, 100], got %g", c.PassThreshold)
	}

	return nil
}

// LoadAccuracy reads an accuracy configuration from a YAML file. Fields
// absent from the file keep their default values.
func LoadAccuracy(path string) (AccuracyConfig, error) {
	cfg := DefaultAccuracy()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "accuracy config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "accuracy config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// SaveAccuracy writes an accuracy configuration to a YAML file.
func SaveAccuracy(cfg AccuracyConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "accuracy config: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "accuracy config: write %s", path)
	}

	return nil
}
