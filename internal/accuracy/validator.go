package accuracy

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/esg-insight/internal/config"
	"github.com/sells-group/esg-insight/internal/dataset"
)

// Validate runs every quality check against the view and produces a graded
// report. The store supplies identity metadata so archived reports can be
// tied back to the exact dataset they assessed. Checks never abort: a check
// that cannot be computed scores zero.
func Validate(store *dataset.Store, view dataset.View, cfg config.AccuracyConfig) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "accuracy: invalid config")
	}

	obs := view.Observations()

	type check struct {
		name   string
		weight float64
		// strict checks pass only with a perfect score
		strict bool
		run    func() (float64, string)
	}

	checks := []check{
		{CheckSchemaCompleteness, cfg.SchemaCompletenessWeight, false,
			func() (float64, string) { return checkSchemaCompleteness(obs) }},
		{CheckRangeValidity, cfg.RangeValidityWeight, true,
			func() (float64, string) { return checkRangeValidity(obs) }},
		{CheckDuplicateKeys, cfg.DuplicateKeysWeight, true,
			func() (float64, string) { return checkDuplicateKeys(obs) }},
		{CheckTemporalCoverage, cfg.TemporalCoverageWeight, false,
			func() (float64, string) { return checkTemporalCoverage(obs, cfg.GapTolerance) }},
		{CheckCrossFieldPlausibility, cfg.CrossFieldPlausibilityWeight, false,
			func() (float64, string) { return checkCrossFieldPlausibility(view) }},
		{CheckIndustryPatterns, cfg.IndustryPatternsWeight, false,
			func() (float64, string) { return checkIndustryPatterns(obs) }},
		{CheckRegionalPatterns, cfg.RegionalPatternsWeight, false,
			func() (float64, string) { return checkRegionalPatterns(obs) }},
	}

	report := &Report{
		ID:               uuid.New(),
		CreatedAt:        time.Now().UTC(),
		StoreFingerprint: store.Fingerprint(),
		StoreRows:        store.Size(),
		ViewRows:         view.Len(),
		Checks:           make([]CheckResult, 0, len(checks)),
	}

	weighted := 0.0
	for _, c := range checks {
		score, detail := c.run()
		passed := score >= cfg.PassThreshold
		if c.strict {
			passed = score >= 100
		}

		report.Checks = append(report.Checks, CheckResult{
			Name:   c.name,
			Passed: passed,
			Score:  round1(score),
			Weight: c.weight,
			Detail: detail,
		})
		weighted += score * c.weight

		zap.L().Debug("accuracy check complete",
			zap.String("check", c.name),
			zap.Float64("score", score),
			zap.Bool("passed", passed))
	}

	report.Overall = round1(weighted / cfg.WeightSum())
	report.Grade, report.Readiness = grade(report.Overall)

	zap.L().Info("accuracy validation complete",
		zap.Float64("overall", report.Overall),
		zap.String("grade", report.Grade),
		zap.Int("rows", view.Len()))

	return report, nil
}
