package accuracy

import (
	"fmt"
	"math"

	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

// Check names.
const (
	CheckSchemaCompleteness     = "schema_completeness"
	CheckRangeValidity          = "range_validity"
	CheckDuplicateKeys          = "duplicate_keys"
	CheckTemporalCoverage       = "temporal_coverage"
	CheckCrossFieldPlausibility = "cross_field_plausibility"
	CheckIndustryPatterns       = "industry_patterns"
	CheckRegionalPatterns       = "regional_patterns"
)

// prior is a directional expectation for the correlation between two metrics.
type prior struct {
	a, b   model.Metric
	target float64
}

// priors encode domain knowledge about how the metrics should move together:
// heavier environmental footprints depress environmental scores, larger
// companies tend to invest more in ESG programs.
var priors = []prior{
	{model.MetricCarbonEmissions, model.MetricESGEnvironmental, -0.65},
	{model.MetricEnergyConsumption, model.MetricESGEnvironmental, -0.50},
	{model.MetricWaterUsage, model.MetricESGEnvironmental, -0.45},
	{model.MetricRevenue, model.MetricESGOverall, 0.25},
	{model.MetricMarketCap, model.MetricESGOverall, 0.35},
	{model.MetricESGEnvironmental, model.MetricESGSocial, 0.15},
	{model.MetricESGGovernance, model.MetricMarketCap, 0.20},
	{model.MetricESGGovernance, model.MetricRevenue, 0.18},
}

// industryTarget is the expected mean overall ESG score for an industry.
func industryTarget(ind model.Industry) float64 {
	switch ind {
	case model.IndustryTechnology, model.IndustryHealthcare, model.IndustryFinance:
		return 65
	case model.IndustryEnergy, model.IndustryMaterials, model.IndustryManufacturing:
		return 45
	default:
		return 55
	}
}

// regionTarget is the expected mean overall ESG score for a region.
func regionTarget(r model.Region) float64 {
	switch r {
	case model.RegionEurope, model.RegionNorthAmerica:
		return 60
	case model.RegionAsiaPacific:
		return 55
	default:
		return 50
	}
}

// proximity scores how close an actual value lands to a target, as a
// percentage. Zero floor, no credit beyond a full target-width miss.
func proximity(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	score := 100 - math.Abs(actual-target)/math.Abs(target)*100
	if score < 0 {
		return 0
	}
	return score
}

// checkSchemaCompleteness scores the fraction of populated cells. Only the
// optional fields (company name, growth rate) can be absent on a parsed
// observation.
func checkSchemaCompleteness(obs []*model.Observation) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	total := len(obs) * len(dataset.Columns)
	missing := 0
	for _, o := range obs {
		if o.CompanyName == "" {
			missing++
		}
		if o.GrowthRate == nil {
			missing++
		}
	}

	score := 100 * float64(total-missing) / float64(total)
	return score, fmt.Sprintf("%d of %d cells populated", total-missing, total)
}

// checkRangeValidity scores the fraction of rows whose values sit inside
// their documented ranges.
func checkRangeValidity(obs []*model.Observation) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	invalid := 0
	for _, o := range obs {
		if o.Validate() != nil {
			invalid++
		}
	}

	score := 100 * float64(len(obs)-invalid) / float64(len(obs))
	return score, fmt.Sprintf("%d of %d rows out of range", invalid, len(obs))
}

// checkDuplicateKeys scores the fraction of rows carrying a unique
// company/year identity.
func checkDuplicateKeys(obs []*model.Observation) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	seen := make(map[string]bool, len(obs))
	dupes := 0
	for _, o := range obs {
		key := o.Key()
		if seen[key] {
			dupes++
			continue
		}
		seen[key] = true
	}

	score := 100 * float64(len(obs)-dupes) / float64(len(obs))
	return score, fmt.Sprintf("%d duplicate identities in %d rows", dupes, len(obs))
}

// checkTemporalCoverage scores the fraction of companies whose reporting
// years form a near-contiguous span. gapTolerance is how many missing years
// a company's span may contain before it counts against the score.
func checkTemporalCoverage(obs []*model.Observation, gapTolerance int) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	years := make(map[string]map[int]bool)
	for _, o := range obs {
		if years[o.CompanyID] == nil {
			years[o.CompanyID] = make(map[int]bool)
		}
		years[o.CompanyID][o.Year] = true
	}

	covered := 0
	for _, ys := range years {
		min, max := 0, 0
		first := true
		for y := range ys {
			if first || y < min {
				min = y
			}
			if first || y > max {
				max = y
			}
			first = false
		}
		span := max - min + 1
		if span-len(ys) <= gapTolerance {
			covered++
		}
	}

	score := 100 * float64(covered) / float64(len(years))
	return score, fmt.Sprintf("%d of %d companies with contiguous coverage", covered, len(years))
}

// checkCrossFieldPlausibility compares observed metric correlations against
// directional priors and scores each pair by proximity to its target.
func checkCrossFieldPlausibility(v dataset.View) (float64, string) {
	if v.Len() == 0 {
		return 0, "no rows"
	}

	pairs := make([][2]model.Metric, len(priors))
	for i, p := range priors {
		pairs[i] = [2]model.Metric{p.a, p.b}
	}
	matrix := analytics.Correlate(v, pairs)

	sum := 0.0
	defined := 0
	for _, p := range priors {
		c, ok := matrix.Get(p.a, p.b)
		if !ok || c.Undefined {
			continue
		}
		sum += proximity(c.R, p.target)
		defined++
	}
	if defined == 0 {
		return 0, "no pair had enough samples to correlate"
	}

	score := sum / float64(defined)
	return score, fmt.Sprintf("%d of %d correlation priors measurable", defined, len(priors))
}

// checkIndustryPatterns scores how closely each industry's mean overall ESG
// score tracks its expected tier.
func checkIndustryPatterns(obs []*model.Observation) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	sums := make(map[model.Industry]float64)
	counts := make(map[model.Industry]int)
	for _, o := range obs {
		sums[o.Industry] += o.ESGOverall
		counts[o.Industry]++
	}

	total := 0.0
	for ind, sum := range sums {
		mean := sum / float64(counts[ind])
		total += proximity(mean, industryTarget(ind))
	}

	score := total / float64(len(sums))
	return score, fmt.Sprintf("%d industries measured", len(sums))
}

// checkRegionalPatterns scores how closely each region's mean overall ESG
// score tracks its expected tier.
func checkRegionalPatterns(obs []*model.Observation) (float64, string) {
	if len(obs) == 0 {
		return 0, "no rows"
	}

	sums := make(map[model.Region]float64)
	counts := make(map[model.Region]int)
	for _, o := range obs {
		sums[o.Region] += o.ESGOverall
		counts[o.Region]++
	}

	total := 0.0
	for r, sum := range sums {
		mean := sum / float64(counts[r])
		total += proximity(mean, regionTarget(r))
	}

	score := total / float64(len(sums))
	return score, fmt.Sprintf("%d regions measured", len(sums))
}
