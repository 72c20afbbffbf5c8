// Package filter derives views from the record store by applying a
// declarative filter spec.
package filter

import (
	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

// DefaultOutlierSigma is the band width used when a spec does not override it.
const DefaultOutlierSigma = 3.0

// DefaultOutlierMetrics are the metrics checked for outliers unless the spec
// designates its own set.
func DefaultOutlierMetrics() []model.Metric {
	return []model.Metric{
		model.MetricESGOverall,
		model.MetricRevenue,
		model.MetricCarbonEmissions,
	}
}

// Spec is an immutable filter configuration. The zero value selects
// everything (and keeps outliers, matching the source dashboard's default).
type Spec struct {
	YearMin int // inclusive; 0 = unbounded
	YearMax int // inclusive; 0 = unbounded

	Regions    []model.Region   // empty = all
	Industries []model.Industry // empty = all

	MinESGScore float64 // lower bound on esg_overall

	ExcludeOutliers bool
	OutlierSigma    float64        // 0 = DefaultOutlierSigma
	OutlierMetrics  []model.Metric // nil = DefaultOutlierMetrics
}

// Apply derives a view by evaluating the spec's predicates in a fixed order:
// region, industry, year bounds, minimum score, and outlier exclusion last.
// Outlier classification runs on the already-filtered cohort so the exclusion
// band is local to the selected population, not skewed by unrelated slices.
// Apply is pure: the same spec over the same view always yields the same
// result, and an empty result is valid.
func Apply(v dataset.View, spec Spec) dataset.View {
	regions := make(map[model.Region]struct{}, len(spec.Regions))
	for _, r := range spec.Regions {
		regions[r] = struct{}{}
	}
	industries := make(map[model.Industry]struct{}, len(spec.Industries))
	for _, ind := range spec.Industries {
		industries[ind] = struct{}{}
	}

	var cohort []*model.Observation
	for _, o := range v.Observations() {
		if len(regions) > 0 {
			if _, ok := regions[o.Region]; !ok {
				continue
			}
		}
		if len(industries) > 0 {
			if _, ok := industries[o.Industry]; !ok {
				continue
			}
		}
		if spec.YearMin != 0 && o.Year < spec.YearMin {
			continue
		}
		if spec.YearMax != 0 && o.Year > spec.YearMax {
			continue
		}
		if o.ESGOverall < spec.MinESGScore {
			continue
		}
		cohort = append(cohort, o)
	}

	if spec.ExcludeOutliers {
		cohort = excludeOutliers(cohort, spec.sigma(), spec.metrics())
	}

	return dataset.NewView(cohort)
}

func (s Spec) sigma() float64 {
	if s.OutlierSigma > 0 {
		return s.OutlierSigma
	}
	return DefaultOutlierSigma
}

func (s Spec) metrics() []model.Metric {
	if len(s.OutlierMetrics) > 0 {
		return s.OutlierMetrics
	}
	return DefaultOutlierMetrics()
}
