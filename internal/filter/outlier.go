package filter

import (
	"math"

	"github.com/sells-group/esg-insight/internal/model"
)

// excludeOutliers removes observations whose value on ANY of the given
// metrics sits at or beyond sigma standard deviations from the cohort mean.
// Mean and deviation are computed over the cohort itself. Cohorts with fewer
// than two observations are returned untouched: sigma is degenerate there.
func excludeOutliers(cohort []*model.Observation, sigma float64, metrics []model.Metric) []*model.Observation {
	if len(cohort) < 2 {
		return cohort
	}

	type band struct {
		mean, dev float64
	}
	bands := make(map[model.Metric]band, len(metrics))
	for _, m := range metrics {
		mean, dev, n := meanStddev(cohort, m)
		if n < 2 || dev == 0 {
			continue // uniform or empty series produces no outliers
		}
		bands[m] = band{mean: mean, dev: dev}
	}
	if len(bands) == 0 {
		return cohort
	}

	kept := cohort[:0:0]
	for _, o := range cohort {
		outlier := false
		for m, b := range bands {
			v, ok := o.Value(m)
			if !ok {
				continue
			}
			d := v - b.mean
			if d < 0 {
				d = -d
			}
			// The band edge counts as out: values exactly sigma deviations
			// from the mean are excluded.
			if d >= sigma*b.dev {
				outlier = true
				break
			}
		}
		if !outlier {
			kept = append(kept, o)
		}
	}
	return kept
}

// meanStddev returns the population mean and standard deviation of a metric
// over the cohort, skipping missing values.
func meanStddev(cohort []*model.Observation, m model.Metric) (mean, dev float64, n int) {
	var sum float64
	for _, o := range cohort {
		if v, ok := o.Value(m); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(n)

	var sq float64
	for _, o := range cohort {
		if v, ok := o.Value(m); ok {
			d := v - mean
			sq += d * d
		}
	}
	dev = math.Sqrt(sq / float64(n))
	return mean, dev, n
}
