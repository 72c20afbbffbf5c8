package main

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/esg-insight/internal/filter"
	"github.com/sells-group/esg-insight/internal/model"
)

// addFilterFlags registers the cohort selection flags shared by the analysis
// commands.
func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("years", "", "inclusive year range, e.g. 2016:2020 (open ends allowed: 2018: or :2021)")
	f.String("regions", "", "comma-separated regions")
	f.String("industries", "", "comma-separated industries")
	f.Float64("min-esg", 0, "minimum overall ESG score")
	f.Bool("exclude-outliers", false, "drop rows outside the outlier band")
	f.Float64("outlier-sigma", 0, "outlier band width in standard deviations (default from config)")
	f.String("outlier-metrics", "", "comma-separated metrics checked for outliers (default from config)")
}

// parseYearRange parses "min:max" with either end optional.
func parseYearRange(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("invalid year range %q, want min:max", s)
	}

	var min, max int
	var err error
	if parts[0] != "" {
		if min, err = strconv.Atoi(parts[0]); err != nil {
			return 0, 0, eris.Errorf("invalid year %q", parts[0])
		}
	}
	if parts[1] != "" {
		if max, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, eris.Errorf("invalid year %q", parts[1])
		}
	}
	if min != 0 && max != 0 && max < min {
		return 0, 0, eris.Errorf("year range %q is inverted", s)
	}
	return min, max, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// buildFilterSpec reads the filter flags into a spec, applying config
// defaults for the outlier band.
func buildFilterSpec(cmd *cobra.Command) (filter.Spec, error) {
	f := cmd.Flags()
	spec := filter.Spec{}

	years, _ := f.GetString("years")
	min, max, err := parseYearRange(years)
	if err != nil {
		return spec, err
	}
	spec.YearMin, spec.YearMax = min, max

	regions, _ := f.GetString("regions")
	for _, s := range splitList(regions) {
		r, ok := model.ParseRegion(s)
		if !ok {
			return spec, eris.Errorf("unknown region %q", s)
		}
		spec.Regions = append(spec.Regions, r)
	}
	industries, _ := f.GetString("industries")
	for _, s := range splitList(industries) {
		ind, ok := model.ParseIndustry(s)
		if !ok {
			return spec, eris.Errorf("unknown industry %q", s)
		}
		spec.Industries = append(spec.Industries, ind)
	}

	spec.MinESGScore, _ = f.GetFloat64("min-esg")
	spec.ExcludeOutliers, _ = f.GetBool("exclude-outliers")

	spec.OutlierSigma, _ = f.GetFloat64("outlier-sigma")
	if spec.OutlierSigma == 0 {
		spec.OutlierSigma = cfg.Filter.OutlierSigma
	}

	rawMetrics, _ := f.GetString("outlier-metrics")
	metricNames := splitList(rawMetrics)
	if len(metricNames) == 0 {
		metricNames = cfg.Filter.OutlierMetrics
	}
	for _, s := range metricNames {
		m, ok := model.ParseMetric(s)
		if !ok {
			return spec, eris.Errorf("unknown metric %q", s)
		}
		spec.OutlierMetrics = append(spec.OutlierMetrics, m)
	}

	return spec, nil
}

// parseMetricList parses a comma-separated metric list.
func parseMetricList(s string) ([]model.Metric, error) {
	var metrics []model.Metric
	for _, name := range splitList(s) {
		m, ok := model.ParseMetric(name)
		if !ok {
			return nil, eris.Errorf("unknown metric %q", name)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}
