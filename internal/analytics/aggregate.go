package analytics

import (
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

// Op is a summary statistic the aggregation engine can compute.
type Op string

const (
	OpMean     Op = "mean"
	OpSum      Op = "sum"
	OpCount    Op = "count"
	OpYoYDelta Op = "yoy_delta"
)

// ParseOp matches an op name.
func ParseOp(s string) (Op, bool) {
	switch Op(s) {
	case OpMean, OpSum, OpCount, OpYoYDelta:
		return Op(s), true
	default:
		return "", false
	}
}

// MetricStats holds the computed statistics for one metric within one group.
type MetricStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	// YoYDelta is the change in the group mean versus the previous year.
	// Nil for the first year in range and across gaps: a missing prior year
	// is undefined, never zero.
	YoYDelta *float64 `json:"yoy_delta,omitempty"`
}

// GroupStats holds the statistics of one group key.
type GroupStats struct {
	Key     string                        `json:"key"`
	Rows    int                           `json:"rows"`
	Metrics map[model.Metric]*MetricStats `json:"metrics"`
}

// AggregateResult maps group keys to computed statistics. Groups with zero
// members are never present. Keys holds the group keys in stable order
// (numeric for year grouping, lexical otherwise).
type AggregateResult struct {
	GroupBy model.Field            `json:"group_by"`
	Metrics []model.Metric         `json:"metrics"`
	Ops     []Op                   `json:"ops"`
	Groups  map[string]*GroupStats `json:"groups"`
	Keys    []string               `json:"keys"`
}

// Aggregate computes grouped summary statistics over a view. yoy_delta is
// only meaningful for year grouping and is rejected otherwise. A zero-row
// view yields an empty result, not an error.
func Aggregate(v dataset.View, groupBy model.Field, metrics []model.Metric, ops []Op) (*AggregateResult, error) {
	wantYoY := false
	for _, op := range ops {
		if op == OpYoYDelta {
			wantYoY = true
		}
	}
	if wantYoY && groupBy != model.FieldYear {
		return nil, eris.Errorf("analytics: yoy_delta requires grouping by year, got %q", groupBy)
	}

	buckets := make(map[string][]*model.Observation)
	for _, o := range v.Observations() {
		key := o.GroupKey(groupBy)
		buckets[key] = append(buckets[key], o)
	}

	res := &AggregateResult{
		GroupBy: groupBy,
		Metrics: metrics,
		Ops:     ops,
		Groups:  make(map[string]*GroupStats, len(buckets)),
	}

	for key, members := range buckets {
		g := &GroupStats{
			Key:     key,
			Rows:    len(members),
			Metrics: make(map[model.Metric]*MetricStats, len(metrics)),
		}
		for _, m := range metrics {
			values := make([]float64, 0, len(members))
			for _, o := range members {
				if val, ok := o.Value(m); ok {
					values = append(values, val)
				}
			}
			ms := &MetricStats{Count: len(values)}
			if len(values) > 0 {
				ms.Sum = pairwiseSum(values)
				ms.Mean = ms.Sum / float64(len(values))
			}
			g.Metrics[m] = ms
		}
		res.Groups[key] = g
		res.Keys = append(res.Keys, key)
	}

	sortKeys(res.Keys, groupBy)

	if wantYoY {
		fillYoYDeltas(res, metrics)
	}
	return res, nil
}

// fillYoYDeltas computes mean[year] - mean[year-1] per metric. The exactly
// prior year must exist; otherwise the delta stays nil.
func fillYoYDeltas(res *AggregateResult, metrics []model.Metric) {
	for _, key := range res.Keys {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		prev, ok := res.Groups[strconv.Itoa(year-1)]
		if !ok {
			continue
		}
		cur := res.Groups[key]
		for _, m := range metrics {
			cs, ps := cur.Metrics[m], prev.Metrics[m]
			if cs == nil || ps == nil || cs.Count == 0 || ps.Count == 0 {
				continue
			}
			d := cs.Mean - ps.Mean
			cs.YoYDelta = &d
		}
	}
}

func sortKeys(keys []string, groupBy model.Field) {
	if groupBy == model.FieldYear {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		return
	}
	sort.Strings(keys)
}
