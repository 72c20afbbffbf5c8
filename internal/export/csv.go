// Package export writes views and analysis results as CSV, XLSX, and
// rendered terminal tables.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

// formatFloat renders a float the shortest way that reparses exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// observationRecord renders one observation in canonical column order.
func observationRecord(o *model.Observation) []string {
	growth := ""
	if o.GrowthRate != nil {
		growth = formatFloat(*o.GrowthRate)
	}
	return []string{
		o.CompanyID,
		o.CompanyName,
		strconv.Itoa(o.Year),
		string(o.Region),
		string(o.Industry),
		formatFloat(o.Revenue),
		formatFloat(o.MarketCap),
		formatFloat(o.ProfitMargin),
		growth,
		formatFloat(o.ESGOverall),
		formatFloat(o.ESGEnvironmental),
		formatFloat(o.ESGSocial),
		formatFloat(o.ESGGovernance),
		formatFloat(o.CarbonEmissions),
		formatFloat(o.EnergyConsumption),
		formatFloat(o.WaterUsage),
	}
}

// WriteViewCSV writes a view in the canonical input schema, so the output
// reloads through the dataset loader without loss.
func WriteViewCSV(w io.Writer, v dataset.View) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(dataset.Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, o := range v.Observations() {
		if err := cw.Write(observationRecord(o)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// WriteAggregateCSV writes one row per group with a column per metric/op
// combination. yoy_delta cells stay empty where the delta is undefined.
func WriteAggregateCSV(w io.Writer, res *analytics.AggregateResult) error {
	cw := csv.NewWriter(w)

	header := []string{string(res.GroupBy), "rows"}
	for _, m := range res.Metrics {
		for _, op := range res.Ops {
			header = append(header, string(m)+"_"+string(op))
		}
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, key := range res.Keys {
		g := res.Groups[key]
		record := []string{key, strconv.Itoa(g.Rows)}
		for _, m := range res.Metrics {
			ms := g.Metrics[m]
			for _, op := range res.Ops {
				record = append(record, formatStat(ms, op))
			}
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

func formatStat(ms *analytics.MetricStats, op analytics.Op) string {
	if ms == nil {
		return ""
	}
	switch op {
	case analytics.OpMean:
		if ms.Count == 0 {
			return ""
		}
		return formatFloat(ms.Mean)
	case analytics.OpSum:
		return formatFloat(ms.Sum)
	case analytics.OpCount:
		return strconv.Itoa(ms.Count)
	case analytics.OpYoYDelta:
		if ms.YoYDelta == nil {
			return ""
		}
		return formatFloat(*ms.YoYDelta)
	default:
		return ""
	}
}

// WriteCorrelationCSV writes one row per metric pair. Undefined cells carry
// an empty coefficient and undefined=true.
func WriteCorrelationCSV(w io.Writer, matrix *analytics.CorrelationMatrix) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"metric_a", "metric_b", "r", "n", "undefined"}); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, pair := range matrix.Pairs {
		c := matrix.Cells[pair]
		r := ""
		if !c.Undefined {
			r = formatFloat(c.R)
		}
		record := []string{
			string(pair.A), string(pair.B),
			r, strconv.Itoa(c.N), strconv.FormatBool(c.Undefined),
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}
