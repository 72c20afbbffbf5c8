package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sells-group/esg-insight/internal/accuracy"
	"github.com/sells-group/esg-insight/internal/analytics"
)

// RenderAggregate prints an aggregation result as a terminal table.
func RenderAggregate(w io.Writer, res *analytics.AggregateResult) {
	if len(res.Keys) == 0 {
		_, _ = fmt.Fprintln(w, "(0 groups)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{string(res.GroupBy), "rows"}
	for _, m := range res.Metrics {
		for _, op := range res.Ops {
			header = append(header, string(m)+" "+string(op))
		}
	}
	t.AppendHeader(header)

	for _, key := range res.Keys {
		g := res.Groups[key]
		row := table.Row{key, g.Rows}
		for _, m := range res.Metrics {
			ms := g.Metrics[m]
			for _, op := range res.Ops {
				row = append(row, renderStat(ms, op))
			}
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d groups)\n", len(res.Keys))
}

func renderStat(ms *analytics.MetricStats, op analytics.Op) string {
	if ms == nil {
		return "-"
	}
	switch op {
	case analytics.OpMean:
		if ms.Count == 0 {
			return "-"
		}
		return fmt.Sprintf("%.2f", ms.Mean)
	case analytics.OpSum:
		return fmt.Sprintf("%.2f", ms.Sum)
	case analytics.OpCount:
		return fmt.Sprintf("%d", ms.Count)
	case analytics.OpYoYDelta:
		if ms.YoYDelta == nil {
			return "-"
		}
		return fmt.Sprintf("%+.2f", *ms.YoYDelta)
	default:
		return "-"
	}
}

// RenderCorrelation prints a correlation matrix as one row per pair.
func RenderCorrelation(w io.Writer, matrix *analytics.CorrelationMatrix) {
	if len(matrix.Pairs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 pairs)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"metric a", "metric b", "r", "n"})

	for _, pair := range matrix.Pairs {
		c := matrix.Cells[pair]
		r := "undefined"
		if !c.Undefined {
			r = fmt.Sprintf("%+.4f", c.R)
		}
		t.AppendRow(table.Row{string(pair.A), string(pair.B), r, c.N})
	}

	t.Render()
}

// RenderReport prints an accuracy report with its per-check breakdown.
func RenderReport(w io.Writer, report *accuracy.Report) {
	_, _ = fmt.Fprintf(w, "Accuracy: %.1f  Grade: %s (%s)\n", report.Overall, report.Grade, report.Readiness)
	_, _ = fmt.Fprintf(w, "Dataset: %d rows assessed of %d loaded, fingerprint %.12s\n\n",
		report.ViewRows, report.StoreRows, report.StoreFingerprint)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"check", "score", "weight", "passed", "detail"})

	for _, c := range report.Checks {
		passed := "no"
		if c.Passed {
			passed = "yes"
		}
		t.AppendRow(table.Row{c.Name, fmt.Sprintf("%.1f", c.Score), fmt.Sprintf("%.0f", c.Weight), passed, c.Detail})
	}

	t.Render()
}
