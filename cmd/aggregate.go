package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/export"
	"github.com/sells-group/esg-insight/internal/filter"
	"github.com/sells-group/esg-insight/internal/model"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Compute grouped summary statistics",
	Long: `Compute grouped summary statistics over a filtered cohort.

Examples:
  # Mean ESG score per industry
  aggregate --group-by industry --metrics esg_overall --ops mean

  # Revenue trend with year-over-year deltas
  aggregate --group-by year --metrics revenue --ops mean,yoy_delta

  # Regional totals for European tech since 2020 as CSV
  aggregate --group-by region --metrics revenue,carbon_emissions --ops sum \
    --industries Technology --years 2020: --format csv --output agg.csv`,
	RunE: runAggregate,
}

func init() {
	f := aggregateCmd.Flags()
	f.String("group-by", "industry", "grouping field: company, year, region, or industry")
	f.String("metrics", "esg_overall", "comma-separated metrics")
	f.String("ops", "mean", "comma-separated ops: mean, sum, count, yoy_delta")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	addFilterFlags(aggregateCmd)

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, _ []string) error {
	groupByName, _ := cmd.Flags().GetString("group-by")
	groupBy, ok := model.ParseField(groupByName)
	if !ok {
		return eris.Errorf("unknown group-by field %q", groupByName)
	}

	metricNames, _ := cmd.Flags().GetString("metrics")
	metrics, err := parseMetricList(metricNames)
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		return eris.New("at least one metric is required")
	}

	opNames, _ := cmd.Flags().GetString("ops")
	var ops []analytics.Op
	for _, name := range splitList(opNames) {
		op, ok := analytics.ParseOp(name)
		if !ok {
			return eris.Errorf("unknown op %q", name)
		}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return eris.New("at least one op is required")
	}

	store, _, err := loadStore()
	if err != nil {
		return err
	}
	spec, err := buildFilterSpec(cmd)
	if err != nil {
		return err
	}

	res, err := analytics.Aggregate(filter.Apply(store.All(), spec), groupBy, metrics, ops)
	if err != nil {
		return err
	}

	out, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	format, _ := cmd.Flags().GetString("format")
	if format == "csv" {
		return export.WriteAggregateCSV(out, res)
	}
	export.RenderAggregate(out, res)
	return nil
}

// outputWriter resolves the --output flag to a writer, defaulting to the
// command's stdout.
func outputWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, func() { f.Close() }, nil
}
