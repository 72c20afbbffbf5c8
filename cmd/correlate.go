package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/export"
	"github.com/sells-group/esg-insight/internal/filter"
	"github.com/sells-group/esg-insight/internal/model"
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Compute Pearson correlations between metrics",
	Long: `Compute Pearson correlations between metric pairs over a filtered cohort.

Examples:
  # All pairings of three metrics
  correlate --metrics carbon_emissions,esg_environmental,revenue

  # Specific pairs only
  correlate --pairs carbon_emissions:esg_environmental,revenue:esg_overall`,
	RunE: runCorrelate,
}

func init() {
	f := correlateCmd.Flags()
	f.String("metrics", "", "comma-separated metrics; correlates every pairing")
	f.String("pairs", "", "comma-separated a:b metric pairs")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	addFilterFlags(correlateCmd)

	rootCmd.AddCommand(correlateCmd)
}

func runCorrelate(cmd *cobra.Command, _ []string) error {
	pairs, err := correlationPairs(cmd)
	if err != nil {
		return err
	}

	store, _, err := loadStore()
	if err != nil {
		return err
	}
	spec, err := buildFilterSpec(cmd)
	if err != nil {
		return err
	}

	matrix := analytics.Correlate(filter.Apply(store.All(), spec), pairs)

	out, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	format, _ := cmd.Flags().GetString("format")
	if format == "csv" {
		return export.WriteCorrelationCSV(out, matrix)
	}
	export.RenderCorrelation(out, matrix)
	return nil
}

// correlationPairs resolves the --pairs or --metrics flag into metric pairs.
func correlationPairs(cmd *cobra.Command) ([][2]model.Metric, error) {
	pairsFlag, _ := cmd.Flags().GetString("pairs")
	if pairsFlag != "" {
		var pairs [][2]model.Metric
		for _, p := range splitList(pairsFlag) {
			parts := strings.SplitN(p, ":", 2)
			if len(parts) != 2 {
				return nil, eris.Errorf("invalid pair %q, want a:b", p)
			}
			a, okA := model.ParseMetric(parts[0])
			b, okB := model.ParseMetric(parts[1])
			if !okA || !okB {
				return nil, eris.Errorf("unknown metric in pair %q", p)
			}
			pairs = append(pairs, [2]model.Metric{a, b})
		}
		return pairs, nil
	}

	metricNames, _ := cmd.Flags().GetString("metrics")
	metrics, err := parseMetricList(metricNames)
	if err != nil {
		return nil, err
	}
	if len(metrics) < 2 {
		return nil, eris.New("need --pairs or at least two --metrics")
	}

	var pairs [][2]model.Metric
	for i := 0; i < len(metrics); i++ {
		for j := i + 1; j < len(metrics); j++ {
			pairs = append(pairs, [2]model.Metric{metrics[i], metrics[j]})
		}
	}
	return pairs, nil
}
