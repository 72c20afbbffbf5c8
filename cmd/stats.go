package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/esg-insight/internal/filter"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dataset summary",
	RunE:  runStats,
}

func init() {
	addFilterFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	store, report, err := loadStore()
	if err != nil {
		return err
	}

	spec, err := buildFilterSpec(cmd)
	if err != nil {
		return err
	}
	view := filter.Apply(store.All(), spec)

	minYear, maxYear := store.YearRange()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows loaded:   %d\n", report.RowsLoaded)
	fmt.Fprintf(out, "Rows dropped:  %d\n", report.RowsDropped)
	fmt.Fprintf(out, "Companies:     %d\n", store.Companies())
	fmt.Fprintf(out, "Years:         %d-%d\n", minYear, maxYear)
	fmt.Fprintf(out, "Cohort size:   %d\n", view.Len())
	fmt.Fprintf(out, "Fingerprint:   %.12s\n", store.Fingerprint())

	for _, re := range report.Dropped {
		fmt.Fprintf(out, "  dropped: %s\n", re.String())
	}
	return nil
}
