package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-insight/internal/accuracy"
	"github.com/sells-group/esg-insight/internal/archive"
	"github.com/sells-group/esg-insight/internal/config"
	"github.com/sells-group/esg-insight/internal/export"
	"github.com/sells-group/esg-insight/internal/filter"
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Grade dataset accuracy",
	Long: `Run the accuracy validator over a filtered cohort and print a graded report.

Examples:
  # Grade the full dataset
  accuracy

  # Grade European records and archive the report
  accuracy --regions Europe --save

  # Custom check weights
  accuracy --weights weights.yaml`,
	RunE: runAccuracy,
}

func init() {
	f := accuracyCmd.Flags()
	f.String("weights", "", "YAML file overriding check weights")
	f.Bool("save", false, "archive the report")
	addFilterFlags(accuracyCmd)

	rootCmd.AddCommand(accuracyCmd)
}

func runAccuracy(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accCfg := cfg.Accuracy
	if weightsPath, _ := cmd.Flags().GetString("weights"); weightsPath != "" {
		var err error
		if accCfg, err = config.LoadAccuracy(weightsPath); err != nil {
			return err
		}
	}

	store, _, err := loadStore()
	if err != nil {
		return err
	}
	spec, err := buildFilterSpec(cmd)
	if err != nil {
		return err
	}
	view := filter.Apply(store.All(), spec)

	report, err := accuracy.Validate(store, view, accCfg)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		arch, err := archive.Open(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer arch.Close()

		if err := arch.Migrate(ctx); err != nil {
			return err
		}
		if err := arch.SaveReport(ctx, report); err != nil {
			return err
		}
		zap.L().Info("report archived", zap.String("id", report.ID.String()))
	}

	export.RenderReport(cmd.OutOrStdout(), report)
	return nil
}
