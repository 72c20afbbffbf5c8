package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/esg-insight/internal/archive"
	"github.com/sells-group/esg-insight/internal/export"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse archived accuracy reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE:  runReportsList,
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one archived report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsShow,
}

func init() {
	reportsListCmd.Flags().Int("limit", 20, "maximum number of reports")
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	arch, err := archive.Open(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer arch.Close()
	if err := arch.Migrate(ctx); err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	summaries, err := arch.ListReports(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "(no reports)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"id", "created", "rows", "overall", "grade"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.ID.String(),
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.ViewRows,
			fmt.Sprintf("%.1f", s.Overall),
			s.Grade,
		})
	}
	t.Render()
	return nil
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id, err := uuid.Parse(args[0])
	if err != nil {
		return eris.Errorf("invalid report id %q", args[0])
	}

	arch, err := archive.Open(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer arch.Close()
	if err := arch.Migrate(ctx); err != nil {
		return err
	}

	report, err := arch.GetReport(ctx, id)
	if err != nil {
		return err
	}

	export.RenderReport(cmd.OutOrStdout(), report)
	return nil
}
