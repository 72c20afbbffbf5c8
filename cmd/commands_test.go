package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-insight/internal/config"
	"github.com/sells-group/esg-insight/internal/dataset"
)

const fixtureCSV = `company_id,company_name,year,region,industry,revenue,market_cap,profit_margin,growth_rate,esg_overall,esg_environmental,esg_social,esg_governance,carbon_emissions,energy_consumption,water_usage
C1,Alpha Energy,2020,Europe,Energy,1000,5000,8.5,3.2,45,40,48,47,500,900,700
C1,Alpha Energy,2021,Europe,Energy,1100,5600,9.1,10,46,41,49,48,480,880,690
C2,Beta Tech,2020,North America,Technology,2000,15000,18.2,,68,66,70,68,90,210,130
C2,Beta Tech,2021,North America,Technology,2300,16800,19,15,70,68,72,70,85,200,125
C3,Gamma Retail,2021,Asia Pacific,Retail,800,3000,4.4,2,55,53,57,55,150,320,240
`

// fixturePath writes the test dataset and points the loader at it.
func fixturePath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	cfg = testConfig()
	cfg.Dataset.Path = path
	dataFlag = ""
	return path
}

func TestStatsCmd(t *testing.T) {
	fixturePath(t)

	var out bytes.Buffer
	statsCmd.SetOut(&out)

	require.NoError(t, statsCmd.RunE(statsCmd, nil))

	s := out.String()
	assert.Contains(t, s, "Rows loaded:   5")
	assert.Contains(t, s, "Rows dropped:  0")
	assert.Contains(t, s, "Companies:     3")
	assert.Contains(t, s, "Years:         2020-2021")
}

func TestStatsCmdMissingFile(t *testing.T) {
	fixturePath(t)
	cfg.Dataset.Path = "/nonexistent/dataset.csv"

	err := statsCmd.RunE(statsCmd, nil)
	assert.Error(t, err)
}

func TestAggregateCmd_CSV(t *testing.T) {
	fixturePath(t)
	outPath := filepath.Join(t.TempDir(), "agg.csv")

	f := aggregateCmd.Flags()
	require.NoError(t, f.Set("group-by", "year"))
	require.NoError(t, f.Set("metrics", "revenue"))
	require.NoError(t, f.Set("ops", "mean,yoy_delta"))
	require.NoError(t, f.Set("format", "csv"))
	require.NoError(t, f.Set("output", outPath))

	require.NoError(t, aggregateCmd.RunE(aggregateCmd, nil))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year,rows,revenue_mean,revenue_yoy_delta", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2020,2,"))
}

func TestAggregateCmd_UnknownGroupBy(t *testing.T) {
	fixturePath(t)

	f := aggregateCmd.Flags()
	require.NoError(t, f.Set("group-by", "planet"))
	defer f.Set("group-by", "industry")

	err := aggregateCmd.RunE(aggregateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown group-by")
}

func TestCorrelateCmd(t *testing.T) {
	fixturePath(t)

	f := correlateCmd.Flags()
	require.NoError(t, f.Set("metrics", "carbon_emissions,esg_environmental"))
	require.NoError(t, f.Set("format", "table"))

	var out bytes.Buffer
	correlateCmd.SetOut(&out)

	require.NoError(t, correlateCmd.RunE(correlateCmd, nil))
	assert.Contains(t, out.String(), "carbon_emissions")
	assert.Contains(t, out.String(), "esg_environmental")
}

func TestExportCmd_RoundTrip(t *testing.T) {
	fixturePath(t)
	outPath := filepath.Join(t.TempDir(), "cohort.csv")

	f := exportCmd.Flags()
	require.NoError(t, f.Set("format", "csv"))
	require.NoError(t, f.Set("out", outPath))
	require.NoError(t, f.Set("regions", "Europe"))
	defer f.Set("regions", "")

	require.NoError(t, exportCmd.RunE(exportCmd, nil))

	store, report, err := dataset.Load(outPath, dataset.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.RowsDropped)
	assert.Equal(t, 2, store.Size())
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	fixturePath(t)

	f := exportCmd.Flags()
	require.NoError(t, f.Set("format", "parquet"))
	require.NoError(t, f.Set("out", filepath.Join(t.TempDir(), "x")))
	defer f.Set("format", "csv")

	err := exportCmd.RunE(exportCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestAccuracyCmd_Save(t *testing.T) {
	fixturePath(t)
	cfg.Archive = config.ArchiveConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "reports.db"),
	}

	f := accuracyCmd.Flags()
	require.NoError(t, f.Set("save", "true"))
	defer f.Set("save", "false")

	accuracyCmd.SetContext(context.Background())

	var out bytes.Buffer
	accuracyCmd.SetOut(&out)

	require.NoError(t, accuracyCmd.RunE(accuracyCmd, nil))
	assert.Contains(t, out.String(), "Accuracy:")
	assert.Contains(t, out.String(), "range_validity")

	// The archived report is listable through the reports command.
	reportsListCmd.SetContext(context.Background())
	var listOut bytes.Buffer
	reportsListCmd.SetOut(&listOut)

	require.NoError(t, reportsListCmd.RunE(reportsListCmd, nil))
	assert.NotContains(t, listOut.String(), "(no reports)")
}

func TestReportsShowCmd_BadID(t *testing.T) {
	fixturePath(t)

	reportsShowCmd.SetContext(context.Background())
	err := reportsShowCmd.RunE(reportsShowCmd, []string{"not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report id")
}

func TestRootCmdMetadata(t *testing.T) {
	assert.Equal(t, "esg-insight", rootCmd.Use)
	for _, name := range []string{"stats", "aggregate", "correlate", "accuracy", "export", "reports", "serve"} {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, name)
	}
}
