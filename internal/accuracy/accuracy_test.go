package accuracy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-insight/internal/config"
	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

func obs(id string, year int, modify func(*model.Observation)) model.Observation {
	name := "Company " + id
	growth := 5.0
	o := model.Observation{
		CompanyID:         id,
		CompanyName:       name,
		Year:              year,
		Region:            model.RegionEurope,
		Industry:          model.IndustryTechnology,
		Revenue:           1000,
		MarketCap:         5000,
		ProfitMargin:      12,
		GrowthRate:        &growth,
		ESGOverall:        60,
		ESGEnvironmental:  58,
		ESGSocial:         62,
		ESGGovernance:     60,
		CarbonEmissions:   200,
		EnergyConsumption: 400,
		WaterUsage:        300,
	}
	if modify != nil {
		modify(&o)
	}
	return o
}

// cleanFixture builds a small dataset where footprint metrics move against
// environmental scores, matching the expected directional relationships.
func cleanFixture() *dataset.Store {
	var rows []model.Observation
	for i, id := range []string{"C1", "C2", "C3", "C4", "C5"} {
		for year := 2020; year <= 2022; year++ {
			carbon := float64(100 + 80*i)
			env := float64(75 - 8*i)
			rows = append(rows, obs(id, year, func(o *model.Observation) {
				o.CarbonEmissions = carbon
				o.EnergyConsumption = carbon * 2
				o.WaterUsage = carbon * 1.5
				o.ESGEnvironmental = env
				o.ESGOverall = env - 5
				o.Revenue = 500 + 100*float64(i)
				o.MarketCap = 2000 + 500*float64(i)
			}))
		}
	}
	return dataset.New(rows)
}

func TestValidateCleanDataset(t *testing.T) {
	store := cleanFixture()
	report, err := Validate(store, store.All(), config.DefaultAccuracy())
	require.NoError(t, err)

	assert.NotEqual(t, "", report.ID.String())
	assert.Equal(t, store.Fingerprint(), report.StoreFingerprint)
	assert.Equal(t, 15, report.StoreRows)
	assert.Equal(t, 15, report.ViewRows)
	assert.Len(t, report.Checks, 7)

	rv := report.Check(CheckRangeValidity)
	require.NotNil(t, rv)
	assert.True(t, rv.Passed)
	assert.Equal(t, 100.0, rv.Score)

	dk := report.Check(CheckDuplicateKeys)
	require.NotNil(t, dk)
	assert.True(t, dk.Passed)

	tc := report.Check(CheckTemporalCoverage)
	require.NotNil(t, tc)
	assert.Equal(t, 100.0, tc.Score)

	assert.Greater(t, report.Overall, 0.0)
	assert.LessOrEqual(t, report.Overall, 100.0)
	assert.NotEmpty(t, report.Grade)
	assert.NotEmpty(t, report.Readiness)
}

func TestValidateOutOfRangeScores(t *testing.T) {
	var rows []model.Observation
	for year := 2020; year <= 2022; year++ {
		rows = append(rows, obs("C1", year, nil))
		rows = append(rows, obs("C2", year, nil))
	}
	rows = append(rows, obs("C3", 2020, func(o *model.Observation) {
		o.ESGOverall = 150
	}))
	store := dataset.New(rows)

	report, err := Validate(store, store.All(), config.DefaultAccuracy())
	require.NoError(t, err)

	rv := report.Check(CheckRangeValidity)
	require.NotNil(t, rv)
	assert.False(t, rv.Passed)
	assert.Less(t, rv.Score, 100.0)
	assert.Less(t, report.Overall, 100.0)
}

func TestValidateDuplicateIdentities(t *testing.T) {
	rows := []model.Observation{
		obs("C1", 2020, nil),
		obs("C1", 2020, func(o *model.Observation) { o.Revenue = 999 }),
		obs("C2", 2020, nil),
	}
	// New deduplicates nothing: identity hygiene is the check's job.
	store := dataset.New(rows)

	report, err := Validate(store, store.All(), config.DefaultAccuracy())
	require.NoError(t, err)

	dk := report.Check(CheckDuplicateKeys)
	require.NotNil(t, dk)
	assert.False(t, dk.Passed)
	assert.InDelta(t, 66.7, dk.Score, 0.05)
}

func TestValidateTemporalGaps(t *testing.T) {
	// C1 reports 2018..2021 contiguously, C2 skips 2019 and 2020.
	rows := []model.Observation{
		obs("C1", 2018, nil),
		obs("C1", 2019, nil),
		obs("C1", 2020, nil),
		obs("C1", 2021, nil),
		obs("C2", 2018, nil),
		obs("C2", 2021, nil),
	}
	store := dataset.New(rows)

	cfg := config.DefaultAccuracy()
	cfg.GapTolerance = 1

	report, err := Validate(store, store.All(), cfg)
	require.NoError(t, err)

	tc := report.Check(CheckTemporalCoverage)
	require.NotNil(t, tc)
	assert.Equal(t, 50.0, tc.Score)

	// A wider tolerance forgives the two-year gap.
	cfg.GapTolerance = 2
	report, err = Validate(store, store.All(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Check(CheckTemporalCoverage).Score)
}

func TestValidateMissingOptionalFields(t *testing.T) {
	rows := []model.Observation{
		obs("C1", 2020, func(o *model.Observation) {
			o.CompanyName = ""
			o.GrowthRate = nil
		}),
		obs("C2", 2020, nil),
	}
	store := dataset.New(rows)

	report, err := Validate(store, store.All(), config.DefaultAccuracy())
	require.NoError(t, err)

	sc := report.Check(CheckSchemaCompleteness)
	require.NotNil(t, sc)
	assert.Less(t, sc.Score, 100.0)
	assert.Greater(t, sc.Score, 90.0)
}

func TestValidateEmptyView(t *testing.T) {
	store := dataset.New(nil)

	report, err := Validate(store, store.All(), config.DefaultAccuracy())
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Overall)
	assert.Equal(t, "C", report.Grade)
	for _, c := range report.Checks {
		assert.Equal(t, 0.0, c.Score, c.Name)
		assert.False(t, c.Passed, c.Name)
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	store := dataset.New(nil)
	cfg := config.DefaultAccuracy()
	cfg.RangeValidityWeight = 50

	_, err := Validate(store, store.All(), cfg)
	assert.Error(t, err)
}

func TestGradeBands(t *testing.T) {
	tests := []struct {
		overall   float64
		grade     string
		readiness string
	}{
		{97.0, "A+", "investment grade"},
		{95.0, "A+", "investment grade"},
		{92.5, "A", "professional grade"},
		{85.0, "B+", "business grade"},
		{72.0, "B", "development grade"},
		{69.9, "C", "prototype grade"},
		{0, "C", "prototype grade"},
	}

	for _, tt := range tests {
		g, r := grade(tt.overall)
		assert.Equal(t, tt.grade, g, "overall %.1f", tt.overall)
		assert.Equal(t, tt.readiness, r, "overall %.1f", tt.overall)
	}
}

func TestProximity(t *testing.T) {
	assert.Equal(t, 100.0, proximity(60, 60))
	assert.InDelta(t, 50.0, proximity(30, 60), 1e-9)
	assert.Equal(t, 0.0, proximity(125, 60))
	// Sign misses on correlation targets cost proportionally.
	assert.InDelta(t, 0.0, proximity(0.65, -0.65), 1e-9)
	assert.InDelta(t, 76.9, proximity(-0.5, -0.65), 0.05)
	assert.Equal(t, 0.0, proximity(1, 0))
}

func TestIndustryAndRegionTargets(t *testing.T) {
	assert.Equal(t, 65.0, industryTarget(model.IndustryTechnology))
	assert.Equal(t, 45.0, industryTarget(model.IndustryEnergy))
	assert.Equal(t, 55.0, industryTarget(model.IndustryRetail))

	assert.Equal(t, 60.0, regionTarget(model.RegionEurope))
	assert.Equal(t, 55.0, regionTarget(model.RegionAsiaPacific))
	assert.Equal(t, 50.0, regionTarget(model.RegionAfrica))
}
