package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

func obs(id string, year int, region model.Region, industry model.Industry, esg float64) model.Observation {
	return model.Observation{
		CompanyID: id, Year: year, Region: region, Industry: industry,
		Revenue: 1000, MarketCap: 5000, ProfitMargin: 10,
		ESGOverall: esg, ESGEnvironmental: esg, ESGSocial: esg, ESGGovernance: esg,
		CarbonEmissions: 800, EnergyConsumption: 1700, WaterUsage: 400,
	}
}

func testStore() *dataset.Store {
	return dataset.New([]model.Observation{
		obs("C1", 2019, model.RegionEurope, model.IndustryTechnology, 70),
		obs("C1", 2020, model.RegionEurope, model.IndustryTechnology, 72),
		obs("C2", 2020, model.RegionNorthAmerica, model.IndustryEnergy, 45),
		obs("C3", 2021, model.RegionAsiaPacific, model.IndustryFinance, 62),
		obs("C4", 2022, model.RegionEurope, model.IndustryEnergy, 38),
	})
}

func ids(v dataset.View) []string {
	var out []string
	for _, o := range v.Observations() {
		out = append(out, o.Key())
	}
	return out
}

func TestApply_NoFilters(t *testing.T) {
	v := Apply(testStore().All(), Spec{})
	assert.Equal(t, 5, v.Len())
}

func TestApply_RegionAndIndustry(t *testing.T) {
	v := Apply(testStore().All(), Spec{
		Regions:         []model.Region{model.RegionEurope},
		Industries:      []model.Industry{model.IndustryEnergy},
	})
	assert.Equal(t, []string{"C4|2022"}, ids(v))
}

func TestApply_YearBounds(t *testing.T) {
	v := Apply(testStore().All(), Spec{YearMin: 2020, YearMax: 2021})
	assert.Equal(t, []string{"C1|2020", "C2|2020", "C3|2021"}, ids(v))
}

func TestApply_MinESGScore(t *testing.T) {
	v := Apply(testStore().All(), Spec{MinESGScore: 60})
	assert.Equal(t, []string{"C1|2019", "C1|2020", "C3|2021"}, ids(v))
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	v := Apply(testStore().All(), Spec{MinESGScore: 99})
	assert.Equal(t, 0, v.Len())

	// Filtering an empty view is also fine.
	v2 := Apply(v, Spec{})
	assert.Equal(t, 0, v2.Len())
}

func TestApply_Deterministic(t *testing.T) {
	store := testStore()
	spec := Spec{Regions: []model.Region{model.RegionEurope}, MinESGScore: 40}

	a := Apply(store.All(), spec)
	b := Apply(store.All(), spec)
	assert.True(t, a.Equal(b))
}

func TestApply_IdempotentOnUnchangedSpec(t *testing.T) {
	store := testStore()
	spec := Spec{YearMin: 2020, MinESGScore: 40}

	once := Apply(store.All(), spec)
	twice := Apply(once, spec)
	assert.True(t, once.Equal(twice))
}

func TestApply_OutlierExclusion(t *testing.T) {
	// Nine well-behaved observations and one wild revenue value.
	var rows []model.Observation
	for i := 0; i < 9; i++ {
		o := obs("C"+string(rune('A'+i)), 2020, model.RegionEurope, model.IndustryTechnology, 50)
		o.Revenue = 10
		rows = append(rows, o)
	}
	wild := obs("CX", 2020, model.RegionEurope, model.IndustryTechnology, 50)
	wild.Revenue = 1000
	rows = append(rows, wild)

	store := dataset.New(rows)

	kept := Apply(store.All(), Spec{ExcludeOutliers: true})
	require.Equal(t, 9, kept.Len())
	for _, o := range kept.Observations() {
		assert.InDelta(t, 10, o.Revenue, 1e-9)
	}

	// With outliers included, nothing is dropped.
	all := Apply(store.All(), Spec{})
	assert.Equal(t, 10, all.Len())
}

func TestApply_ZeroSpecKeepsOutliers(t *testing.T) {
	// The zero spec must select everything, wild values included.
	var rows []model.Observation
	for i := 0; i < 9; i++ {
		o := obs("C"+string(rune('A'+i)), 2020, model.RegionEurope, model.IndustryTechnology, 50)
		o.Revenue = 10
		rows = append(rows, o)
	}
	wild := obs("CX", 2020, model.RegionEurope, model.IndustryTechnology, 50)
	wild.Revenue = 1000
	rows = append(rows, wild)

	v := Apply(dataset.New(rows).All(), Spec{})
	assert.Equal(t, 10, v.Len())
}

func TestApply_SmallCohortNeverOutlierFiltered(t *testing.T) {
	store := dataset.New([]model.Observation{
		obs("C1", 2020, model.RegionEurope, model.IndustryTechnology, 50),
	})
	v := Apply(store.All(), Spec{ExcludeOutliers: true})
	assert.Equal(t, 1, v.Len())
}

func TestApply_UniformCohortHasNoOutliers(t *testing.T) {
	store := dataset.New([]model.Observation{
		obs("C1", 2020, model.RegionEurope, model.IndustryTechnology, 50),
		obs("C2", 2020, model.RegionEurope, model.IndustryTechnology, 50),
		obs("C3", 2020, model.RegionEurope, model.IndustryTechnology, 50),
	})
	v := Apply(store.All(), Spec{ExcludeOutliers: true})
	assert.Equal(t, 3, v.Len())
}

func TestApply_OutlierCohortIsLocal(t *testing.T) {
	// The Energy slice contains a revenue value that is extreme globally but
	// normal within its own cohort; region filtering must keep it.
	var rows []model.Observation
	for i := 0; i < 5; i++ {
		o := obs("T"+string(rune('A'+i)), 2020, model.RegionEurope, model.IndustryTechnology, 50)
		o.Revenue = 10
		rows = append(rows, o)
	}
	for i := 0; i < 5; i++ {
		o := obs("E"+string(rune('A'+i)), 2020, model.RegionNorthAmerica, model.IndustryEnergy, 50)
		o.Revenue = 100000 + float64(i)
		rows = append(rows, o)
	}
	store := dataset.New(rows)

	v := Apply(store.All(), Spec{
		Industries:      []model.Industry{model.IndustryEnergy},
		ExcludeOutliers: true,
	})
	assert.Equal(t, 5, v.Len())
}

func TestSpecDefaults(t *testing.T) {
	s := Spec{}
	assert.InDelta(t, DefaultOutlierSigma, s.sigma(), 1e-9)
	assert.Equal(t, DefaultOutlierMetrics(), s.metrics())

	s = Spec{OutlierSigma: 2.5, OutlierMetrics: []model.Metric{model.MetricWaterUsage}}
	assert.InDelta(t, 2.5, s.sigma(), 1e-9)
	assert.Equal(t, []model.Metric{model.MetricWaterUsage}, s.metrics())
}
