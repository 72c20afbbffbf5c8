package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-insight/internal/model"
)

const testHeader = "company_id,company_name,year,region,industry,revenue,market_cap,profit_margin,growth_rate,esg_overall,esg_environmental,esg_social,esg_governance,carbon_emissions,energy_consumption,water_usage"

func testRow(id string, year string, fields map[string]string) string {
	row := map[string]string{
		"company_id": id, "company_name": "Co " + id, "year": year,
		"region": "Europe", "industry": "Technology",
		"revenue": "1000", "market_cap": "5000", "profit_margin": "10",
		"growth_rate": "", "esg_overall": "60", "esg_environmental": "55",
		"esg_social": "62", "esg_governance": "63",
		"carbon_emissions": "800", "energy_consumption": "1700", "water_usage": "400",
	}
	for k, v := range fields {
		row[k] = v
	}
	cols := strings.Split(testHeader, ",")
	vals := make([]string, len(cols))
	for i, c := range cols {
		vals[i] = row[c]
	}
	return strings.Join(vals, ",")
}

func TestRead_Valid(t *testing.T) {
	input := strings.Join([]string{
		testHeader,
		testRow("C001", "2020", nil),
		testRow("C001", "2021", map[string]string{"growth_rate": "3.5"}),
		testRow("C002", "2020", map[string]string{"region": "Asia Pacific", "industry": "Energy"}),
	}, "\n")

	store, report, err := Read(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, store.Size())
	assert.Equal(t, 3, report.RowsLoaded)
	assert.Equal(t, 0, report.RowsDropped)
	assert.Equal(t, 2, store.Companies())

	min, max := store.YearRange()
	assert.Equal(t, 2020, min)
	assert.Equal(t, 2021, max)

	obs := store.All().Observations()
	require.Len(t, obs, 3)
	assert.Nil(t, obs[0].GrowthRate)
	require.NotNil(t, obs[1].GrowthRate)
	assert.InDelta(t, 3.5, *obs[1].GrowthRate, 1e-9)
	assert.Equal(t, model.RegionAsiaPacific, obs[2].Region)
}

func TestRead_MissingColumns(t *testing.T) {
	input := "company_id,year,region\nC001,2020,Europe"

	_, _, err := Read(strings.NewReader(input), LoadOptions{})
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, eris.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, "industry")
	assert.Contains(t, schemaErr.Missing, "esg_overall")
	assert.NotContains(t, schemaErr.Missing, "company_id")
}

func TestRead_DropsInvalidRows(t *testing.T) {
	input := strings.Join([]string{
		testHeader,
		testRow("C001", "2020", nil),
		testRow("C002", "2020", map[string]string{"esg_overall": "150"}),
		testRow("C003", "2020", map[string]string{"revenue": "-12"}),
		testRow("C004", "2020", map[string]string{"year": "1890"}),
		testRow("C005", "2020", map[string]string{"revenue": "not-a-number"}),
	}, "\n")

	store, report, err := Read(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Size())
	assert.Equal(t, 4, report.RowsDropped)
	require.Len(t, report.Dropped, 4)
	assert.Contains(t, report.Dropped[0].Reason, "esg_overall")
	assert.Contains(t, report.Dropped[1].Reason, "negative")
}

func TestRead_Strict(t *testing.T) {
	input := strings.Join([]string{
		testHeader,
		testRow("C001", "2020", nil),
		testRow("C002", "2020", map[string]string{"esg_overall": "150"}),
	}, "\n")

	_, _, err := Read(strings.NewReader(input), LoadOptions{Strict: true})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, eris.As(err, &valErr))
	require.Len(t, valErr.Rows, 1)
	assert.Equal(t, "C002|2020", valErr.Rows[0].Key)
}

func TestRead_DuplicateIdentity(t *testing.T) {
	input := strings.Join([]string{
		testHeader,
		testRow("C001", "2020", nil),
		testRow("C001", "2020", map[string]string{"revenue": "2000"}),
	}, "\n")

	store, report, err := Read(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Size())
	require.Len(t, report.Dropped, 1)
	assert.Contains(t, report.Dropped[0].Reason, "duplicate identity")
	// The first occurrence wins.
	assert.InDelta(t, 1000, store.All().Observations()[0].Revenue, 1e-9)
}

func TestRead_NaNGrowthRate(t *testing.T) {
	input := strings.Join([]string{
		testHeader,
		testRow("C001", "2020", map[string]string{"growth_rate": "NaN"}),
	}, "\n")

	store, _, err := Read(strings.NewReader(input), LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, store.Size())
	assert.Nil(t, store.All().Observations()[0].GrowthRate)
}

func TestRead_Latin1Charset(t *testing.T) {
	// "Société" with an ISO-8859-1 encoded é (0xE9).
	name := "Soci\xe9t\xe9 G\xe9n"
	input := testHeader + "\n" + testRow("C001", "2020", map[string]string{"company_name": name})

	store, _, err := Read(strings.NewReader(input), LoadOptions{Charset: "iso-8859-1"})
	require.NoError(t, err)
	require.Equal(t, 1, store.Size())
	assert.Equal(t, "Société Gén", store.All().Observations()[0].CompanyName)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esg.csv")
	content := testHeader + "\n" + testRow("C001", "2020", nil)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, report, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Size())
	assert.Equal(t, 1, report.RowsLoaded)

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	assert.Error(t, err)
}

func TestStoreFingerprint(t *testing.T) {
	a := New([]model.Observation{obsFixture("C1", 2020, 60)})
	b := New([]model.Observation{obsFixture("C1", 2020, 60)})
	c := New([]model.Observation{obsFixture("C1", 2020, 61)})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestViewEqual(t *testing.T) {
	store := New([]model.Observation{
		obsFixture("C1", 2020, 60),
		obsFixture("C2", 2020, 70),
	})

	assert.True(t, store.All().Equal(store.All()))
	assert.False(t, store.All().Equal(NewView(nil)))
}

func obsFixture(id string, year int, esg float64) model.Observation {
	return model.Observation{
		CompanyID: id, Year: year,
		Region: model.RegionEurope, Industry: model.IndustryTechnology,
		Revenue: 1000, MarketCap: 5000, ProfitMargin: 10,
		ESGOverall: esg, ESGEnvironmental: esg - 5, ESGSocial: esg, ESGGovernance: esg + 2,
		CarbonEmissions: 800, EnergyConsumption: 1700, WaterUsage: 400,
	}
}
