package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/esg-insight/internal/model"
)

// LoadOptions configures a load.
type LoadOptions struct {
	Delimiter rune   // default ','
	Charset   string // input charset (e.g. "latin-1"); empty = UTF-8
	// Strict rejects the whole load with a ValidationError when any row
	// violates an invariant. The default policy drops offending rows,
	// continues, and reports them in the LoadReport.
	Strict bool
}

// LoadReport summarizes what a load kept and what it dropped.
type LoadReport struct {
	RowsLoaded  int
	RowsDropped int
	Dropped     []RowError
}

// Load reads a delimited company-year file into a new immutable Store.
// It fails with a SchemaError when a required column is missing. Rows that
// violate data-model invariants (out-of-range score, negative metric,
// duplicate identity) are dropped and counted unless opts.Strict is set, in
// which case the whole load fails with a ValidationError listing them.
func Load(path string, opts LoadOptions) (*Store, *LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	store, report, err := Read(f, opts)
	if err != nil {
		return nil, nil, err
	}

	zap.L().Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows_loaded", report.RowsLoaded),
		zap.Int("rows_dropped", report.RowsDropped),
	)
	return store, report, nil
}

// Read is Load over an arbitrary reader; export round-trip tests use it
// directly.
func Read(r io.Reader, opts LoadOptions) (*Store, *LoadReport, error) {
	if opts.Charset != "" {
		enc, err := htmlindex.Get(opts.Charset)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "dataset: unsupported charset %q", opts.Charset)
		}
		r = enc.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, eris.New("dataset: empty input")
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "dataset: read header")
	}

	colIdx := mapColumns(header)
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{Missing: missing}
	}

	var (
		obs     []model.Observation
		dropped []RowError
		seen    = make(map[string]int) // key → line first seen
		line    = 1
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, eris.Wrapf(err, "dataset: read line %d", line)
		}

		o, rowErr := parseRow(record, colIdx, line)
		if rowErr == nil {
			if prev, dup := seen[o.Key()]; dup {
				rowErr = &RowError{
					Line:   line,
					Key:    o.Key(),
					Reason: "duplicate identity, first seen on line " + strconv.Itoa(prev),
				}
			}
		}
		if rowErr != nil {
			dropped = append(dropped, *rowErr)
			continue
		}

		seen[o.Key()] = line
		obs = append(obs, *o)
	}

	if len(dropped) > 0 && opts.Strict {
		return nil, nil, &ValidationError{Rows: dropped}
	}

	report := &LoadReport{
		RowsLoaded:  len(obs),
		RowsDropped: len(dropped),
		Dropped:     dropped,
	}
	return New(obs), report, nil
}

// parseRow converts one CSV record into an observation, validating it against
// the data-model invariants.
func parseRow(record []string, colIdx map[string]int, line int) (*model.Observation, *RowError) {
	fail := func(key, reason string) (*model.Observation, *RowError) {
		return nil, &RowError{Line: line, Key: key, Reason: reason}
	}

	companyID := getCol(record, colIdx, "company_id")
	yearStr := getCol(record, colIdx, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return fail("", "unparseable year "+strconv.Quote(yearStr))
	}
	key := companyID + "|" + yearStr

	region, ok := model.ParseRegion(getCol(record, colIdx, "region"))
	if !ok {
		return fail(key, "unknown region "+strconv.Quote(getCol(record, colIdx, "region")))
	}
	industry, ok := model.ParseIndustry(getCol(record, colIdx, "industry"))
	if !ok {
		return fail(key, "unknown industry "+strconv.Quote(getCol(record, colIdx, "industry")))
	}

	o := model.Observation{
		CompanyID:   companyID,
		CompanyName: getCol(record, colIdx, "company_name"),
		Year:        year,
		Region:      region,
		Industry:    industry,
	}

	numeric := []struct {
		col string
		dst *float64
	}{
		{"revenue", &o.Revenue},
		{"market_cap", &o.MarketCap},
		{"profit_margin", &o.ProfitMargin},
		{"esg_overall", &o.ESGOverall},
		{"esg_environmental", &o.ESGEnvironmental},
		{"esg_social", &o.ESGSocial},
		{"esg_governance", &o.ESGGovernance},
		{"carbon_emissions", &o.CarbonEmissions},
		{"energy_consumption", &o.EnergyConsumption},
		{"water_usage", &o.WaterUsage},
	}
	for _, n := range numeric {
		raw := getCol(record, colIdx, n.col)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail(key, "unparseable "+n.col+" "+strconv.Quote(raw))
		}
		*n.dst = v
	}

	// growth_rate is optional, and blank for a company's first reported year.
	if raw := getCol(record, colIdx, "growth_rate"); raw != "" && !strings.EqualFold(raw, "nan") {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fail(key, "unparseable growth_rate "+strconv.Quote(raw))
		}
		o.GrowthRate = &v
	}

	if err := o.Validate(); err != nil {
		return fail(key, err.Error())
	}
	return &o, nil
}
