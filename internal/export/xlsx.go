package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/dataset"
)

// BuildXLSX builds a workbook with the view on an Observations sheet. When
// aggregate or correlation results are provided, each gets its own sheet.
func BuildXLSX(v dataset.View, agg *analytics.AggregateResult, corr *analytics.CorrelationMatrix) (*xlsx.File, error) {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Observations")
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}
	writeStringRow(sheet, dataset.Columns)
	for _, o := range v.Observations() {
		row := sheet.AddRow()
		row.AddCell().Value = o.CompanyID
		row.AddCell().Value = o.CompanyName
		row.AddCell().SetInt(o.Year)
		row.AddCell().Value = string(o.Region)
		row.AddCell().Value = string(o.Industry)
		row.AddCell().SetFloat(o.Revenue)
		row.AddCell().SetFloat(o.MarketCap)
		row.AddCell().SetFloat(o.ProfitMargin)
		if o.GrowthRate != nil {
			row.AddCell().SetFloat(*o.GrowthRate)
		} else {
			row.AddCell()
		}
		row.AddCell().SetFloat(o.ESGOverall)
		row.AddCell().SetFloat(o.ESGEnvironmental)
		row.AddCell().SetFloat(o.ESGSocial)
		row.AddCell().SetFloat(o.ESGGovernance)
		row.AddCell().SetFloat(o.CarbonEmissions)
		row.AddCell().SetFloat(o.EnergyConsumption)
		row.AddCell().SetFloat(o.WaterUsage)
	}

	if agg != nil {
		if err := addAggregateSheet(f, agg); err != nil {
			return nil, err
		}
	}
	if corr != nil {
		if err := addCorrelationSheet(f, corr); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// SaveViewXLSX writes the view as a workbook at path.
func SaveViewXLSX(path string, v dataset.View) error {
	f, err := BuildXLSX(v, nil, nil)
	if err != nil {
		return err
	}
	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addAggregateSheet(f *xlsx.File, res *analytics.AggregateResult) error {
	sheet, err := f.AddSheet("Aggregate")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := []string{string(res.GroupBy), "rows"}
	for _, m := range res.Metrics {
		for _, op := range res.Ops {
			header = append(header, string(m)+"_"+string(op))
		}
	}
	writeStringRow(sheet, header)

	for _, key := range res.Keys {
		g := res.Groups[key]
		row := sheet.AddRow()
		row.AddCell().Value = key
		row.AddCell().SetInt(g.Rows)
		for _, m := range res.Metrics {
			for _, op := range res.Ops {
				row.AddCell().Value = formatStat(g.Metrics[m], op)
			}
		}
	}
	return nil
}

func addCorrelationSheet(f *xlsx.File, matrix *analytics.CorrelationMatrix) error {
	sheet, err := f.AddSheet("Correlation")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	writeStringRow(sheet, []string{"metric_a", "metric_b", "r", "n", "undefined"})
	for _, pair := range matrix.Pairs {
		c := matrix.Cells[pair]
		row := sheet.AddRow()
		row.AddCell().Value = string(pair.A)
		row.AddCell().Value = string(pair.B)
		if c.Undefined {
			row.AddCell()
		} else {
			row.AddCell().SetFloat(c.R)
		}
		row.AddCell().SetInt(c.N)
		row.AddCell().SetBool(c.Undefined)
	}
	return nil
}

func writeStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}
