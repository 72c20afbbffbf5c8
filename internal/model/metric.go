package model

import (
	"strconv"
	"strings"
)

// Metric names a numeric column of the dataset. Metric values are what the
// aggregation and correlation engines operate on.
type Metric string

const (
	MetricRevenue           Metric = "revenue"
	MetricMarketCap         Metric = "market_cap"
	MetricProfitMargin      Metric = "profit_margin"
	MetricGrowthRate        Metric = "growth_rate"
	MetricESGOverall        Metric = "esg_overall"
	MetricESGEnvironmental  Metric = "esg_environmental"
	MetricESGSocial         Metric = "esg_social"
	MetricESGGovernance     Metric = "esg_governance"
	MetricCarbonEmissions   Metric = "carbon_emissions"
	MetricEnergyConsumption Metric = "energy_consumption"
	MetricWaterUsage        Metric = "water_usage"

	// MetricCarbonEfficiency is derived (revenue per unit carbon), not a
	// stored column.
	MetricCarbonEfficiency Metric = "carbon_efficiency"
)

// Metrics returns every metric in a stable order.
func Metrics() []Metric {
	return []Metric{
		MetricRevenue, MetricMarketCap, MetricProfitMargin, MetricGrowthRate,
		MetricESGOverall, MetricESGEnvironmental, MetricESGSocial,
		MetricESGGovernance, MetricCarbonEmissions, MetricEnergyConsumption,
		MetricWaterUsage, MetricCarbonEfficiency,
	}
}

// ParseMetric matches a metric name case-insensitively.
func ParseMetric(s string) (Metric, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Metrics() {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

// Value returns the observation's value for the metric. ok is false when the
// value is missing (growth_rate has no value in a company's first year).
func (o *Observation) Value(m Metric) (float64, bool) {
	switch m {
	case MetricRevenue:
		return o.Revenue, true
	case MetricMarketCap:
		return o.MarketCap, true
	case MetricProfitMargin:
		return o.ProfitMargin, true
	case MetricGrowthRate:
		if o.GrowthRate == nil {
			return 0, false
		}
		return *o.GrowthRate, true
	case MetricESGOverall:
		return o.ESGOverall, true
	case MetricESGEnvironmental:
		return o.ESGEnvironmental, true
	case MetricESGSocial:
		return o.ESGSocial, true
	case MetricESGGovernance:
		return o.ESGGovernance, true
	case MetricCarbonEmissions:
		return o.CarbonEmissions, true
	case MetricEnergyConsumption:
		return o.EnergyConsumption, true
	case MetricWaterUsage:
		return o.WaterUsage, true
	case MetricCarbonEfficiency:
		return o.CarbonEfficiency(), true
	default:
		return 0, false
	}
}

// Field is a dimension observations can be grouped by.
type Field string

const (
	FieldCompany  Field = "company"
	FieldYear     Field = "year"
	FieldRegion   Field = "region"
	FieldIndustry Field = "industry"
)

// ParseField matches a group-by field name case-insensitively.
func ParseField(s string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "company":
		return FieldCompany, true
	case "year":
		return FieldYear, true
	case "region":
		return FieldRegion, true
	case "industry":
		return FieldIndustry, true
	default:
		return "", false
	}
}

// GroupKey returns the observation's value for a group-by field, formatted as
// a string key.
func (o *Observation) GroupKey(f Field) string {
	switch f {
	case FieldCompany:
		return o.CompanyID
	case FieldYear:
		return strconv.Itoa(o.Year)
	case FieldRegion:
		return string(o.Region)
	case FieldIndustry:
		return string(o.Industry)
	default:
		return ""
	}
}
