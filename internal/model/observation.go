// Package model defines the company-year observation record and the fixed
// vocabularies (regions, industries, metrics) the engine operates on.
package model

import (
	"fmt"
	"strings"
)

// Region is one of the fixed geographic regions in the dataset.
type Region string

const (
	RegionNorthAmerica Region = "North America"
	RegionEurope       Region = "Europe"
	RegionAsiaPacific  Region = "Asia Pacific"
	RegionLatinAmerica Region = "Latin America"
	RegionMiddleEast   Region = "Middle East"
	RegionAfrica       Region = "Africa"
	RegionOceania      Region = "Oceania"
)

// Regions returns all recognized regions in a stable order.
func Regions() []Region {
	return []Region{
		RegionNorthAmerica, RegionEurope, RegionAsiaPacific,
		RegionLatinAmerica, RegionMiddleEast, RegionAfrica, RegionOceania,
	}
}

// ParseRegion matches a region name case-insensitively.
func ParseRegion(s string) (Region, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Regions() {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// Industry is one of the fixed industry sectors in the dataset.
type Industry string

const (
	IndustryTechnology     Industry = "Technology"
	IndustryHealthcare     Industry = "Healthcare"
	IndustryFinance        Industry = "Finance"
	IndustryEnergy         Industry = "Energy"
	IndustryMaterials      Industry = "Materials"
	IndustryManufacturing  Industry = "Manufacturing"
	IndustryConsumerGoods  Industry = "Consumer Goods"
	IndustryTransportation Industry = "Transportation"
	IndustryUtilities      Industry = "Utilities"
	IndustryRetail         Industry = "Retail"
)

// Industries returns all recognized industries in a stable order.
func Industries() []Industry {
	return []Industry{
		IndustryTechnology, IndustryHealthcare, IndustryFinance,
		IndustryEnergy, IndustryMaterials, IndustryManufacturing,
		IndustryConsumerGoods, IndustryTransportation, IndustryUtilities,
		IndustryRetail,
	}
}

// ParseIndustry matches an industry name case-insensitively.
func ParseIndustry(s string) (Industry, bool) {
	s = strings.TrimSpace(s)
	for _, ind := range Industries() {
		if strings.EqualFold(s, string(ind)) {
			return ind, true
		}
	}
	return "", false
}

// Supported reporting year range for the dataset.
const (
	MinYear = 2015
	MaxYear = 2025
)

// Observation is a single company-year ESG/financial record. Identity is
// (CompanyID, Year). Once loaded into a store, observations are read-only.
type Observation struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
	Year        int    `json:"year"`

	Region   Region   `json:"region"`
	Industry Industry `json:"industry"`

	Revenue      float64  `json:"revenue"`
	MarketCap    float64  `json:"market_cap"`
	ProfitMargin float64  `json:"profit_margin"`
	GrowthRate   *float64 `json:"growth_rate,omitempty"` // absent for a company's first reported year

	ESGOverall       float64 `json:"esg_overall"`
	ESGEnvironmental float64 `json:"esg_environmental"`
	ESGSocial        float64 `json:"esg_social"`
	ESGGovernance    float64 `json:"esg_governance"`

	CarbonEmissions   float64 `json:"carbon_emissions"`
	EnergyConsumption float64 `json:"energy_consumption"`
	WaterUsage        float64 `json:"water_usage"`
}

// Key returns the unique identity of the observation.
func (o *Observation) Key() string {
	return fmt.Sprintf("%s|%d", o.CompanyID, o.Year)
}

// CarbonEfficiency is revenue generated per unit of carbon emitted. The small
// epsilon keeps zero-emission records finite.
func (o *Observation) CarbonEfficiency() float64 {
	return o.Revenue / (o.CarbonEmissions + 1e-6)
}

// Validate checks the observation against the data-model invariants: scores in
// [0,100], resource and size metrics non-negative, year within the supported
// range, region and industry drawn from the fixed sets. ProfitMargin and
// GrowthRate are exempt from the non-negative rule; both are legitimately
// negative for loss-making or shrinking companies.
func (o *Observation) Validate() error {
	var problems []string

	if strings.TrimSpace(o.CompanyID) == "" {
		problems = append(problems, "company_id is empty")
	}
	if o.Year < MinYear || o.Year > MaxYear {
		problems = append(problems, fmt.Sprintf("year %d outside supported range %d-%d", o.Year, MinYear, MaxYear))
	}
	if _, ok := ParseRegion(string(o.Region)); !ok {
		problems = append(problems, fmt.Sprintf("unknown region %q", o.Region))
	}
	if _, ok := ParseIndustry(string(o.Industry)); !ok {
		problems = append(problems, fmt.Sprintf("unknown industry %q", o.Industry))
	}

	// Checked in a fixed order so the joined message is stable across runs.
	scores := []struct {
		name string
		v    float64
	}{
		{"esg_overall", o.ESGOverall},
		{"esg_environmental", o.ESGEnvironmental},
		{"esg_social", o.ESGSocial},
		{"esg_governance", o.ESGGovernance},
	}
	for _, s := range scores {
		if s.v < 0 || s.v > 100 {
			problems = append(problems, fmt.Sprintf("%s %.2f outside [0,100]", s.name, s.v))
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"revenue", o.Revenue},
		{"market_cap", o.MarketCap},
		{"carbon_emissions", o.CarbonEmissions},
		{"energy_consumption", o.EnergyConsumption},
		{"water_usage", o.WaterUsage},
	}
	for _, n := range nonNegative {
		if n.v < 0 {
			problems = append(problems, fmt.Sprintf("%s %.2f is negative", n.name, n.v))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
