package dataset

import "strings"

// Canonical column order of the input schema. Export writes exactly this
// order so an exported view reloads through Load unchanged.
var Columns = []string{
	"company_id",
	"company_name",
	"year",
	"region",
	"industry",
	"revenue",
	"market_cap",
	"profit_margin",
	"growth_rate",
	"esg_overall",
	"esg_environmental",
	"esg_social",
	"esg_governance",
	"carbon_emissions",
	"energy_consumption",
	"water_usage",
}

// requiredColumns must all be present in the header; company_name and
// growth_rate are optional.
var requiredColumns = []string{
	"company_id", "year", "region", "industry",
	"revenue", "market_cap", "profit_margin",
	"esg_overall", "esg_environmental", "esg_social", "esg_governance",
	"carbon_emissions", "energy_consumption", "water_usage",
}

// normalizeCol lowercases and trims a header cell for cross-format matching.
func normalizeCol(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapColumns builds a normalized column name → index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[normalizeCol(col)] = i
	}
	return m
}

// getCol gets a column value by normalized name, empty when absent.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
