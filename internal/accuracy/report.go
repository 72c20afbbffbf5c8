// Package accuracy scores a dataset against a battery of data quality
// checks and produces a graded report.
package accuracy

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CheckResult is the outcome of a single quality check.
type CheckResult struct {
	Name   string  `json:"name"`
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail"`
}

// Report is a full accuracy assessment for a dataset at a point in time.
type Report struct {
	ID               uuid.UUID     `json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	StoreFingerprint string        `json:"store_fingerprint"`
	StoreRows        int           `json:"store_rows"`
	ViewRows         int           `json:"view_rows"`
	Overall          float64       `json:"overall"`
	Grade            string        `json:"grade"`
	Readiness        string        `json:"readiness"`
	Checks           []CheckResult `json:"checks"`
}

// Check returns the named check result, or nil.
func (r *Report) Check(name string) *CheckResult {
	for i := range r.Checks {
		if r.Checks[i].Name == name {
			return &r.Checks[i]
		}
	}
	return nil
}

// grade maps an overall score to a letter grade and readiness level.
func grade(overall float64) (string, string) {
	switch {
	case overall >= 95:
		return "A+", "investment grade"
	case overall >= 90:
		return "A", "professional grade"
	case overall >= 80:
		return "B+", "business grade"
	case overall >= 70:
		return "B", "development grade"
	default:
		return "C", "prototype grade"
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
