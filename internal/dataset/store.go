// Package dataset loads the company-year CSV into an immutable in-memory
// store and exposes read-only views over it.
package dataset

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"

	"github.com/sells-group/esg-insight/internal/model"
)

// Store is the immutable set of observations loaded from one source file.
// A "refresh" is a new Load producing a new Store; an existing Store is never
// mutated, so any number of concurrent callers may share one.
type Store struct {
	obs         []*model.Observation
	fingerprint string
	loadedAt    time.Time
}

// New builds a store directly from observations without validating them.
// Load performs validation before calling New; tests and re-imports of
// exported views construct stores here.
func New(obs []model.Observation) *Store {
	owned := make([]*model.Observation, len(obs))
	for i := range obs {
		o := obs[i]
		owned[i] = &o
	}
	return &Store{
		obs:         owned,
		fingerprint: fingerprint(owned),
		loadedAt:    time.Now().UTC(),
	}
}

// Size returns the number of observations in the store.
func (s *Store) Size() int { return len(s.obs) }

// LoadedAt returns when the store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Fingerprint identifies the store's contents. Reports record it so a report
// can be traced to the exact snapshot it was computed against.
func (s *Store) Fingerprint() string { return s.fingerprint }

// All returns the identity view over every observation, in load order.
func (s *Store) All() View {
	return View{obs: s.obs}
}

// YearRange returns the minimum and maximum observed years, or (0, 0) for an
// empty store.
func (s *Store) YearRange() (min, max int) {
	for _, o := range s.obs {
		if min == 0 || o.Year < min {
			min = o.Year
		}
		if o.Year > max {
			max = o.Year
		}
	}
	return min, max
}

// Companies returns the number of distinct company IDs.
func (s *Store) Companies() int {
	seen := make(map[string]struct{})
	for _, o := range s.obs {
		seen[o.CompanyID] = struct{}{}
	}
	return len(seen)
}

// View is an ordered, read-only subset of a store. Views hold references to
// store-owned observations; filtering never copies record contents, and
// callers must not mutate what a view exposes.
type View struct {
	obs []*model.Observation
}

// NewView builds a view over the given references. Used by the filter engine.
func NewView(obs []*model.Observation) View { return View{obs: obs} }

// Len returns the number of observations in the view.
func (v View) Len() int { return len(v.obs) }

// Observations returns the view's records in order.
func (v View) Observations() []*model.Observation { return v.obs }

// Equal reports whether two views reference the same observations in the
// same order.
func (v View) Equal(o View) bool {
	if len(v.obs) != len(o.obs) {
		return false
	}
	for i := range v.obs {
		if v.obs[i] != o.obs[i] {
			return false
		}
	}
	return true
}

// fingerprint hashes identity and metric values of every observation in order.
func fingerprint(obs []*model.Observation) string {
	h := sha256.New()
	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, o := range obs {
		h.Write([]byte(o.Key()))
		h.Write([]byte(o.Region))
		h.Write([]byte(o.Industry))
		writeFloat(o.Revenue)
		writeFloat(o.MarketCap)
		writeFloat(o.ProfitMargin)
		if o.GrowthRate != nil {
			writeFloat(*o.GrowthRate)
		}
		writeFloat(o.ESGOverall)
		writeFloat(o.ESGEnvironmental)
		writeFloat(o.ESGSocial)
		writeFloat(o.ESGGovernance)
		writeFloat(o.CarbonEmissions)
		writeFloat(o.EnergyConsumption)
		writeFloat(o.WaterUsage)
	}
	return hex.EncodeToString(h.Sum(nil))
}
