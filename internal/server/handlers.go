package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/esg-insight/internal/accuracy"
	"github.com/sells-group/esg-insight/internal/analytics"
	"github.com/sells-group/esg-insight/internal/archive"
	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/filter"
	"github.com/sells-group/esg-insight/internal/model"
)

// FilterRequest is the wire form of a filter spec.
type FilterRequest struct {
	YearMin         int      `json:"year_min,omitempty"`
	YearMax         int      `json:"year_max,omitempty"`
	Regions         []string `json:"regions,omitempty"`
	Industries      []string `json:"industries,omitempty"`
	MinESGScore     float64  `json:"min_esg_score,omitempty"`
	ExcludeOutliers bool     `json:"exclude_outliers,omitempty"`
	OutlierSigma    float64  `json:"outlier_sigma,omitempty"`
	OutlierMetrics  []string `json:"outlier_metrics,omitempty"`
}

// Spec converts the request to a filter spec, rejecting unknown names.
func (f FilterRequest) Spec() (filter.Spec, error) {
	spec := filter.Spec{
		YearMin:         f.YearMin,
		YearMax:         f.YearMax,
		MinESGScore:     f.MinESGScore,
		ExcludeOutliers: f.ExcludeOutliers,
		OutlierSigma:    f.OutlierSigma,
	}
	for _, s := range f.Regions {
		r, ok := model.ParseRegion(s)
		if !ok {
			return spec, &badRequestError{"unknown region: " + s}
		}
		spec.Regions = append(spec.Regions, r)
	}
	for _, s := range f.Industries {
		ind, ok := model.ParseIndustry(s)
		if !ok {
			return spec, &badRequestError{"unknown industry: " + s}
		}
		spec.Industries = append(spec.Industries, ind)
	}
	for _, s := range f.OutlierMetrics {
		m, ok := model.ParseMetric(s)
		if !ok {
			return spec, &badRequestError{"unknown metric: " + s}
		}
		spec.OutlierMetrics = append(spec.OutlierMetrics, m)
	}
	return spec, nil
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func (s *Server) view(f FilterRequest) (dataset.View, error) {
	spec, err := f.Spec()
	if err != nil {
		return dataset.View{}, err
	}
	return filter.Apply(s.store.All(), spec), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"rows":        s.store.Size(),
		"fingerprint": s.store.Fingerprint(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	minYear, maxYear := s.store.YearRange()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":        s.store.Size(),
		"companies":   s.store.Companies(),
		"year_min":    minYear,
		"year_max":    maxYear,
		"loaded_at":   s.store.LoadedAt(),
		"fingerprint": s.store.Fingerprint(),
	})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter  FilterRequest `json:"filter"`
		GroupBy string        `json:"group_by"`
		Metrics []string      `json:"metrics"`
		Ops     []string      `json:"ops"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	groupBy, ok := model.ParseField(req.GroupBy)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown group_by field: "+req.GroupBy)
		return
	}
	metrics := make([]model.Metric, 0, len(req.Metrics))
	for _, name := range req.Metrics {
		m, ok := model.ParseMetric(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown metric: "+name)
			return
		}
		metrics = append(metrics, m)
	}
	ops := make([]analytics.Op, 0, len(req.Ops))
	for _, name := range req.Ops {
		op, ok := analytics.ParseOp(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown op: "+name)
			return
		}
		ops = append(ops, op)
	}

	view, err := s.view(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := analytics.Aggregate(view, groupBy, metrics, ops)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// correlationCell is the wire form of one matrix cell.
type correlationCell struct {
	MetricA   string   `json:"metric_a"`
	MetricB   string   `json:"metric_b"`
	R         *float64 `json:"r,omitempty"`
	N         int      `json:"n"`
	Undefined bool     `json:"undefined,omitempty"`
}

func (s *Server) handleCorrelate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter FilterRequest `json:"filter"`
		Pairs  [][2]string   `json:"pairs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Pairs) == 0 {
		writeError(w, http.StatusBadRequest, "pairs is required")
		return
	}

	pairs := make([][2]model.Metric, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		a, okA := model.ParseMetric(p[0])
		b, okB := model.ParseMetric(p[1])
		if !okA || !okB {
			writeError(w, http.StatusBadRequest, "unknown metric pair: "+p[0]+"/"+p[1])
			return
		}
		pairs = append(pairs, [2]model.Metric{a, b})
	}

	view, err := s.view(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	matrix := analytics.Correlate(view, pairs)
	cells := make([]correlationCell, 0, len(matrix.Pairs))
	for _, key := range matrix.Pairs {
		c := matrix.Cells[key]
		cell := correlationCell{
			MetricA:   string(key.A),
			MetricB:   string(key.B),
			N:         c.N,
			Undefined: c.Undefined,
		}
		if !c.Undefined {
			r := c.R
			cell.R = &r
		}
		cells = append(cells, cell)
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": view.Len(), "cells": cells})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter FilterRequest `json:"filter"`
		Save   bool          `json:"save,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.view(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := accuracy.Validate(s.store, view, s.accCfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Save {
		if s.reports == nil {
			writeError(w, http.StatusServiceUnavailable, "report archive not configured")
			return
		}
		if err := s.reports.SaveReport(r.Context(), report); err != nil {
			zap.L().Error("save report failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "save report failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}

	limit := 50
	summaries, err := s.reports.ListReports(r.Context(), limit)
	if err != nil {
		zap.L().Error("list reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list reports failed")
		return
	}
	if summaries == nil {
		summaries = []archive.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report archive not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	report, err := s.reports.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		zap.L().Error("get report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get report failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
