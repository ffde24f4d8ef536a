package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
	"github.com/rshade/lcacost/internal/selection"
)

// errNotFound marks a path that names a missing resource.
var errNotFound = errors.New("not found") //nolint:gochecknoglobals // sentinel

// materialSummary is one row of /api/materials.
type materialSummary struct {
	Name                string             `json:"name"`
	Totals              map[string]float64 `json:"totals"`
	CostPerArea         float64            `json:"cost_per_area"`
	CapitalCost         float64            `json:"capital_cost"`
	AnnualOperatingCost float64            `json:"annual_operating_cost"`
	ServiceLifeYears    int                `json:"service_life_years"`
	Scores              *material.Scores   `json:"scores,omitempty"`
}

// materialDetail is the /api/materials/{name} payload.
type materialDetail struct {
	*material.Record

	Totals   map[string]float64 `json:"totals"`
	Units    map[string]string  `json:"units"`
	LISLevel material.Level     `json:"lis_level,omitempty"`
	RISLevel material.Level     `json:"ris_level,omitempty"`
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"materials": s.table.Len(),
	})
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	records, err := s.selected(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]materialSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, materialSummary{
			Name:                rec.Name,
			Totals:              totals(rec),
			CostPerArea:         rec.CostPerArea,
			CapitalCost:         rec.CapitalCost,
			AnnualOperatingCost: rec.AnnualOperatingCost(),
			ServiceLifeYears:    rec.ServiceLifeYears,
			Scores:              rec.Scores,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMaterial(w http.ResponseWriter, r *http.Request) {
	// chi routes on RawPath when the request carries one, leaving the param
	// escaped; otherwise it is already decoded.
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %w", engine.ErrInvalidParameter, err))
			return
		}
		name = unescaped
	}
	rec, ok := s.table.Lookup(name)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: material %q", errNotFound, name))
		return
	}

	detail := materialDetail{
		Record: rec,
		Totals: totals(rec),
		Units:  make(map[string]string, len(material.AllCategories())),
	}
	for _, c := range material.AllCategories() {
		detail.Units[string(c)] = c.Unit()
	}
	if rec.Scores != nil {
		detail.LISLevel = material.QualitativeLevel(rec.Scores.LIS, material.MaxScore)
		detail.RISLevel = material.QualitativeLevel(rec.Scores.RIS, material.MaxScore)
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := s.parseParams(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.selected(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	baseline, err := selection.ResolveBaseline(s.table, params.BaselineName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := engine.Evaluate(r.Context(), records, params, baseline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMACCurve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := s.defaults.BaselineName
	if q.Has("baseline") {
		name = q.Get("baseline")
	}
	baseline, err := selection.ResolveBaseline(s.table, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.selected(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	curve, err := engine.BuildMACCurve(r.Context(), records, baseline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := s.defaults.ImpactCategory
	if v := q.Get("category"); v != "" {
		c, err := material.ParseImpactCategory(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		category = c
	}
	records, err := s.selected(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	insights, err := engine.Summarize(records, category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// selected applies the select and q parameters to the table.
func (s *Server) selected(q url.Values) ([]*material.Record, error) {
	sel, err := selection.FromFlags(s.table, q.Get("select"), q.Get("q"))
	if err != nil {
		return nil, err
	}
	return sel.Filter(s.table), nil
}

// parseParams overlays query parameters on the server defaults.
func (s *Server) parseParams(q url.Values) (engine.DisplayParameters, error) {
	p := s.defaults

	if v := q.Get("category"); v != "" {
		c, err := material.ParseImpactCategory(v)
		if err != nil {
			return p, err
		}
		p.ImpactCategory = c
	}
	if v := q.Get("chart"); v != "" {
		m, err := engine.ParseChartMode(v)
		if err != nil {
			return p, err
		}
		p.ChartMode = m
	}
	if v := q.Get("view"); v != "" {
		m, err := engine.ParseViewMode(v)
		if err != nil {
			return p, err
		}
		p.ViewMode = m
	}
	if v := q.Get("horizon"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return p, fmt.Errorf("%w: horizon must be an integer, got %q", engine.ErrInvalidParameter, v)
		}
		p.HorizonYears = n
	}
	if v := q.Get("rate"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return p, fmt.Errorf("%w: rate must be a number, got %q", engine.ErrInvalidParameter, v)
		}
		p.DiscountRatePercent = f
	}
	if q.Has("baseline") {
		p.BaselineName = q.Get("baseline")
	}
	return p, p.Validate()
}

func totals(r *material.Record) map[string]float64 {
	out := make(map[string]float64, len(r.PhaseImpacts))
	for c, v := range r.PhaseImpacts {
		out[string(c)] = v.Sum()
	}
	return out
}

// statusFor maps engine and selection errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidParameter),
		errors.Is(err, material.ErrUnknownCategory),
		errors.Is(err, selection.ErrUnknownMaterial),
		errors.Is(err, selection.ErrUnknownBaseline):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error().Ctx(r.Context()).
			Str("component", "server").
			Str("path", r.URL.Path).
			Err(err).
			Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Status: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
