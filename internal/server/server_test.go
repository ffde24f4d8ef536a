package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
	"github.com/rshade/lcacost/internal/server"
)

func newTestServer(t *testing.T, opts ...server.Option) http.Handler {
	t.Helper()
	return server.New(material.Builtin(), opts...).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rr := get(t, newTestServer(t), "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode[map[string]any](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.InDelta(t, 4.0, body["materials"], 0)
	assert.NotEmpty(t, rr.Header().Get(server.HeaderTraceID))
}

func TestTraceIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(server.HeaderTraceID, "trace-123")
	rr := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rr, req)
	assert.Equal(t, "trace-123", rr.Header().Get(server.HeaderTraceID))
}

func TestMaterials(t *testing.T) {
	h := newTestServer(t)

	t.Run("all in table order", func(t *testing.T) {
		rr := get(t, h, "/api/materials")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[[]struct {
			Name   string             `json:"name"`
			Totals map[string]float64 `json:"totals"`
		}](t, rr)
		require.Len(t, body, 4)
		assert.Equal(t, "Rammed Earth", body[0].Name)
		assert.InDelta(t, 66.0, body[0].Totals["CO2e"], 1e-9)
	})

	t.Run("query filters case-insensitively", func(t *testing.T) {
		rr := get(t, h, "/api/materials?q=WALL")
		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[[]map[string]any](t, rr)
		require.Len(t, body, 2)
		assert.Equal(t, "2x6 Wall", body[0]["name"])
		assert.Equal(t, `Drywall 4x8 (1/2")`, body[1]["name"])
	})

	t.Run("unknown selected name", func(t *testing.T) {
		rr := get(t, h, "/api/materials?select=Adobe")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMaterialDetail(t *testing.T) {
	h := newTestServer(t)

	rr := get(t, h, "/api/materials/"+url.PathEscape(`Drywall 4x8 (1/2")`))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decode[map[string]any](t, rr)
	assert.Equal(t, `Drywall 4x8 (1/2")`, body["name"])
	assert.Contains(t, body, "phase_impacts")
	assert.Equal(t, "kg CO₂e", body["units"].(map[string]any)["CO2e"])

	rr = get(t, h, "/api/materials/Rammed%20Earth")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "High", decode[map[string]any](t, rr)["ris_level"])

	rr = get(t, h, "/api/materials/Adobe")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, float64(http.StatusNotFound), decode[map[string]any](t, rr)["status"])
}

func TestMaterialDetail_PercentInName(t *testing.T) {
	base, ok := material.Builtin().Lookup("Rammed Earth")
	require.True(t, ok)
	rec := *base
	rec.Name = "50% Fly Ash Blend"
	table, err := material.NewTable([]material.Record{rec})
	require.NoError(t, err)
	h := server.New(table).Handler()

	rr := get(t, h, "/api/materials/50%25%20Fly%20Ash%20Blend")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "50% Fly Ash Blend", decode[map[string]any](t, rr)["name"])
}

func TestReport(t *testing.T) {
	h := newTestServer(t)

	t.Run("defaults without baseline", func(t *testing.T) {
		rr := get(t, h, "/api/report")
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Unit      string `json:"unit"`
			Materials []struct {
				Name         string   `json:"name"`
				TCO          float64  `json:"tco"`
				MAC          *float64 `json:"mac"`
				MACReason    string   `json:"mac_reason"`
				Payback      *float64 `json:"payback_years"`
				ShowPayback  bool     `json:"show_payback"`
				TotalImpact  float64  `json:"total_impact"`
				CostPerImpct *float64 `json:"cost_per_impact"`
			} `json:"materials"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Materials, 4)
		assert.Equal(t, "kg CO₂e", body.Unit)

		re := body.Materials[0]
		assert.Equal(t, "Rammed Earth", re.Name)
		assert.InDelta(t, 122.1409, re.TCO, 1e-3)
		assert.Nil(t, re.MAC)
		assert.Equal(t, string(engine.ReasonNoBaseline), re.MACReason)
		assert.Nil(t, re.Payback)
		assert.False(t, re.ShowPayback)
		require.NotNil(t, re.CostPerImpct)
	})

	t.Run("with baseline and percentage chart", func(t *testing.T) {
		rr := get(t, h, "/api/report?baseline="+url.QueryEscape("2x6 Wall")+"&chart=percentage&select="+
			url.QueryEscape("Rammed Earth,2x6 Wall"))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var body struct {
			Materials []struct {
				Name        string     `json:"name"`
				Series      [5]float64 `json:"series"`
				SeriesTotal float64    `json:"series_total"`
				MAC         *float64   `json:"mac"`
				MACReason   string     `json:"mac_reason"`
			} `json:"materials"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Materials, 2)

		assert.InDelta(t, 100.0, body.Materials[0].SeriesTotal, 1e-9)
		require.NotNil(t, body.Materials[0].MAC)
		assert.InDelta(t, -35.0/45.0, *body.Materials[0].MAC, 1e-12)

		assert.Nil(t, body.Materials[1].MAC)
		assert.Equal(t, string(engine.ReasonEqualEmissions), body.Materials[1].MACReason)
	})

	tests := []struct {
		name  string
		query string
	}{
		{"unknown category", "category=noise"},
		{"unknown chart mode", "chart=pie"},
		{"unknown view", "view=bars"},
		{"non-numeric horizon", "horizon=ten"},
		{"negative horizon", "horizon=-1"},
		{"rate of minus one hundred", "rate=-100"},
		{"non-numeric rate", "rate=lots"},
		{"unknown baseline", "baseline=Adobe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, h, "/api/report?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[map[string]any](t, rr)["error"])
		})
	}
}

func TestReport_ServerDefaults(t *testing.T) {
	defaults := engine.DefaultDisplayParameters()
	defaults.ViewMode = engine.ViewCostPerImpact
	defaults.BaselineName = "2x6 Wall"
	h := newTestServer(t, server.WithDefaults(defaults))

	rr := get(t, h, "/api/report?select="+url.QueryEscape("Rammed Earth"))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Parameters engine.DisplayParameters `json:"parameters"`
		Materials  []struct {
			SeriesTotal float64  `json:"series_total"`
			Payback     *float64 `json:"payback_years"`
		} `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, engine.ViewCostPerImpact, body.Parameters.ViewMode)
	require.Len(t, body.Materials, 1)
	assert.InDelta(t, 55.0, body.Materials[0].SeriesTotal, 1e-9)
	require.NotNil(t, body.Materials[0].Payback)
}

func TestMACCurve(t *testing.T) {
	h := newTestServer(t)

	rr := get(t, h, "/api/mac-curve?baseline="+url.QueryEscape("2x6 Wall"))
	require.Equal(t, http.StatusOK, rr.Code)

	var curve struct {
		Baseline string `json:"baseline"`
		Ranked   []struct {
			Name string   `json:"name"`
			MAC  *float64 `json:"mac"`
		} `json:"ranked"`
		Undefined []struct {
			Name   string `json:"name"`
			Reason string `json:"reason"`
		} `json:"undefined"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &curve))
	assert.Equal(t, "2x6 Wall", curve.Baseline)

	names := make([]string, 0, len(curve.Ranked))
	for _, e := range curve.Ranked {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{`Drywall 4x8 (1/2")`, "Rammed Earth", `Hempcrete (6" infill)`}, names)
	require.Len(t, curve.Undefined, 1)
	assert.Equal(t, string(engine.ReasonEqualEmissions), curve.Undefined[0].Reason)

	rr = get(t, h, "/api/mac-curve")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ranked":[]`)

	rr = get(t, h, "/api/mac-curve?baseline=Adobe")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInsights(t *testing.T) {
	h := newTestServer(t)

	rr := get(t, h, "/api/insights")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Lowest struct {
			Name  string  `json:"name"`
			Total float64 `json:"total"`
		} `json:"lowest"`
		Hotspot struct {
			Name string `json:"name"`
		} `json:"hotspot"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, `Hempcrete (6" infill)`, body.Lowest.Name)
	assert.InDelta(t, 54.0, body.Lowest.Total, 1e-9)
	assert.Equal(t, "2x6 Wall", body.Hotspot.Name)
	assert.Equal(t, 4, body.Count)

	rr = get(t, h, "/api/insights?q=nothing-matches")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = get(t, h, "/api/insights?category=noise")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Config{Level: "info", Format: logging.FormatJSON}, &buf)
	h := newTestServer(t, server.WithLogger(logger))

	req := httptest.NewRequest(http.MethodGet, "/api/materials/Adobe", nil)
	req.Header.Set(server.HeaderTraceID, "trace-abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/api/materials/{name}", entry["path"])
	assert.InDelta(t, 404.0, entry["status"], 0)
	assert.Equal(t, "trace-abc", entry["trace_id"])
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.New(material.Builtin()).Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
