package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lcacost/internal/material"
)

func TestSummarize_Builtin(t *testing.T) {
	in, err := Summarize(material.Builtin().Records(), material.CategoryCO2e)
	require.NoError(t, err)

	assert.Equal(t, 4, in.Count)
	assert.Equal(t, "kg CO₂e", in.Unit)
	assert.Equal(t, MaterialTotal{Name: `Hempcrete (6" infill)`, Total: 54}, in.Lowest)
	assert.Equal(t, MaterialTotal{Name: "2x6 Wall", Total: 111}, in.Hotspot)
	assert.InDelta(t, 71.5, in.Average, 1e-9)

	pct, ok := in.HotspotAbovePercent.Get()
	require.True(t, ok)
	assert.InDelta(t, (111.0-54.0)/54.0*100, pct, 1e-9)
}

func TestSummarize_Ties(t *testing.T) {
	records := []*material.Record{
		testRecord("First", material.PhaseValues{1, 1, 1, 1, 1}),
		testRecord("Second", material.PhaseValues{1, 1, 1, 1, 1}),
		testRecord("Third", material.PhaseValues{1, 1, 1, 1, 1}),
	}
	in, err := Summarize(records, material.CategoryWater)
	require.NoError(t, err)
	assert.Equal(t, "First", in.Lowest.Name)
	assert.Equal(t, "Third", in.Hotspot.Name)

	pct, ok := in.HotspotAbovePercent.Get()
	require.True(t, ok)
	assert.Zero(t, pct)
}

func TestSummarize_ZeroLowest(t *testing.T) {
	records := []*material.Record{
		testRecord("Zero", material.PhaseValues{}),
		testRecord("Some", material.PhaseValues{1, 0, 0, 0, 0}),
	}
	in, err := Summarize(records, material.CategoryEnergy)
	require.NoError(t, err)
	assert.False(t, in.HotspotAbovePercent.Defined())
	assert.Equal(t, ReasonZeroBaseline, in.HotspotAbovePercent.Reason())
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil, material.CategoryCO2e)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDisplayParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *DisplayParameters)
		wantErr bool
	}{
		{"defaults", func(*DisplayParameters) {}, false},
		{"cpi view", func(p *DisplayParameters) { p.ViewMode = ViewCostPerImpact }, false},
		{"negative rate above minus one hundred", func(p *DisplayParameters) { p.DiscountRatePercent = -20 }, false},
		{"unknown category", func(p *DisplayParameters) { p.ImpactCategory = "Noise" }, true},
		{"unknown chart mode", func(p *DisplayParameters) { p.ChartMode = "stacked" }, true},
		{"unknown view mode", func(p *DisplayParameters) { p.ViewMode = "table" }, true},
		{"negative horizon", func(p *DisplayParameters) { p.HorizonYears = -5 }, true},
		{"rate of minus one hundred", func(p *DisplayParameters) { p.DiscountRatePercent = -100 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultDisplayParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDisplayParameters_UnknownCategoryIsDataIntegrity(t *testing.T) {
	p := DefaultDisplayParameters()
	p.ImpactCategory = "Noise"

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, material.ErrDataIntegrity)
	assert.ErrorIs(t, err, material.ErrUnknownCategory)

	_, err = Evaluate(context.Background(), material.Builtin().Records(), p, nil)
	assert.ErrorIs(t, err, material.ErrDataIntegrity)
}

func TestParseViewMode_Alias(t *testing.T) {
	v, err := ParseViewMode("costPerImpact")
	require.NoError(t, err)
	assert.Equal(t, ViewCostPerImpact, v)

	c, err := ParseChartMode(" Percentage ")
	require.NoError(t, err)
	assert.Equal(t, ChartPercentage, c)
}

func TestEvaluate_ImpactView(t *testing.T) {
	table := material.Builtin()
	baseline := builtinRecord(t, "2x6 Wall")
	params := DefaultDisplayParameters()
	params.ChartMode = ChartPercentage
	params.BaselineName = baseline.Name

	report, err := Evaluate(context.Background(), table.Records(), params, baseline)
	require.NoError(t, err)

	assert.Equal(t, "kg CO₂e", report.Unit)
	require.Len(t, report.Phases, material.PhaseCount)
	require.Len(t, report.Materials, 4)

	re := report.Materials[0]
	assert.Equal(t, "Rammed Earth", re.Name)
	assert.InDelta(t, 100.0, re.SeriesTotal, 1e-6)
	assert.InDelta(t, 66.0, re.TotalImpact, 1e-9)
	assert.InDelta(t, 122.14, re.TCO, 0.01)
	assert.InDelta(t, -35.0/45.0, re.MAC.ValueOr(0), 1e-12)
	assert.InDelta(t, -17.5, re.Payback.ValueOr(0), 1e-12)
	assert.False(t, re.ShowPayback)
	require.NotNil(t, re.Scores)
	assert.Equal(t, material.TierGold, re.Scores.Tier)

	wall := report.Materials[1]
	assert.False(t, wall.MAC.Defined())
	assert.Equal(t, ReasonEqualEmissions, wall.MACReason)
	assert.Equal(t, ReasonNoSavings, wall.PaybackReason)
}

func TestEvaluate_CostPerImpactViewIgnoresChartMode(t *testing.T) {
	r := builtinRecord(t, "Rammed Earth")
	params := DefaultDisplayParameters()
	params.ViewMode = ViewCostPerImpact
	params.ChartMode = ChartPercentage

	report, err := Evaluate(context.Background(), []*material.Record{r}, params, nil)
	require.NoError(t, err)

	got := report.Materials[0]
	assert.InDelta(t, r.CostPerArea, got.SeriesTotal, 1e-9)
	assert.InDelta(t, 55.0*38/66, got.Series[0], 1e-9)
	assert.InDelta(t, 55.0/66, got.CostPerImpact.ValueOr(0), 1e-12)
	assert.Equal(t, ReasonNoBaseline, got.MACReason)
	assert.Equal(t, ReasonNoBaseline, got.PaybackReason)
}

func TestEvaluate_InvalidParameters(t *testing.T) {
	params := DefaultDisplayParameters()
	params.DiscountRatePercent = -100

	_, err := Evaluate(context.Background(), material.Builtin().Records(), params, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestReport_JSONUndefinedIsNull(t *testing.T) {
	params := DefaultDisplayParameters()
	report, err := Evaluate(context.Background(), material.Builtin().Records()[:1], params, nil)
	require.NoError(t, err)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded struct {
		Materials []map[string]any `json:"materials"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Materials, 1)
	m := decoded.Materials[0]
	assert.Nil(t, m["mac"])
	assert.Equal(t, string(ReasonNoBaseline), m["mac_reason"])
	assert.Nil(t, m["payback_years"])
	assert.NotNil(t, m["tco"])
}
