package material_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lcacost/internal/material"
)

func validRecord(name string) material.Record {
	impacts := make(map[material.ImpactCategory]material.PhaseValues)
	for _, c := range material.AllCategories() {
		impacts[c] = material.PhaseValues{1, 2, 3, 4, 5}
	}
	return material.Record{
		Name:                  name,
		PhaseImpacts:          impacts,
		CostPerArea:           50,
		CapitalCost:           80,
		AnnualMaintenanceCost: 1,
		AnnualEnergyCost:      1,
		SalvageValue:          2,
		ServiceLifeYears:      30,
	}
}

func TestBuiltin(t *testing.T) {
	table := material.Builtin()
	require.Equal(t, 4, table.Len())
	assert.Equal(t, []string{
		"Rammed Earth", "2x6 Wall", `Hempcrete (6" infill)`, `Drywall 4x8 (1/2")`,
	}, table.Names())

	r, ok := table.Lookup("Rammed Earth")
	require.True(t, ok)
	assert.InDelta(t, 85.0, r.CapitalCost, 1e-9)
	assert.Equal(t, 50, r.ServiceLifeYears)
	assert.Equal(t, material.PhaseValues{38, 6, 14, 3, 5}, r.PhaseImpacts[material.CategoryCO2e])
	require.NotNil(t, r.Scores)
	assert.Equal(t, material.TierGold, r.Scores.Tier)
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *material.Record)
	}{
		{"empty name", func(r *material.Record) { r.Name = " " }},
		{"negative phase value", func(r *material.Record) {
			r.PhaseImpacts[material.CategoryWater] = material.PhaseValues{1, -1, 0, 0, 0}
		}},
		{"missing category", func(r *material.Record) { delete(r.PhaseImpacts, material.CategoryEnergy) }},
		{"unknown category", func(r *material.Record) { r.PhaseImpacts["Noise"] = material.PhaseValues{} }},
		{"zero service life", func(r *material.Record) { r.ServiceLifeYears = 0 }},
		{"negative capital", func(r *material.Record) { r.CapitalCost = -1 }},
		{"negative salvage", func(r *material.Record) { r.SalvageValue = -0.5 }},
		{"score out of range", func(r *material.Record) { r.Scores = &material.Scores{LIS: 101} }},
		{"unknown tier", func(r *material.Record) { r.Scores = &material.Scores{Tier: "Platinum"} }},
		{"category total overflows", func(r *material.Record) {
			r.PhaseImpacts[material.CategoryCO2e] = material.PhaseValues{1e308, 1e308, 1e308, 1e308, 1e308}
		}},
		{"NaN lis", func(r *material.Record) { r.Scores = &material.Scores{LIS: math.NaN()} }},
		{"NaN ris", func(r *material.Record) { r.Scores = &material.Scores{RIS: math.NaN()} }},
		{"NaN cpi", func(r *material.Record) { r.Scores = &material.Scores{CPI: math.NaN()} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord("A")
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, material.ErrDataIntegrity)
		})
	}

	t.Run("valid record", func(t *testing.T) {
		r := validRecord("A")
		assert.NoError(t, r.Validate())
	})
}

func TestNewTable_DuplicateName(t *testing.T) {
	_, err := material.NewTable([]material.Record{validRecord("A"), validRecord("A")})
	require.Error(t, err)
	assert.ErrorIs(t, err, material.ErrDataIntegrity)
	assert.ErrorIs(t, err, material.ErrDuplicateName)
}

func TestNewTable_CopiesImpacts(t *testing.T) {
	r := validRecord("A")
	table, err := material.NewTable([]material.Record{r})
	require.NoError(t, err)

	r.PhaseImpacts[material.CategoryCO2e] = material.PhaseValues{9, 9, 9, 9, 9}

	got, ok := table.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, material.PhaseValues{1, 2, 3, 4, 5}, got.PhaseImpacts[material.CategoryCO2e])
}

func TestRecordImpacts_MissingCategory(t *testing.T) {
	r := validRecord("A")
	delete(r.PhaseImpacts, material.CategoryWater)
	_, err := r.Impacts(material.CategoryWater)
	assert.ErrorIs(t, err, material.ErrDataIntegrity)
	assert.ErrorIs(t, err, material.ErrUnknownCategory)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "wrong phase count",
			wantErr: material.ErrDataIntegrity,
			data: `
schema_version: "1.0.0"
materials:
  - name: A
    service_life_years: 10
    impacts:
      CO2e: [1, 2, 3, 4]
`,
		},
		{
			name:    "unknown category",
			wantErr: material.ErrUnknownCategory,
			data: `
schema_version: "1.0.0"
materials:
  - name: A
    service_life_years: 10
    impacts:
      Noise: [1, 2, 3, 4, 5]
`,
		},
		{
			name:    "missing schema version",
			wantErr: material.ErrUnsupportedSchema,
			data:    "materials: []\n",
		},
		{
			name:    "future major schema version",
			wantErr: material.ErrUnsupportedSchema,
			data:    "schema_version: \"2.0.0\"\nmaterials: []\n",
		},
		{
			name:    "malformed yaml",
			wantErr: material.ErrDataIntegrity,
			data:    "schema_version: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := material.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	data := `{
  "schema_version": "1.2.0",
  "materials": [{
    "name": "Panel",
    "cost_per_area": 10, "capital_cost": 20,
    "annual_maintenance_cost": 1, "annual_energy_cost": 1,
    "salvage_value": 0, "service_life_years": 15,
    "impacts": {
      "CO2e": [1, 1, 1, 1, 1], "Water": [1, 1, 1, 1, 1],
      "Acidification": [0, 0, 0, 0, 0], "Resource": [1, 1, 1, 1, 1],
      "Energy": [2, 2, 2, 2, 2]
    }
  }]
}`
	table, err := material.Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Panel"}, table.Names())
}

func TestParse_CO2eUnit(t *testing.T) {
	dataset := func(unit string, co2e string) string {
		return `schema_version: "1.0.0"
co2e_unit: "` + unit + `"
materials:
  - name: Panel
    cost_per_area: 10
    capital_cost: 20
    annual_maintenance_cost: 1
    annual_energy_cost: 1
    salvage_value: 0
    service_life_years: 15
    impacts:
      CO2e: ` + co2e + `
      Water: [1, 1, 1, 1, 1]
      Acidification: [0, 0, 0, 0, 0]
      Resource: [1, 1, 1, 1, 1]
      Energy: [2, 2, 2, 2, 2]
`
	}

	tests := []struct {
		name    string
		unit    string
		co2e    string
		want    material.PhaseValues
		wantErr bool
	}{
		{name: "tonnes", unit: "t", co2e: "[1, 0.5, 0, 0, 2]", want: material.PhaseValues{1000, 500, 0, 0, 2000}},
		{name: "grams with suffix", unit: "g CO2e", co2e: "[1000, 0, 0, 0, 500]", want: material.PhaseValues{1, 0, 0, 0, 0.5}},
		{name: "kg is unchanged", unit: "kg", co2e: "[1, 2, 3, 4, 5]", want: material.PhaseValues{1, 2, 3, 4, 5}},
		{name: "unknown unit", unit: "MJ", co2e: "[1, 1, 1, 1, 1]", wantErr: true},
		{name: "negative value", unit: "t", co2e: "[1, -1, 0, 0, 0]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := material.Parse([]byte(dataset(tt.unit, tt.co2e)))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, material.ErrDataIntegrity)
				return
			}
			require.NoError(t, err)
			r, ok := table.Lookup("Panel")
			require.True(t, ok)
			got := r.PhaseImpacts[material.CategoryCO2e]
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
			assert.Equal(t, material.PhaseValues{1, 1, 1, 1, 1}, r.PhaseImpacts[material.CategoryWater])
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	original := material.Builtin()
	data, err := material.Marshal(original)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))

	loaded, err := material.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Names(), loaded.Names())
	for _, r := range original.Records() {
		got, ok := loaded.Lookup(r.Name)
		require.True(t, ok)
		assert.Equal(t, r.PhaseImpacts, got.PhaseImpacts)
		assert.InDelta(t, r.SalvageValue, got.SalvageValue, 1e-9)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := material.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseImpactCategory(t *testing.T) {
	c, err := material.ParseImpactCategory("co2e")
	require.NoError(t, err)
	assert.Equal(t, material.CategoryCO2e, c)

	_, err = material.ParseImpactCategory("noise")
	assert.ErrorIs(t, err, material.ErrUnknownCategory)
}

func TestQualitativeLevel(t *testing.T) {
	tests := []struct {
		value, maxValue float64
		want            material.Level
	}{
		{85, 100, material.LevelHigh},
		{70, 100, material.LevelHigh},
		{69.9, 100, material.LevelMedium},
		{40, 100, material.LevelMedium},
		{39, 100, material.LevelLow},
		{5, 0, material.LevelLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, material.QualitativeLevel(tt.value, tt.maxValue))
	}
}

func TestPhaseLabels(t *testing.T) {
	require.Len(t, material.AllPhases(), material.PhaseCount)
	assert.Equal(t, "Point of Origin → Production", material.PhaseProduction.String())
	assert.Equal(t, "End of Life", material.PhaseEndOfLife.String())
	assert.Equal(t, "kg CO₂e", material.CategoryCO2e.Unit())
	assert.Equal(t, "MJ", material.CategoryEnergy.Unit())
}
