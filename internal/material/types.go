// Package material defines the building-assembly records compared by the
// lifecycle engine and the dataset loader that produces them.
//
// A Record carries per-phase impacts for every ImpactCategory plus the cost
// figures used by the TCO, MAC and payback calculations. Records are
// validated once when a Table is built and are treated as read-only after
// that point.
package material

import (
	"fmt"
	"strings"
)

// ImpactCategory is a dimension of environmental harm.
type ImpactCategory string

// Supported impact categories.
const (
	CategoryCO2e          ImpactCategory = "CO2e"
	CategoryWater         ImpactCategory = "Water"
	CategoryAcidification ImpactCategory = "Acidification"
	CategoryResource      ImpactCategory = "Resource"
	CategoryEnergy        ImpactCategory = "Energy"
)

// AllCategories returns every impact category in canonical display order.
func AllCategories() []ImpactCategory {
	return []ImpactCategory{
		CategoryCO2e,
		CategoryWater,
		CategoryAcidification,
		CategoryResource,
		CategoryEnergy,
	}
}

// ParseImpactCategory resolves a category name case-insensitively. An
// unknown name is a data integrity error.
func ParseImpactCategory(s string) (ImpactCategory, error) {
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q", ErrDataIntegrity, ErrUnknownCategory, s)
}

// Unit returns the per-area display unit for the category.
func (c ImpactCategory) Unit() string {
	switch c {
	case CategoryCO2e:
		return "kg CO₂e"
	case CategoryWater:
		return "L"
	case CategoryAcidification:
		return "kg SO₂e"
	case CategoryResource:
		return "kg Sb eq"
	case CategoryEnergy:
		return "MJ"
	default:
		return ""
	}
}

// LifecyclePhase is one of the five fixed lifecycle stages.
type LifecyclePhase int

// Lifecycle phases in their fixed series order.
const (
	PhaseProduction LifecyclePhase = iota
	PhaseTransport
	PhaseConstruction
	PhaseMaintenance
	PhaseEndOfLife
)

// PhaseCount is the number of lifecycle phases in every impact series.
const PhaseCount = 5

// AllPhases returns the lifecycle phases in series order.
func AllPhases() []LifecyclePhase {
	return []LifecyclePhase{
		PhaseProduction,
		PhaseTransport,
		PhaseConstruction,
		PhaseMaintenance,
		PhaseEndOfLife,
	}
}

// String returns the phase label used in tables and API payloads.
func (p LifecyclePhase) String() string {
	switch p {
	case PhaseProduction:
		return "Point of Origin → Production"
	case PhaseTransport:
		return "Transport"
	case PhaseConstruction:
		return "Construction"
	case PhaseMaintenance:
		return "Maintenance"
	case PhaseEndOfLife:
		return "End of Life"
	default:
		return fmt.Sprintf("LifecyclePhase(%d)", int(p))
	}
}

// ShortLabel returns a compact label for narrow table columns.
func (p LifecyclePhase) ShortLabel() string {
	switch p {
	case PhaseProduction:
		return "Production"
	case PhaseTransport:
		return "Transport"
	case PhaseConstruction:
		return "Construction"
	case PhaseMaintenance:
		return "Maintenance"
	case PhaseEndOfLife:
		return "EoL"
	default:
		return p.String()
	}
}

// PhaseValues holds one value per lifecycle phase, indexed by LifecyclePhase.
type PhaseValues [PhaseCount]float64

// Sum returns the total across all phases.
func (v PhaseValues) Sum() float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

// ScoreTier is the qualitative regenerative-impact tier shipped with a record.
type ScoreTier string

// Known score tiers, best first.
const (
	TierGold        ScoreTier = "Gold"
	TierSilver      ScoreTier = "Silver"
	TierBronze      ScoreTier = "Bronze"
	TierProblematic ScoreTier = "Problematic"
)

// Valid reports whether t is one of the known tiers.
func (t ScoreTier) Valid() bool {
	switch t {
	case TierGold, TierSilver, TierBronze, TierProblematic:
		return true
	default:
		return false
	}
}

// Scores are the optional pre-computed indicators carried by a dataset row.
// They are informational; no engine formula reads them.
type Scores struct {
	// LIS is the lifecycle impact score (0-100).
	LIS float64 `json:"lis" yaml:"lis"`
	// RIS is the regenerative impact score (0-100).
	RIS float64 `json:"ris" yaml:"ris"`
	// Tier is the RIS tier.
	Tier ScoreTier `json:"tier" yaml:"tier"`
	// CPI is the dataset's own cost-per-impact figure in $/kg CO2e.
	CPI float64 `json:"cpi" yaml:"cpi"`
}

// Record is one comparable building assembly.
type Record struct {
	// Name is the unique join key for lookups and baseline selection.
	Name string `json:"name"`

	// PhaseImpacts maps each category to its five per-phase values.
	PhaseImpacts map[ImpactCategory]PhaseValues `json:"phase_impacts"`

	// CostPerArea is the installed cost per unit area used by the CPI view.
	CostPerArea float64 `json:"cost_per_area"`

	// CapitalCost is the up-front cost per unit area.
	CapitalCost float64 `json:"capital_cost"`

	// AnnualMaintenanceCost is the yearly maintenance cost per unit area.
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`

	// AnnualEnergyCost is the yearly energy cost per unit area.
	AnnualEnergyCost float64 `json:"annual_energy_cost"`

	// SalvageValue is the recoverable value per unit area at end of horizon.
	SalvageValue float64 `json:"salvage_value"`

	// ServiceLifeYears is the expected service life. Always positive.
	ServiceLifeYears int `json:"service_life_years"`

	// Scores is nil when the dataset row carries no score block.
	Scores *Scores `json:"scores,omitempty"`
}

// Impacts returns the phase values for category c. A category missing from
// the record is a data-integrity error rather than an implicit zero series.
func (r *Record) Impacts(c ImpactCategory) (PhaseValues, error) {
	v, ok := r.PhaseImpacts[c]
	if !ok {
		return PhaseValues{}, fmt.Errorf("%w: record %q has no %s impacts: %w",
			ErrDataIntegrity, r.Name, c, ErrUnknownCategory)
	}
	return v, nil
}

// AnnualOperatingCost returns maintenance plus energy cost per year.
func (r *Record) AnnualOperatingCost() float64 {
	return r.AnnualMaintenanceCost + r.AnnualEnergyCost
}
