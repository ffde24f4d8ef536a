package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/rshade/lcacost/internal/material"
)

// ChartMode selects absolute values or percentage shares for impact series.
type ChartMode string

// Chart modes.
const (
	ChartAbsolute   ChartMode = "absolute"
	ChartPercentage ChartMode = "percentage"
)

// ViewMode selects raw impacts or cost allocated per impact.
type ViewMode string

// View modes.
const (
	ViewImpact        ViewMode = "impact"
	ViewCostPerImpact ViewMode = "cpi"
)

// Defaults matching the dashboard's initial state.
const (
	DefaultHorizonYears        = 30
	DefaultDiscountRatePercent = 3.0
)

// PercentageMultiplier converts a ratio to a percentage.
const PercentageMultiplier = 100.0

// DisplayParameters are the per-call knobs for building a report.
type DisplayParameters struct {
	ImpactCategory      material.ImpactCategory `json:"impact_category"       yaml:"impact_category"`
	ChartMode           ChartMode               `json:"chart_mode"            yaml:"chart_mode"`
	ViewMode            ViewMode                `json:"view_mode"             yaml:"view_mode"`
	HorizonYears        int                     `json:"horizon_years"         yaml:"horizon_years"`
	DiscountRatePercent float64                 `json:"discount_rate_percent" yaml:"discount_rate_percent"`
	BaselineName        string                  `json:"baseline_name,omitempty" yaml:"baseline_name,omitempty"`
}

// DefaultDisplayParameters returns CO2e, absolute, impact view, 30 years at 3%.
func DefaultDisplayParameters() DisplayParameters {
	return DisplayParameters{
		ImpactCategory:      material.CategoryCO2e,
		ChartMode:           ChartAbsolute,
		ViewMode:            ViewImpact,
		HorizonYears:        DefaultHorizonYears,
		DiscountRatePercent: DefaultDiscountRatePercent,
	}
}

// Validate checks enum values and numeric domains. An unknown category
// matches both ErrInvalidParameter and material.ErrDataIntegrity.
func (p DisplayParameters) Validate() error {
	if _, err := material.ParseImpactCategory(string(p.ImpactCategory)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	if _, err := ParseChartMode(string(p.ChartMode)); err != nil {
		return err
	}
	if _, err := ParseViewMode(string(p.ViewMode)); err != nil {
		return err
	}
	if err := validateHorizon(p.HorizonYears); err != nil {
		return err
	}
	_, err := discountBase(p.DiscountRatePercent)
	return err
}

// ParseChartMode resolves a chart mode case-insensitively.
func ParseChartMode(s string) (ChartMode, error) {
	switch ChartMode(strings.ToLower(strings.TrimSpace(s))) {
	case ChartAbsolute:
		return ChartAbsolute, nil
	case ChartPercentage:
		return ChartPercentage, nil
	default:
		return "", fmt.Errorf("%w: chart mode must be 'absolute' or 'percentage', got %q",
			ErrInvalidParameter, s)
	}
}

// ParseViewMode resolves a view mode case-insensitively. "costPerImpact" is
// accepted as an alias of "cpi".
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ViewImpact):
		return ViewImpact, nil
	case string(ViewCostPerImpact), "costperimpact":
		return ViewCostPerImpact, nil
	default:
		return "", fmt.Errorf("%w: view mode must be 'impact' or 'cpi', got %q",
			ErrInvalidParameter, s)
	}
}

func validateHorizon(years int) error {
	if years < 0 {
		return fmt.Errorf("%w: horizon must be >= 0 years, got %d", ErrInvalidParameter, years)
	}
	return nil
}

// discountBase returns 1 + r for a percentage rate, rejecting rates that
// would divide by zero or are not finite.
func discountBase(ratePercent float64) (float64, error) {
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) {
		return 0, fmt.Errorf("%w: discount rate must be finite", ErrInvalidParameter)
	}
	base := 1 + ratePercent/PercentageMultiplier
	if base == 0 {
		return 0, fmt.Errorf("%w: discount rate of %g%% divides by zero", ErrInvalidParameter, ratePercent)
	}
	return base, nil
}
