// Package greenops presents carbon quantities: unit normalization, kg/t
// display scaling and EPA equivalencies for carbon avoided.
package greenops

import (
	"fmt"
	"math"
)

// EquivalencyType is a category of carbon equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
	// EquivalencyTreeSeedlings is tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings
)

// String returns the type name.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// Equivalency is one calculated equivalency.
type Equivalency struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// Avoided describes carbon avoided by choosing one material over another.
type Avoided struct {
	Kg           float64       `json:"kg"`
	Display      CarbonDisplay `json:"display"`
	Equivalents  []Equivalency `json:"equivalents,omitempty"`
	DisplayText  string        `json:"display_text,omitempty"`
	CompactText  string        `json:"compact_text,omitempty"`
	BelowMinimum bool          `json:"below_minimum,omitempty"`
}

// CarbonAvoided expresses kg of CO2e avoided as everyday equivalents. A
// non-positive quantity (the material emits as much or more) and quantities
// under MinEquivalencyThresholdKg carry no equivalents.
func CarbonAvoided(kg float64) (Avoided, error) {
	if math.IsInf(kg, 0) || math.IsNaN(kg) {
		return Avoided{}, ErrCalculationOverflow
	}

	out := Avoided{Kg: kg, Display: FormatCO2e(kg)}
	if kg < MinEquivalencyThresholdKg {
		out.BelowMinimum = true
		return out, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	trees := kg / EPATreeSeedlingFactor

	out.Equivalents = []Equivalency{
		{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: formatEquivalency(miles), Label: "miles driven"},
		{
			Type:           EquivalencySmartphonesCharged,
			Value:          phones,
			FormattedValue: formatEquivalency(phones),
			Label:          "smartphones charged",
		},
		{
			Type:           EquivalencyTreeSeedlings,
			Value:          trees,
			FormattedValue: FormatFloat(trees, 1),
			Label:          "tree seedlings grown for 10 years",
		},
	}
	out.DisplayText = fmt.Sprintf("Avoids the equivalent of driving ~%s miles or charging ~%s smartphones",
		out.Equivalents[0].FormattedValue, out.Equivalents[1].FormattedValue)
	out.CompactText = fmt.Sprintf("(≈ %s mi, %s phones)",
		out.Equivalents[0].FormattedValue, out.Equivalents[1].FormattedValue)
	return out, nil
}

func formatEquivalency(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
