package greenops

import (
	"fmt"
	"math"
	"strings"
)

// unitFactor maps a lowercase unit name, with or without the CO2e suffix,
// to its kilogram factor.
func unitFactor(unit string) (float64, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.ReplaceAll(u, " ", "")
	u = strings.TrimSuffix(u, "co2e")
	u = strings.TrimSuffix(u, "co₂e")
	switch u {
	case "g":
		return GramsToKg, true
	case "kg":
		return KgToKg, true
	case "t", "tonne", "tonnes":
		return TonnesToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity to kilograms. Units are matched
// case-insensitively: g, kg, t, lb, each optionally suffixed with CO2e
// ("kg CO2e", "tCO2e", "kg CO₂e").
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: %g %s", ErrNegativeValue, value, unit)
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	kg := value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}

// IsRecognizedUnit reports whether unit is a supported carbon unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}
