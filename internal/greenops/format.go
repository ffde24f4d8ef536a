package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with precision decimals and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(f, 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	negative := strings.HasPrefix(intPart, "-")
	n, err := strconv.ParseInt(strings.TrimPrefix(intPart, "-"), 10, 64)
	if err != nil {
		return s
	}

	out := FormatNumber(n)
	if negative {
		out = "-" + out
	}
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatLarge abbreviates millions and billions ("~1.5 billion") and falls
// back to a separated integer below a million.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}

// CarbonDisplay is a carbon quantity scaled for display.
type CarbonDisplay struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// String joins value and unit.
func (d CarbonDisplay) String() string {
	return d.Value + " " + d.Unit
}

// Carbon display units.
const (
	UnitKgCO2e    = "kg CO₂e"
	UnitTonneCO2e = "t CO₂e"
)

// FormatCO2e scales a kg CO2e value for display: tonnes with two decimals
// at 1000 kg and above, kilograms with one decimal otherwise.
func FormatCO2e(kg float64) CarbonDisplay {
	if kg >= TonneDisplayThresholdKg {
		return CarbonDisplay{Value: FormatFloat(kg/TonnesToKg, 2), Unit: UnitTonneCO2e}
	}
	return CarbonDisplay{Value: FormatFloat(kg, 1), Unit: UnitKgCO2e}
}

// PerTonne converts a cost per kg CO2e to a cost per tonne CO2e.
func PerTonne(costPerKg float64) float64 {
	return costPerKg * TonnesToKg
}
