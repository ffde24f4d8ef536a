// Package report formats engine results for people: currency, percentages,
// impact quantities and undefined values.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/greenops"
	"github.com/rshade/lcacost/internal/material"
)

// Undefined is how an undefined result is shown. It must never read as zero.
const Undefined = "-"

// Default precisions.
const (
	CurrencyPrecision = 2
	ImpactPrecision   = 1
	PercentPrecision  = 1
)

// RoundHalfAwayFromZero rounds v to places decimals without binary
// floating-point drift (2.675 rounds to 2.68).
func RoundHalfAwayFromZero(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// FormatCurrency renders a dollar amount with separators: "$1,234.50",
// "-$35.00".
func FormatCurrency(v float64) string {
	return FormatCurrencyPrecision(v, CurrencyPrecision)
}

// FormatCurrencyPrecision renders a dollar amount rounded to places.
func FormatCurrencyPrecision(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	f, _ := d.Float64()
	return sign + "$" + greenops.FormatFloat(f, int(places))
}

// FormatPercent renders a percentage value (already scaled by 100).
func FormatPercent(v float64) string {
	return greenops.FormatFloat(RoundHalfAwayFromZero(v, PercentPrecision), PercentPrecision) + "%"
}

// FormatNumber renders v with separators and places decimals.
func FormatNumber(v float64, places int) string {
	return greenops.FormatFloat(RoundHalfAwayFromZero(v, int32(places)), places) //nolint:gosec // small precision
}

// FormatImpact renders an impact quantity in its category's unit. CO2e
// switches to tonnes at 1000 kg.
func FormatImpact(category material.ImpactCategory, v float64) string {
	if category == material.CategoryCO2e {
		return greenops.FormatCO2e(v).String()
	}
	return FormatNumber(v, ImpactPrecision) + " " + category.Unit()
}

// FormatYears renders a payback period.
func FormatYears(v float64) string {
	return FormatNumber(v, ImpactPrecision) + " yrs"
}

// FormatOptional renders a defined value with format and an undefined value
// as Undefined.
func FormatOptional(o engine.Optional[float64], format func(float64) string) string {
	v, ok := o.Get()
	if !ok {
		return Undefined
	}
	return format(v)
}

// FormatMAC renders a marginal abatement cost per tonne CO2e, the unit the
// MAC curve is read in.
func FormatMAC(o engine.Optional[float64]) string {
	return FormatOptional(o, func(perKg float64) string {
		return FormatCurrency(greenops.PerTonne(perKg)) + "/tCO₂e"
	})
}

// FormatPayback renders a payback, showing only positive year counts.
// A defined non-positive payback is "immediate".
func FormatPayback(o engine.Optional[float64]) string {
	if !o.Defined() {
		return Undefined
	}
	if !engine.ShowPayback(o) {
		return "immediate"
	}
	return FormatOptional(o, FormatYears)
}
