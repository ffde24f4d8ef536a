package engine

import "github.com/rshade/lcacost/internal/material"

// PaybackYears returns capitalDelta / annualSavings against baseline. It is
// undefined without a baseline or when the material saves nothing per year.
// A negative result means the material is cheaper up-front and to operate.
func PaybackYears(r, baseline *material.Record) Optional[float64] {
	if baseline == nil {
		return Undefined[float64](ReasonNoBaseline)
	}

	capitalDelta := r.CapitalCost - baseline.CapitalCost
	annualSavings := baseline.AnnualOperatingCost() - r.AnnualOperatingCost()
	if annualSavings <= 0 {
		return Undefined[float64](ReasonNoSavings)
	}
	return Some(normalizeZero(capitalDelta / annualSavings))
}

// ShowPayback reports whether a payback should be displayed: only defined,
// strictly positive paybacks are shown as a year count.
func ShowPayback(p Optional[float64]) bool {
	v, ok := p.Get()
	return ok && v > 0
}

// normalizeZero maps -0 to 0 so results print and compare cleanly.
func normalizeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
