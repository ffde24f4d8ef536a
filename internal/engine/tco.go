package engine

import (
	"fmt"
	"math"

	"github.com/rshade/lcacost/internal/material"
)

// TotalCostOfOwnership discounts a record's operating costs and salvage over
// horizonYears:
//
//	TCO = capital + Σ_{t=1..H} (maintenance + energy) / (1+r)^t − salvage / (1+r)^H
//
// where r is discountRatePercent / 100. No rounding is applied. A negative
// horizon or a rate with 1+r == 0 returns ErrInvalidParameter.
func TotalCostOfOwnership(r *material.Record, horizonYears int, discountRatePercent float64) (float64, error) {
	if err := validateHorizon(horizonYears); err != nil {
		return 0, err
	}
	base, err := discountBase(discountRatePercent)
	if err != nil {
		return 0, err
	}

	annual := r.AnnualOperatingCost()
	tco := r.CapitalCost
	factor := 1.0
	for range horizonYears {
		factor /= base
		tco += annual * factor
	}
	tco -= r.SalvageValue * factor

	if math.IsNaN(tco) || math.IsInf(tco, 0) {
		return 0, fmt.Errorf("%w: TCO for %q over %d years at %g%% is not finite",
			ErrInvalidParameter, r.Name, horizonYears, discountRatePercent)
	}
	return tco, nil
}
