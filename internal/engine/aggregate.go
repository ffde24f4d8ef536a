package engine

import (
	"fmt"

	"github.com/rshade/lcacost/internal/material"
)

// Series is one value per lifecycle phase, in phase order.
type Series [material.PhaseCount]float64

// Sum returns the total of the series.
func (s Series) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// CostPerImpact is the cost-per-impact view of a record: the per-area cost
// allocated across phases by impact share, and the aggregate cost per unit
// of impact.
type CostPerImpact struct {
	Series Series
	// Total is undefined with ReasonZeroImpact when the category total is 0.
	// ValueOr(0) then yields the zero-total policy value.
	Total Optional[float64]
}

// TotalImpact sums the five phase values of a category. A category missing
// from the record is an error, not zero.
func TotalImpact(r *material.Record, category material.ImpactCategory) (float64, error) {
	values, err := r.Impacts(category)
	if err != nil {
		return 0, err
	}
	return values.Sum(), nil
}

// PhaseSeries returns the phase values of a category either unchanged or as
// percentages of the category total. A zero total yields all zeros in
// percentage mode.
func PhaseSeries(r *material.Record, category material.ImpactCategory, mode ChartMode) (Series, error) {
	values, err := r.Impacts(category)
	if err != nil {
		return Series{}, err
	}

	switch mode {
	case ChartAbsolute:
		return Series(values), nil
	case ChartPercentage:
		total := values.Sum()
		var out Series
		if total == 0 {
			return out, nil
		}
		for i, v := range values {
			out[i] = v / total * PercentageMultiplier
		}
		return out, nil
	default:
		return Series{}, fmt.Errorf("%w: unknown chart mode %q", ErrInvalidParameter, mode)
	}
}

// CostPerImpactSeries allocates the record's cost per area across phases in
// proportion to each phase's share of the category total.
func CostPerImpactSeries(r *material.Record, category material.ImpactCategory) (CostPerImpact, error) {
	values, err := r.Impacts(category)
	if err != nil {
		return CostPerImpact{}, err
	}

	total := values.Sum()
	if total == 0 {
		return CostPerImpact{Total: Undefined[float64](ReasonZeroImpact)}, nil
	}

	var out CostPerImpact
	for i, v := range values {
		out.Series[i] = r.CostPerArea * v / total
	}
	out.Total = Some(r.CostPerArea / total)
	return out, nil
}
