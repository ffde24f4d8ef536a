package engine

import (
	"fmt"

	"github.com/rshade/lcacost/internal/material"
)

// MaterialTotal pairs a material with its total in one category.
type MaterialTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Insights summarizes one category across a set of materials.
type Insights struct {
	Category material.ImpactCategory `json:"category"`
	Unit     string                  `json:"unit"`
	Lowest   MaterialTotal           `json:"lowest"`
	// Hotspot is the material with the highest total.
	Hotspot MaterialTotal `json:"hotspot"`
	Average float64       `json:"average"`
	// HotspotAbovePercent is how far the hotspot exceeds the lowest total,
	// undefined when the lowest total is zero.
	HotspotAbovePercent Optional[float64] `json:"hotspot_above_percent"`
	Count               int               `json:"count"`
}

// Summarize finds the lowest and highest totals in a category and their
// spread. Among tied totals the lowest is the first record in input order
// and the hotspot is the last, as in an ascending stable sort.
func Summarize(records []*material.Record, category material.ImpactCategory) (Insights, error) {
	if len(records) == 0 {
		return Insights{}, fmt.Errorf("%w: %w", ErrInvalidParameter, ErrNoRecords)
	}

	out := Insights{Category: category, Unit: category.Unit(), Count: len(records)}
	var sum float64
	for i, r := range records {
		total, err := TotalImpact(r, category)
		if err != nil {
			return Insights{}, err
		}
		sum += total
		mt := MaterialTotal{Name: r.Name, Total: total}
		if i == 0 {
			out.Lowest, out.Hotspot = mt, mt
			continue
		}
		if total < out.Lowest.Total {
			out.Lowest = mt
		}
		if total >= out.Hotspot.Total {
			out.Hotspot = mt
		}
	}
	out.Average = sum / float64(len(records))

	if out.Lowest.Total == 0 {
		out.HotspotAbovePercent = Undefined[float64](ReasonZeroBaseline)
	} else {
		out.HotspotAbovePercent = Some(
			(out.Hotspot.Total - out.Lowest.Total) / out.Lowest.Total * PercentageMultiplier)
	}
	return out, nil
}
