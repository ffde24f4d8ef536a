package engine

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/lcacost/internal/material"
)

// MarginalAbatementCost returns the capital premium per unit of CO2e avoided
// relative to baseline:
//
//	MAC = (capital − baseline.capital) / (baseline.CO2e − CO2e)
//
// The result is undefined without a baseline or when both emit the same
// CO2e. MAC <= 0 marks a material that is cheaper and lower-carbon.
func MarginalAbatementCost(r, baseline *material.Record) (Optional[float64], error) {
	if baseline == nil {
		return Undefined[float64](ReasonNoBaseline), nil
	}

	reduction, err := co2eReduction(r, baseline)
	if err != nil {
		return Optional[float64]{}, err
	}
	if reduction == 0 {
		return Undefined[float64](ReasonEqualEmissions), nil
	}

	capitalDelta := r.CapitalCost - baseline.CapitalCost
	return Some(normalizeZero(capitalDelta / reduction)), nil
}

func co2eReduction(r, baseline *material.Record) (float64, error) {
	own, err := TotalImpact(r, material.CategoryCO2e)
	if err != nil {
		return 0, err
	}
	base, err := TotalImpact(baseline, material.CategoryCO2e)
	if err != nil {
		return 0, err
	}
	return base - own, nil
}

// MACEntry is one material on a MAC curve.
type MACEntry struct {
	Name string `json:"name"`
	// MAC is currency per kg CO2e avoided.
	MAC Optional[float64] `json:"mac"`
	// Reason is set when MAC is undefined.
	Reason UndefinedReason `json:"reason,omitempty"`
	// CO2eReduction is kg CO2e avoided relative to the baseline (negative
	// when the material emits more).
	CO2eReduction float64 `json:"co2e_reduction"`
	CapitalDelta  float64 `json:"capital_delta"`
}

// CostSaving reports whether the entry is dominant over the baseline.
func (e MACEntry) CostSaving() bool {
	v, ok := e.MAC.Get()
	return ok && v <= 0
}

// MACCurve ranks materials by MAC against one baseline.
type MACCurve struct {
	Baseline string `json:"baseline,omitempty"`
	// Ranked holds defined entries, MAC ascending, name breaking ties.
	Ranked []MACEntry `json:"ranked"`
	// CostSaving and CostIncurring partition Ranked at MAC <= 0.
	CostSaving    []MACEntry `json:"cost_saving"`
	CostIncurring []MACEntry `json:"cost_incurring"`
	// Undefined holds entries without a MAC, in input order.
	Undefined []MACEntry `json:"undefined"`
}

// BuildMACCurve computes MAC for every record against baseline in parallel
// and ranks the results. The ordering depends only on the inputs, not on
// goroutine scheduling. A nil baseline yields a curve where every entry is
// undefined.
func BuildMACCurve(ctx context.Context, records []*material.Record, baseline *material.Record) (MACCurve, error) {
	entries := make([]MACEntry, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := macEntry(r, baseline)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MACCurve{}, err
	}

	curve := MACCurve{
		Ranked:        []MACEntry{},
		CostSaving:    []MACEntry{},
		CostIncurring: []MACEntry{},
		Undefined:     []MACEntry{},
	}
	if baseline != nil {
		curve.Baseline = baseline.Name
	}

	for _, e := range entries {
		if e.MAC.Defined() {
			curve.Ranked = append(curve.Ranked, e)
		} else {
			curve.Undefined = append(curve.Undefined, e)
		}
	}

	sort.SliceStable(curve.Ranked, func(i, j int) bool {
		a, _ := curve.Ranked[i].MAC.Get()
		b, _ := curve.Ranked[j].MAC.Get()
		if a != b {
			return a < b
		}
		return curve.Ranked[i].Name < curve.Ranked[j].Name
	})

	for _, e := range curve.Ranked {
		if e.CostSaving() {
			curve.CostSaving = append(curve.CostSaving, e)
		} else {
			curve.CostIncurring = append(curve.CostIncurring, e)
		}
	}
	return curve, nil
}

func macEntry(r, baseline *material.Record) (MACEntry, error) {
	entry := MACEntry{Name: r.Name}
	mac, err := MarginalAbatementCost(r, baseline)
	if err != nil {
		return MACEntry{}, err
	}
	entry.MAC = mac
	entry.Reason = mac.Reason()
	if baseline == nil {
		return entry, nil
	}

	reduction, err := co2eReduction(r, baseline)
	if err != nil {
		return MACEntry{}, err
	}
	entry.CO2eReduction = reduction
	entry.CapitalDelta = r.CapitalCost - baseline.CapitalCost
	return entry, nil
}
