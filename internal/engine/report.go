package engine

import (
	"context"
	"fmt"

	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
)

// MaterialReport is every derived metric for one material under a set of
// display parameters.
type MaterialReport struct {
	Name string `json:"name"`
	// Series follows the chart mode in the impact view and holds currency
	// allocations in the cost-per-impact view.
	Series      Series  `json:"series"`
	SeriesTotal float64 `json:"series_total"`
	TotalImpact float64 `json:"total_impact"`
	// CostPerImpact is the aggregate cost per unit of impact.
	CostPerImpact       Optional[float64] `json:"cost_per_impact"`
	CostPerImpactReason UndefinedReason   `json:"cost_per_impact_reason,omitempty"`
	TCO                 float64           `json:"tco"`
	MAC                 Optional[float64] `json:"mac"`
	MACReason           UndefinedReason   `json:"mac_reason,omitempty"`
	Payback             Optional[float64] `json:"payback_years"`
	PaybackReason       UndefinedReason   `json:"payback_reason,omitempty"`
	ShowPayback         bool              `json:"show_payback"`
	Scores              *material.Scores  `json:"scores,omitempty"`
}

// Report is the engine output for one call.
type Report struct {
	Parameters DisplayParameters `json:"parameters"`
	Unit       string            `json:"unit"`
	Phases     []string          `json:"phases"`
	Materials  []MaterialReport  `json:"materials"`
}

// Evaluate builds a Report for records under params. baseline may be nil;
// callers resolve params.BaselineName before calling.
func Evaluate(
	ctx context.Context,
	records []*material.Record,
	params DisplayParameters,
	baseline *material.Record,
) (*Report, error) {
	log := logging.FromContext(ctx)
	log.Debug().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "evaluate").
		Int("material_count", len(records)).
		Str("category", string(params.ImpactCategory)).
		Str("view", string(params.ViewMode)).
		Msg("evaluating materials")

	if err := params.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Parameters: params,
		Unit:       params.ImpactCategory.Unit(),
		Materials:  make([]MaterialReport, 0, len(records)),
	}
	for _, p := range material.AllPhases() {
		report.Phases = append(report.Phases, p.String())
	}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mr, err := evaluateOne(r, params, baseline)
		if err != nil {
			return nil, fmt.Errorf("evaluating %q: %w", r.Name, err)
		}
		report.Materials = append(report.Materials, mr)
	}
	return report, nil
}

func evaluateOne(r *material.Record, params DisplayParameters, baseline *material.Record) (MaterialReport, error) {
	mr := MaterialReport{Name: r.Name, Scores: r.Scores}

	total, err := TotalImpact(r, params.ImpactCategory)
	if err != nil {
		return mr, err
	}
	mr.TotalImpact = total

	cpi, err := CostPerImpactSeries(r, params.ImpactCategory)
	if err != nil {
		return mr, err
	}
	mr.CostPerImpact = cpi.Total
	mr.CostPerImpactReason = cpi.Total.Reason()

	if params.ViewMode == ViewCostPerImpact {
		mr.Series = cpi.Series
	} else {
		mr.Series, err = PhaseSeries(r, params.ImpactCategory, params.ChartMode)
		if err != nil {
			return mr, err
		}
	}
	mr.SeriesTotal = mr.Series.Sum()

	mr.TCO, err = TotalCostOfOwnership(r, params.HorizonYears, params.DiscountRatePercent)
	if err != nil {
		return mr, err
	}

	mr.MAC, err = MarginalAbatementCost(r, baseline)
	if err != nil {
		return mr, err
	}
	mr.MACReason = mr.MAC.Reason()

	mr.Payback = PaybackYears(r, baseline)
	mr.PaybackReason = mr.Payback.Reason()
	mr.ShowPayback = ShowPayback(mr.Payback)
	return mr, nil
}
