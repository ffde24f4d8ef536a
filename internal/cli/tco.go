package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/engine"
)

type tcoRow struct {
	Name                string  `json:"name"`
	CapitalCost         float64 `json:"capital_cost"`
	AnnualOperatingCost float64 `json:"annual_operating_cost"`
	SalvageValue        float64 `json:"salvage_value"`
	TCO                 float64 `json:"tco"`
}

type tcoOutput struct {
	HorizonYears        int      `json:"horizon_years"`
	DiscountRatePercent float64  `json:"discount_rate_percent"`
	Materials           []tcoRow `json:"materials"`
}

// newTCOCmd computes discounted total cost of ownership per material.
func newTCOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tco",
		Short: "Total cost of ownership over a horizon",
		Long: `Discounts maintenance and energy costs over the horizon and subtracts the
discounted salvage value:

  TCO = capital + sum(t=1..H) (maintenance + energy) / (1+r)^t - salvage / (1+r)^H`,
		Example: `  lcacost tco
  lcacost tco --horizon 50 --rate 5`,
		RunE: runTCO,
	}
	addDisplayFlags(cmd, displayFlags{tco: true})
	return cmd
}

func runTCO(cmd *cobra.Command, _ []string) error {
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}

	out := tcoOutput{
		HorizonYears:        in.Params.HorizonYears,
		DiscountRatePercent: in.Params.DiscountRatePercent,
		Materials:           make([]tcoRow, 0, len(in.Records)),
	}
	for _, r := range in.Records {
		tco, tcoErr := engine.TotalCostOfOwnership(r, in.Params.HorizonYears, in.Params.DiscountRatePercent)
		if tcoErr != nil {
			return tcoErr
		}
		out.Materials = append(out.Materials, tcoRow{
			Name:                r.Name,
			CapitalCost:         r.CapitalCost,
			AnnualOperatingCost: r.AnnualOperatingCost(),
			SalvageValue:        r.SalvageValue,
			TCO:                 tco,
		})
	}

	td := tableData{
		Title: fmt.Sprintf("Total cost of ownership over %d years at %g%%",
			out.HorizonYears, out.DiscountRatePercent),
		Headers: []string{"Material", "Capital", "Operating/yr", "Salvage", "TCO"},
	}
	for _, row := range out.Materials {
		td.Rows = append(td.Rows, []string{
			row.Name, currency(row.CapitalCost), currency(row.AnnualOperatingCost),
			currency(row.SalvageValue), currency(row.TCO),
		})
	}
	return render(cmd, td, out)
}
