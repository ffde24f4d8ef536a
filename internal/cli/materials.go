package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/material"
	"github.com/rshade/lcacost/internal/report"
)

// currency renders an amount at the configured output precision.
func currency(v float64) string {
	return report.FormatCurrencyPrecision(v, int32(config.GetOutputPrecision())) //nolint:gosec // validated 0..10
}

// newMaterialsCmd lists the selected materials with their cost figures.
func newMaterialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "materials",
		Short: "List materials and their cost figures",
		Example: `  lcacost materials
  lcacost materials -q wall -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := loadAnalysisInput(cmd)
			if err != nil {
				return err
			}
			return render(cmd, materialsTable(in), in.Records)
		},
	}
}

func materialsTable(in *analysisInput) tableData {
	td := tableData{
		Title: "Materials (" + in.Source + ")",
		Headers: []string{
			"Material", "Cost/Area", "Capital", "Maintenance/yr", "Energy/yr", "Salvage", "Life", "Tier",
		},
	}
	for _, r := range in.Records {
		tier := report.Undefined
		if r.Scores != nil {
			tier = string(r.Scores.Tier)
		}
		td.Rows = append(td.Rows, []string{
			r.Name,
			currency(r.CostPerArea),
			currency(r.CapitalCost),
			currency(r.AnnualMaintenanceCost),
			currency(r.AnnualEnergyCost),
			currency(r.SalvageValue),
			strconv.Itoa(r.ServiceLifeYears) + " yrs",
			tier,
		})
	}
	return td
}

// phaseHeaders returns the compact phase column labels.
func phaseHeaders() []string {
	phases := material.AllPhases()
	out := make([]string, 0, len(phases))
	for _, p := range phases {
		out = append(out, p.ShortLabel())
	}
	return out
}
