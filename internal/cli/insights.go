package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/report"
)

// newInsightsCmd summarizes one category across the selected materials.
func newInsightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Lowest, highest and average impact across materials",
		Example: `  lcacost insights
  lcacost insights --category energy`,
		RunE: runInsights,
	}
	addDisplayFlags(cmd, displayFlags{category: true})
	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}
	ins, err := engine.Summarize(in.Records, in.Params.ImpactCategory)
	if err != nil {
		return err
	}

	impact := func(v float64) string { return report.FormatImpact(ins.Category, v) }
	td := tableData{
		Title:   fmt.Sprintf("%s insights across %d materials", ins.Category, ins.Count),
		Headers: []string{"Metric", "Material", "Value"},
		Rows: [][]string{
			{"Lowest", ins.Lowest.Name, impact(ins.Lowest.Total)},
			{"Hotspot", ins.Hotspot.Name, impact(ins.Hotspot.Total)},
			{"Average", "", impact(ins.Average)},
			{"Hotspot above lowest", "", report.FormatOptional(ins.HotspotAbovePercent, report.FormatPercent)},
		},
	}
	return render(cmd, td, ins)
}
