package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/report"
)

// newBreakdownCmd shows each material's impact per lifecycle phase, as
// absolute values, percentage shares, or cost allocated per impact.
func newBreakdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Per-phase impact breakdown for each material",
		Long: `Shows one row per material with a column per lifecycle phase.

--chart percentage scales each row to its own total. --view cpi allocates
the material's cost per area across phases by impact share and ignores
--chart.`,
		Example: `  lcacost breakdown --category water
  lcacost breakdown --chart percentage
  lcacost breakdown --view cpi -o csv`,
		RunE: runBreakdown,
	}
	addDisplayFlags(cmd, displayFlags{category: true, chart: true, view: true})
	return cmd
}

func runBreakdown(cmd *cobra.Command, _ []string) error {
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}
	rep, err := engine.Evaluate(cmd.Context(), in.Records, in.Params, in.Baseline)
	if err != nil {
		return err
	}
	return render(cmd, breakdownTable(rep), rep)
}

func breakdownTable(rep *engine.Report) tableData {
	p := rep.Parameters
	format := func(v float64) string { return report.FormatNumber(v, report.ImpactPrecision) }
	title := fmt.Sprintf("%s by lifecycle phase (%s)", p.ImpactCategory, rep.Unit)
	switch {
	case p.ViewMode == engine.ViewCostPerImpact:
		format = currency
		title = fmt.Sprintf("Cost allocated by %s share per phase", p.ImpactCategory)
	case p.ChartMode == engine.ChartPercentage:
		format = report.FormatPercent
		title = fmt.Sprintf("%s share by lifecycle phase", p.ImpactCategory)
	}

	headers := append([]string{"Material"}, phaseHeaders()...)
	headers = append(headers, "Total")
	if p.ViewMode == engine.ViewCostPerImpact {
		headers = append(headers, "Cost/Impact")
	}

	td := tableData{Title: title, Headers: headers}
	for _, m := range rep.Materials {
		row := []string{m.Name}
		for _, v := range m.Series {
			row = append(row, format(v))
		}
		row = append(row, format(m.SeriesTotal))
		if p.ViewMode == engine.ViewCostPerImpact {
			row = append(row, report.FormatOptional(m.CostPerImpact, currency))
		}
		td.Rows = append(td.Rows, row)
	}
	return td
}
