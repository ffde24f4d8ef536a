package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/report"
)

type paybackRow struct {
	Name          string                   `json:"name"`
	CapitalDelta  float64                  `json:"capital_delta"`
	AnnualSavings float64                  `json:"annual_savings"`
	PaybackYears  engine.Optional[float64] `json:"payback_years"`
	Reason        engine.UndefinedReason   `json:"reason,omitempty"`
	Show          bool                     `json:"show"`
}

type paybackOutput struct {
	Baseline  string       `json:"baseline"`
	Materials []paybackRow `json:"materials"`
}

// newPaybackCmd computes the years each material takes to recoup its
// capital premium over the baseline through operating savings.
func newPaybackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payback",
		Short:   "Payback period against a baseline",
		Example: `  lcacost payback --baseline "2x6 Wall"`,
		RunE:    runPayback,
	}
	addDisplayFlags(cmd, displayFlags{baseline: true})
	return cmd
}

func runPayback(cmd *cobra.Command, _ []string) error {
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}
	if err = requireBaseline(in); err != nil {
		return err
	}

	out := paybackOutput{Baseline: in.Baseline.Name, Materials: make([]paybackRow, 0, len(in.Records))}
	td := tableData{
		Title:   "Payback vs " + in.Baseline.Name,
		Headers: []string{"Material", "Capital Δ", "Savings/yr", "Payback"},
	}
	for _, r := range in.Records {
		p := engine.PaybackYears(r, in.Baseline)
		row := paybackRow{
			Name:          r.Name,
			CapitalDelta:  r.CapitalCost - in.Baseline.CapitalCost,
			AnnualSavings: in.Baseline.AnnualOperatingCost() - r.AnnualOperatingCost(),
			PaybackYears:  p,
			Reason:        p.Reason(),
			Show:          engine.ShowPayback(p),
		}
		out.Materials = append(out.Materials, row)
		td.Rows = append(td.Rows, []string{
			row.Name, currency(row.CapitalDelta), currency(row.AnnualSavings), report.FormatPayback(p),
		})
	}
	return render(cmd, td, out)
}
