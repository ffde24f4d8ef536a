package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/greenops"
	"github.com/rshade/lcacost/internal/report"
)

// requireBaseline fails commands that are meaningless without a baseline.
func requireBaseline(in *analysisInput) error {
	if in.Baseline == nil {
		return fmt.Errorf("%w: --baseline is required (or set analysis.baseline)", engine.ErrInvalidParameter)
	}
	return nil
}

// newMACCmd ranks materials by marginal abatement cost against a baseline.
func newMACCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mac",
		Short: "Marginal abatement cost curve against a baseline",
		Long: `Ranks materials by capital premium per tonne of CO2e avoided relative to the
baseline. Negative values are cheaper and lower-carbon. Materials emitting
exactly as much as the baseline have no MAC and are listed last.`,
		Example: `  lcacost mac --baseline "2x6 Wall"
  lcacost mac --baseline "2x6 Wall" -o json`,
		RunE: runMAC,
	}
	addDisplayFlags(cmd, displayFlags{baseline: true})
	return cmd
}

func runMAC(cmd *cobra.Command, _ []string) error {
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}
	if err = requireBaseline(in); err != nil {
		return err
	}

	curve, err := engine.BuildMACCurve(cmd.Context(), in.Records, in.Baseline)
	if err != nil {
		return err
	}

	td := tableData{
		Title:   "Marginal abatement cost vs " + curve.Baseline,
		Headers: []string{"#", "Material", "MAC", "CO2e Avoided", "Capital Δ", "Equivalent"},
	}
	for i, e := range curve.Ranked {
		row, rowErr := macRow(strconv.Itoa(i+1), e)
		if rowErr != nil {
			return rowErr
		}
		td.Rows = append(td.Rows, row)
	}
	for _, e := range curve.Undefined {
		row, rowErr := macRow(report.Undefined, e)
		if rowErr != nil {
			return rowErr
		}
		td.Rows = append(td.Rows, row)
		td.Notes = append(td.Notes, fmt.Sprintf("%s: no MAC (%s)", e.Name, e.Reason))
	}
	if n := len(curve.CostSaving); n > 0 {
		td.Notes = append(td.Notes, fmt.Sprintf("%d material(s) are cheaper and lower-carbon than %s",
			n, curve.Baseline))
	}
	return render(cmd, td, curve)
}

func macRow(rank string, e engine.MACEntry) ([]string, error) {
	equivalent := ""
	if e.CO2eReduction > 0 {
		avoided, err := greenops.CarbonAvoided(e.CO2eReduction)
		if err != nil {
			return nil, err
		}
		equivalent = avoided.CompactText
	}
	return []string{
		rank,
		e.Name,
		report.FormatMAC(e.MAC),
		greenops.FormatCO2e(e.CO2eReduction).String(),
		currency(e.CapitalDelta),
		equivalent,
	}, nil
}
