package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/cli/pagination"
	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/report"
)

// List flag names.
const (
	flagSort   = "sort"
	flagLimit  = "limit"
	flagOffset = "offset"
)

// newReportCmd evaluates every metric for the selected materials.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Every metric for each material in one table",
		Long: `Combines the category total, cost per impact, TCO, MAC and payback for each
selected material. MAC and payback are shown only when --baseline is set.
JSON output carries the per-phase series as well.`,
		Example: `  lcacost report
  lcacost report --baseline "2x6 Wall" --horizon 50 -o json
  lcacost report --sort tco:desc --limit 2`,
		RunE: runReport,
	}
	addDisplayFlags(cmd, allDisplayFlags)
	cmd.Flags().String(flagSort, "", "sort rows by name, total, cpi, tco, mac or payback, optionally :asc or :desc")
	cmd.Flags().Int(flagLimit, 0, "show at most this many rows (0 for all)")
	cmd.Flags().Int(flagOffset, 0, "skip this many rows")
	return cmd
}

// listParams reads --sort, --limit and --offset.
func listParams(cmd *cobra.Command) (pagination.Params, error) {
	var p pagination.Params
	var err error
	sortExpr, _ := cmd.Flags().GetString(flagSort)
	if p.SortField, p.SortOrder, err = pagination.ParseSort(sortExpr); err != nil {
		return p, fmt.Errorf("%w: %w", engine.ErrInvalidParameter, err)
	}
	p.Limit, _ = cmd.Flags().GetInt(flagLimit)
	p.Offset, _ = cmd.Flags().GetInt(flagOffset)
	if err = p.Validate(); err != nil {
		return p, fmt.Errorf("%w: %w", engine.ErrInvalidParameter, err)
	}
	return p, nil
}

// pageReport sorts and windows the report rows in place and returns a note
// describing the window, or "" when every row is shown.
func pageReport(rep *engine.Report, p pagination.Params) (string, error) {
	sorted, err := pagination.NewReportSorter().Sort(rep.Materials, p.SortField, p.SortOrder)
	if err != nil {
		return "", fmt.Errorf("%w: %w", engine.ErrInvalidParameter, err)
	}
	total := len(sorted)
	rep.Materials = pagination.Apply(sorted, p)
	if !p.IsEnabled() {
		return "", nil
	}
	return pagination.NewMeta(p, len(rep.Materials), total).String(), nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	list, err := listParams(cmd)
	if err != nil {
		return err
	}
	in, err := loadAnalysisInput(cmd)
	if err != nil {
		return err
	}
	rep, err := engine.Evaluate(cmd.Context(), in.Records, in.Params, in.Baseline)
	if err != nil {
		return err
	}
	note, err := pageReport(rep, list)
	if err != nil {
		return err
	}
	td := reportTable(rep)
	if note != "" {
		td.Notes = append(td.Notes, note)
	}
	return render(cmd, td, rep)
}

func reportTable(rep *engine.Report) tableData {
	p := rep.Parameters
	hasBaseline := p.BaselineName != ""

	headers := []string{"Material", "Total " + string(p.ImpactCategory), "Cost/Impact", "TCO"}
	if hasBaseline {
		headers = append(headers, "MAC", "Payback")
	}
	headers = append(headers, "Tier")

	td := tableData{
		Title: fmt.Sprintf("%s report, TCO over %d years at %g%%",
			p.ImpactCategory, p.HorizonYears, p.DiscountRatePercent),
		Headers: headers,
	}
	if hasBaseline {
		td.Title += ", baseline " + p.BaselineName
	}

	for _, m := range rep.Materials {
		row := []string{
			m.Name,
			report.FormatImpact(p.ImpactCategory, m.TotalImpact),
			report.FormatOptional(m.CostPerImpact, currency),
			currency(m.TCO),
		}
		if hasBaseline {
			row = append(row, report.FormatMAC(m.MAC), report.FormatPayback(m.Payback))
		}
		tier := report.Undefined
		if m.Scores != nil {
			tier = string(m.Scores.Tier)
		}
		td.Rows = append(td.Rows, append(row, tier))
	}
	return td
}
