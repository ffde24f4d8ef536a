package pagination

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rshade/lcacost/internal/engine"
)

// sortKey extracts a comparable value; ok is false for undefined results.
type sortKey func(m engine.MaterialReport) (v float64, ok bool)

func defined(o engine.Optional[float64]) (float64, bool) { return o.Get() }

//nolint:gochecknoglobals // Read-only field table.
var reportKeys = map[string]sortKey{
	"total":   func(m engine.MaterialReport) (float64, bool) { return m.TotalImpact, true },
	"cpi":     func(m engine.MaterialReport) (float64, bool) { return defined(m.CostPerImpact) },
	"tco":     func(m engine.MaterialReport) (float64, bool) { return m.TCO, true },
	"mac":     func(m engine.MaterialReport) (float64, bool) { return defined(m.MAC) },
	"payback": func(m engine.MaterialReport) (float64, bool) { return defined(m.Payback) },
}

// ReportSorter orders report rows by name or a numeric metric.
type ReportSorter struct{}

// NewReportSorter returns a ReportSorter.
func NewReportSorter() *ReportSorter {
	return &ReportSorter{}
}

// IsValidField reports whether field can be sorted on.
func (s *ReportSorter) IsValidField(field string) bool {
	if field == "name" {
		return true
	}
	_, ok := reportKeys[field]
	return ok
}

// GetValidFields returns the sortable fields in a stable order.
func (s *ReportSorter) GetValidFields() []string {
	fields := []string{"name"}
	for f := range reportKeys {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort returns a sorted copy of rows. Rows whose metric is undefined go
// last in either order; ties keep input order. An empty field returns rows
// unchanged.
func (s *ReportSorter) Sort(rows []engine.MaterialReport, field, order string) ([]engine.MaterialReport, error) {
	if field == "" {
		return rows, nil
	}
	if !s.IsValidField(field) {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field,
			strings.Join(s.GetValidFields(), ", "))
	}

	sorted := slices.Clone(rows)
	desc := order == SortOrderDesc

	if field == "name" {
		sort.SliceStable(sorted, func(i, j int) bool {
			if desc {
				return sorted[i].Name > sorted[j].Name
			}
			return sorted[i].Name < sorted[j].Name
		})
		return sorted, nil
	}

	key := reportKeys[field]
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aok := key(sorted[i])
		b, bok := key(sorted[j])
		if aok != bok {
			return aok
		}
		if !aok {
			return false
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return sorted, nil
}
