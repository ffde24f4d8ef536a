package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lcacost/internal/engine"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{name: "zero value", params: Params{}},
		{name: "window", params: Params{Limit: 2, Offset: 1}},
		{name: "negative limit", params: Params{Limit: -1}, wantErr: ErrInvalidLimit},
		{name: "negative offset", params: Params{Offset: -3}, wantErr: ErrInvalidOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{input: "", wantField: "", wantOrder: SortOrderAsc},
		{input: "tco", wantField: "tco", wantOrder: SortOrderAsc},
		{input: "MAC:DESC", wantField: "mac", wantOrder: SortOrderDesc},
		{input: " total : asc ", wantField: "total", wantOrder: SortOrderAsc},
		{input: "tco:up", wantErr: ErrInvalidSortOrder},
		{input: ":desc", wantErr: ErrEmptySortField},
		{input: "a:b:c", wantErr: ErrInvalidSortFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		name   string
		params Params
		want   []int
	}{
		{name: "no window", params: Params{}, want: items},
		{name: "limit", params: Params{Limit: 2}, want: []int{1, 2}},
		{name: "offset", params: Params{Offset: 3}, want: []int{4, 5}},
		{name: "window", params: Params{Limit: 2, Offset: 1}, want: []int{2, 3}},
		{name: "limit past end", params: Params{Limit: 10, Offset: 4}, want: []int{5}},
		{name: "offset past end", params: Params{Offset: 5}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(items, tt.params))
		})
	}
}

func TestMeta(t *testing.T) {
	m := NewMeta(Params{Limit: 2, Offset: 1}, 2, 4)
	assert.True(t, m.HasNext)
	assert.Equal(t, "Showing 2-3 of 4", m.String())

	last := NewMeta(Params{Offset: 2}, 2, 4)
	assert.False(t, last.HasNext)
	assert.Equal(t, "Showing 0 of 4", NewMeta(Params{Offset: 9}, 0, 4).String())
}

func sampleRows() []engine.MaterialReport {
	return []engine.MaterialReport{
		{Name: "b", TCO: 20, TotalImpact: 5, MAC: engine.Undefined[float64](engine.ReasonEqualEmissions)},
		{Name: "a", TCO: 30, TotalImpact: 5, MAC: engine.Some(-1.0)},
		{Name: "c", TCO: 10, TotalImpact: 1, MAC: engine.Some(2.0)},
	}
}

func names(rows []engine.MaterialReport) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestReportSorter_Sort(t *testing.T) {
	s := NewReportSorter()
	tests := []struct {
		field string
		order string
		want  []string
	}{
		{field: "", order: SortOrderAsc, want: []string{"b", "a", "c"}},
		{field: "name", order: SortOrderAsc, want: []string{"a", "b", "c"}},
		{field: "name", order: SortOrderDesc, want: []string{"c", "b", "a"}},
		{field: "tco", order: SortOrderAsc, want: []string{"c", "b", "a"}},
		{field: "total", order: SortOrderDesc, want: []string{"b", "a", "c"}},
		{field: "mac", order: SortOrderAsc, want: []string{"a", "c", "b"}},
		{field: "mac", order: SortOrderDesc, want: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.field+":"+tt.order, func(t *testing.T) {
			rows := sampleRows()
			got, err := s.Sort(rows, tt.field, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, []string{"b", "a", "c"}, names(rows), "input is not modified")
		})
	}
}

func TestReportSorter_InvalidField(t *testing.T) {
	s := NewReportSorter()
	_, err := s.Sort(sampleRows(), "weight", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
	assert.Contains(t, err.Error(), "cpi, mac, name, payback, tco, total")
	assert.False(t, s.IsValidField("weight"))
}
