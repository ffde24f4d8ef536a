package material

import "fmt"

// Table is an immutable, name-indexed set of validated records. Record order
// follows the order the records were supplied in.
type Table struct {
	records []Record
	index   map[string]int
}

// NewTable validates every record and rejects duplicate names.
func NewTable(records []Record) (*Table, error) {
	t := &Table{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	for i := range records {
		r := records[i]
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.index[r.Name]; dup {
			return nil, fmt.Errorf("%w: %w: %q", ErrDataIntegrity, ErrDuplicateName, r.Name)
		}

		// Copy the impact map so later changes to the caller's map cannot
		// leak into the table.
		impacts := make(map[ImpactCategory]PhaseValues, len(r.PhaseImpacts))
		for c, v := range r.PhaseImpacts {
			impacts[c] = v
		}
		r.PhaseImpacts = impacts
		if r.Scores != nil {
			s := *r.Scores
			r.Scores = &s
		}

		t.index[r.Name] = len(t.records)
		t.records = append(t.records, r)
	}

	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Lookup returns the record with the given name. The returned record is
// shared with the table and must not be modified.
func (t *Table) Lookup(name string) (*Record, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.records[i], true
}

// Records returns every record in table order. The pointers are shared with
// the table and must not be modified.
func (t *Table) Records() []*Record {
	out := make([]*Record, len(t.records))
	for i := range t.records {
		out[i] = &t.records[i]
	}
	return out
}

// Names returns every record name in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.records))
	for i := range t.records {
		out[i] = t.records[i].Name
	}
	return out
}
