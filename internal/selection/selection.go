// Package selection narrows a material table to the records a caller is
// comparing and resolves the optional baseline.
package selection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/lcacost/internal/material"
)

type constError string

func (e constError) Error() string { return string(e) }

// ErrUnknownBaseline is returned when a baseline name is not in the table.
// It also matches material.ErrDataIntegrity.
const ErrUnknownBaseline = constError("unknown baseline material")

// ErrUnknownMaterial is returned when a selected name is not in the table.
const ErrUnknownMaterial = constError("unknown material")

// Selection is an ordered set of selected material names plus a search
// query. The zero value selects nothing.
type Selection struct {
	Names []string
	Query string
}

// All selects every record in the table.
func All(table *material.Table) Selection {
	return Selection{Names: table.Names()}
}

// Has reports whether name is selected.
func (s Selection) Has(name string) bool {
	return slices.Contains(s.Names, name)
}

// Toggle adds name if absent and removes it if present.
func (s Selection) Toggle(name string) Selection {
	out := Selection{Query: s.Query}
	if i := slices.Index(s.Names, name); i >= 0 {
		out.Names = slices.Delete(slices.Clone(s.Names), i, i+1)
		return out
	}
	out.Names = append(slices.Clone(s.Names), name)
	return out
}

// Set replaces the selected names, dropping duplicates and blanks.
func (s Selection) Set(names []string) Selection {
	out := Selection{Query: s.Query, Names: make([]string, 0, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out.Names, n) {
			continue
		}
		out.Names = append(out.Names, n)
	}
	return out
}

// WithQuery sets the search query.
func (s Selection) WithQuery(q string) Selection {
	return Selection{Names: slices.Clone(s.Names), Query: q}
}

// Validate checks every selected name exists in table.
func (s Selection) Validate(table *material.Table) error {
	for _, n := range s.Names {
		if _, ok := table.Lookup(n); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownMaterial, n)
		}
	}
	return nil
}

// Filter returns the selected records whose names contain the query,
// ignoring case, in table order.
func (s Selection) Filter(table *material.Table) []*material.Record {
	q := strings.ToLower(strings.TrimSpace(s.Query))
	out := make([]*material.Record, 0, len(s.Names))
	for _, r := range table.Records() {
		if !s.Has(r.Name) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseNames splits a comma-separated list of names.
func ParseNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromFlags builds a selection from a comma-separated list and a query. An
// empty list selects the whole table.
func FromFlags(table *material.Table, names, query string) (Selection, error) {
	sel := All(table)
	if list := ParseNames(names); len(list) > 0 {
		sel = sel.Set(list)
	}
	sel = sel.WithQuery(query)
	if err := sel.Validate(table); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// ResolveBaseline looks up the baseline by name. An empty name means no
// baseline and returns nil. A name not in the table is an error rather than
// a silent fallback to no baseline.
func ResolveBaseline(table *material.Table, name string) (*material.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil //nolint:nilnil // no baseline selected
	}
	r, ok := table.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", material.ErrDataIntegrity, ErrUnknownBaseline, name)
	}
	return r, nil
}
