package pagination

import "fmt"

// Meta describes the window shown out of the full result.
type Meta struct {
	Offset     int  `json:"offset"`
	Shown      int  `json:"shown"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes a window of shown items starting at p.Offset.
func NewMeta(p Params, shown, total int) Meta {
	return Meta{
		Offset:     p.Offset,
		Shown:      shown,
		TotalItems: total,
		HasNext:    p.Offset+shown < total,
	}
}

// String renders "Showing 1-2 of 4".
func (m Meta) String() string {
	if m.Shown == 0 {
		return fmt.Sprintf("Showing 0 of %d", m.TotalItems)
	}
	return fmt.Sprintf("Showing %d-%d of %d", m.Offset+1, m.Offset+m.Shown, m.TotalItems)
}
