// Package window computes which rows of a long list need rendering for a
// given scroll position.
package window

// Defaults for the terminal table, where every row is one line.
const (
	DefaultRowHeight = 1
	DefaultOverscan  = 5
)

// Params describes the scroll state. All values are in the same unit.
type Params struct {
	ScrollOffset   int
	ViewportHeight int
	RowCount       int
	RowHeight      int
	Overscan       int
}

// Range is the inclusive span of rows to render.
type Range struct {
	Start       int
	End         int
	TotalHeight int
	Empty       bool
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	if r.Empty {
		return 0
	}
	return r.End - r.Start + 1
}

// Offset returns the position of row Start from the top of the list.
func (r Range) Offset(rowHeight int) int {
	return r.Start * rowHeight
}

// Compute returns the rows covering the viewport plus Overscan rows on
// each side, clipped to the list. A non-positive RowHeight is treated as 1.
func Compute(p Params) Range {
	if p.RowCount <= 0 {
		return Range{Empty: true}
	}

	rh := p.RowHeight
	if rh <= 0 {
		rh = 1
	}
	overscan := max(p.Overscan, 0)
	offset := max(p.ScrollOffset, 0)
	viewport := max(p.ViewportHeight, 0)

	first := offset / rh
	visible := (viewport + rh - 1) / rh

	start := min(max(first-overscan, 0), p.RowCount-1)
	end := min(p.RowCount-1, first+visible+overscan)
	if end < start {
		end = start
	}

	return Range{
		Start:       start,
		End:         end,
		TotalHeight: p.RowCount * rh,
	}
}

// ClampOffset bounds a scroll offset so the viewport never runs past the
// end of the list.
func ClampOffset(offset, viewportHeight, rowCount, rowHeight int) int {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	maxOffset := max(rowCount*rowHeight-viewportHeight, 0)
	return min(max(offset, 0), maxOffset)
}
