package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, Range{Empty: true}, Compute(Params{ViewportHeight: 10, RowHeight: 1}))
	assert.Equal(t, 0, Range{Empty: true}.Len())
}

func TestComputeCases(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want Range
	}{
		{
			name: "top of list",
			p:    Params{ScrollOffset: 0, ViewportHeight: 10, RowCount: 100, RowHeight: 1, Overscan: 5},
			want: Range{Start: 0, End: 15, TotalHeight: 100},
		},
		{
			name: "scrolled middle",
			p:    Params{ScrollOffset: 50, ViewportHeight: 10, RowCount: 100, RowHeight: 1, Overscan: 5},
			want: Range{Start: 45, End: 65, TotalHeight: 100},
		},
		{
			name: "near the end clips",
			p:    Params{ScrollOffset: 95, ViewportHeight: 10, RowCount: 100, RowHeight: 1, Overscan: 5},
			want: Range{Start: 90, End: 99, TotalHeight: 100},
		},
		{
			name: "tall rows",
			p:    Params{ScrollOffset: 650, ViewportHeight: 600, RowCount: 1000, RowHeight: 65, Overscan: 5},
			want: Range{Start: 5, End: 25, TotalHeight: 65000},
		},
		{
			name: "partial row rounds visible up",
			p:    Params{ScrollOffset: 0, ViewportHeight: 100, RowCount: 1000, RowHeight: 65, Overscan: 0},
			want: Range{Start: 0, End: 2, TotalHeight: 65000},
		},
		{
			name: "fewer rows than viewport",
			p:    Params{ScrollOffset: 0, ViewportHeight: 40, RowCount: 3, RowHeight: 1, Overscan: 5},
			want: Range{Start: 0, End: 2, TotalHeight: 3},
		},
		{
			name: "offset past end clamps start",
			p:    Params{ScrollOffset: 500, ViewportHeight: 10, RowCount: 20, RowHeight: 1, Overscan: 5},
			want: Range{Start: 19, End: 19, TotalHeight: 20},
		},
		{
			name: "zero row height treated as one",
			p:    Params{ScrollOffset: 2, ViewportHeight: 3, RowCount: 10, RowHeight: 0},
			want: Range{Start: 2, End: 5, TotalHeight: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.p))
		})
	}
}

func TestComputeCoversViewport(t *testing.T) {
	for rows := 1; rows <= 60; rows += 7 {
		for offset := 0; offset < rows; offset += 3 {
			p := Params{ScrollOffset: offset, ViewportHeight: 12, RowCount: rows, RowHeight: 1, Overscan: DefaultOverscan}
			r := Compute(p)

			lastVisible := min(rows-1, offset+p.ViewportHeight-1)
			assert.LessOrEqual(t, r.Start, offset, "rows=%d offset=%d", rows, offset)
			assert.GreaterOrEqual(t, r.End, lastVisible, "rows=%d offset=%d", rows, offset)
			assert.Equal(t, rows, r.TotalHeight)
		}
	}
}

func TestClampOffset(t *testing.T) {
	assert.Equal(t, 0, ClampOffset(-3, 10, 100, 1))
	assert.Equal(t, 90, ClampOffset(200, 10, 100, 1))
	assert.Equal(t, 0, ClampOffset(5, 10, 4, 1))
	assert.Equal(t, 42, ClampOffset(42, 10, 100, 1))
}
