package driftwood

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-4
}

// --- Rect.Contains ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Rect.Intersects vs Rect.Overlaps ---

func TestRectIntersectsAndOverlaps(t *testing.T) {
	base := Rect{0, 0, 10, 10}
	tests := []struct {
		name       string
		other      Rect
		intersects bool
		overlaps   bool
	}{
		{"overlapping", Rect{5, 5, 10, 10}, true, true},
		{"contained", Rect{2, 2, 4, 4}, true, true},
		{"touching right edge", Rect{10, 0, 5, 5}, true, false},
		{"touching corner", Rect{10, 10, 5, 5}, true, false},
		{"disjoint", Rect{20, 20, 5, 5}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.intersects {
				t.Errorf("Intersects = %v, want %v", got, tt.intersects)
			}
			if got := base.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 10, 10}
	got := a.Intersect(b)
	want := Rect{5, 5, 5, 5}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
	if !a.Intersect(Rect{20, 20, 5, 5}).IsEmpty() {
		t.Error("disjoint Intersect should be empty")
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{15, 5, 10, 10}
	got := a.Union(b)
	want := Rect{0, 0, 25, 15}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

// --- Rect.ClampTo ---

func TestRectClampTo(t *testing.T) {
	bounds := Rect{0, 0, 100, 100}
	tests := []struct {
		name string
		r    Rect
		want Rect
	}{
		{"inside unchanged", Rect{10, 10, 20, 20}, Rect{10, 10, 20, 20}},
		{"past left", Rect{-5, 10, 20, 20}, Rect{0, 10, 20, 20}},
		{"past bottom-right", Rect{95, 95, 20, 20}, Rect{80, 80, 20, 20}},
		// A rect larger than the bounds gets centered, not shrunk.
		{"wider than bounds", Rect{0, 10, 200, 20}, Rect{-50, 10, 200, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ClampTo(bounds); got != tt.want {
				t.Errorf("ClampTo = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectCenteredAt(t *testing.T) {
	r := Rect{0, 0, 10, 20}
	got := r.CenteredAt(Point{X: 50, Y: 50})
	want := Rect{45, 40, 10, 20}
	if got != want {
		t.Errorf("CenteredAt = %+v, want %+v", got, want)
	}
}

// --- TileRect ---

func TestTileRectContainsTile(t *testing.T) {
	v := TileRect{X: 2, Y: 3, Width: 4, Height: 2}
	tests := []struct {
		name   string
		x, y   int
		expect bool
	}{
		{"origin", 2, 3, true},
		{"last cell", 5, 4, true},
		{"right exclusive", 6, 3, false},
		{"bottom exclusive", 2, 5, false},
		{"before origin", 1, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.ContainsTile(tt.x, tt.y); got != tt.expect {
				t.Errorf("ContainsTile(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		})
	}
	if v.Right() != 6 || v.Bottom() != 5 {
		t.Errorf("Right/Bottom = %d, %d, want 6, 5", v.Right(), v.Bottom())
	}
}

// --- BlendMode ---

func TestBlendModeEbitenBlend(t *testing.T) {
	tests := []struct {
		name   string
		mode   BlendMode
		expect ebiten.Blend
	}{
		{"normal", BlendNormal, ebiten.BlendSourceOver},
		{"add", BlendAdd, ebiten.BlendLighter},
		{"erase", BlendErase, ebiten.BlendDestinationOut},
		{"below", BlendBelow, ebiten.BlendDestinationOver},
		{"none", BlendNone, ebiten.BlendCopy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.EbitenBlend(); got != tt.expect {
				t.Errorf("EbitenBlend() = %v, want %v", got, tt.expect)
			}
		})
	}
}

// --- divmod / PixelToTile ---

func TestDivmod(t *testing.T) {
	tests := []struct {
		a, b, q, r int
	}{
		{7, 3, 2, 1},
		{6, 3, 2, 0},
		{0, 3, 0, 0},
		{-1, 3, -1, 2},
		{-3, 3, -1, 0},
		{-7, 32, -1, 25},
	}
	for _, tt := range tests {
		q, r := divmod(tt.a, tt.b)
		if q != tt.q || r != tt.r {
			t.Errorf("divmod(%d, %d) = %d, %d, want %d, %d", tt.a, tt.b, q, r, tt.q, tt.r)
		}
	}
}

func TestPixelToTile(t *testing.T) {
	data := newFakeData(16, 16, 10, 10)
	tests := []struct {
		px, py float64
		tx, ty int
	}{
		{0, 0, 0, 0},
		{15.9, 15.9, 0, 0},
		{16, 16, 1, 1},
		{-0.5, -0.5, -1, -1},
		{-16, -17, -1, -2},
	}
	for _, tt := range tests {
		tx, ty := PixelToTile(data, tt.px, tt.py)
		if tx != tt.tx || ty != tt.ty {
			t.Errorf("PixelToTile(%v, %v) = %d, %d, want %d, %d", tt.px, tt.py, tx, ty, tt.tx, tt.ty)
		}
	}
}

func TestSentinelErrors(t *testing.T) {
	if _, err := NewQuadTree(nil, 4, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty quadtree error = %v, want ErrInvalidArgument", err)
	}
	agg := NewMapAggregator(32, 32, true)
	if err := agg.RemoveMap(newFakeData(32, 32, 5, 5)); !errors.Is(err, ErrNotFound) {
		t.Errorf("remove absent map error = %v, want ErrNotFound", err)
	}
}
