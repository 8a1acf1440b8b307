package driftwood

import (
	"fmt"
	"math"
)

// IsoProject converts a 2D cartesian coordinate to isometric projection
// space.
func IsoProject(x, y int) (int, int) {
	return x - y, (x + y) >> 1
}

// IsoProject3 converts a 3D cartesian coordinate to isometric projection
// space. Positive z raises the projected point.
func IsoProject3(x, y, z int) (int, int) {
	return x - y, ((x + y) >> 1) - z
}

// IsoViewport is the isometric-projection Viewport. The tile view uses a
// doubled margin because the diamond projection spreads a tile row across
// twice its cartesian width, and the sub-tile offset runs through
// IsoProject before the half-buffer centering term is added.
//
// Camera clamping and the unanchored margin mechanism are not supported in
// this projection; the view is always treated as anchored.
type IsoViewport struct {
	OrthoViewport
}

// NewIsoViewport creates an isometric viewport for the given display size.
// A zoom <= 0 is an error.
func NewIsoViewport(data DataAdapter, w, h int, zoom float64) (*IsoViewport, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("viewport: %w: zoom level cannot be zero or less", ErrInvalidArgument)
	}
	v := &IsoViewport{OrthoViewport{
		data:       data,
		zoom:       zoom,
		anchored:   true,
		realRatioX: 1,
		realRatioY: 1,
	}}
	v.SetSize(w, h)
	return v, nil
}

// SetSize implements Viewport.
func (v *IsoViewport) SetSize(w, h int) (int, int) {
	vw, vh := v.logicalSize(w, h)
	v.width, v.height = w, h

	tw, th := v.data.TileSize()
	mw, mh := v.data.MapSize()

	btw := (int(math.Ceil(float64(vw)/float64(tw))) + 2) * 2
	bth := (int(math.Ceil(float64(vh)/float64(th))) + 2) * 2

	v.applySize(vw, vh, btw, bth, tw, th, mw, mh)
	v.xOffset, v.yOffset = 0, 0
	v.Center(v.viewRect.Center())
	return btw * tw, bth * th
}

// Center implements Viewport.
func (v *IsoViewport) Center(p Point) ViewChange {
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y))
	tw, th := v.data.TileSize()

	v.viewRect = v.viewRect.CenteredAt(Point{X: float64(x), Y: float64(y)})

	left, ox := divmod(x, tw)
	top, oy := divmod(y, th)

	isoX, isoY := IsoProject(ox/2, oy)

	// Center the buffer diamond on the screen.
	bufW := v.tileView.Width * tw
	bufH := v.tileView.Height * th
	v.xOffset = isoX + (bufW-int(v.viewRect.Width))/2
	v.yOffset = isoY + (bufH-int(v.viewRect.Height))/4

	dx := left - v.tileView.X
	dy := top - v.tileView.Y
	change := max(abs(dx), abs(dy))
	if change != 0 {
		v.tileView.X, v.tileView.Y = left, top
	}
	return ViewChange{Left: left, Top: top, DX: dx, DY: dy, Change: change}
}

// Scroll implements Viewport.
func (v *IsoViewport) Scroll(dx, dy float64) ViewChange {
	c := v.viewRect.Center()
	return v.Center(Point{X: c.X + dx, Y: c.Y + dy})
}

// SetZoom implements Viewport.
func (v *IsoViewport) SetZoom(value float64) error {
	if value <= 0 {
		return fmt.Errorf("viewport: %w: zoom level cannot be zero or less", ErrInvalidArgument)
	}
	v.zoom = value
	v.SetSize(v.width, v.height)
	return nil
}
