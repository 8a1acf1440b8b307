package driftwood

import (
	"fmt"
	"math"
)

// ViewChange describes how the tile-index window moved as the result of a
// Center or Scroll call.
type ViewChange struct {
	// Left and Top are the new tile-index coordinates of the tile view's
	// top-left corner.
	Left, Top int
	// DX and DY are the tile-index deltas since the previous call.
	DX, DY int
	// Change is max(|DX|, |DY|). The renderer compares it against the
	// redraw cutoff to choose between scroll-and-patch and full redraw.
	Change int
}

// Viewport is the camera/coordinate model for one projection. It translates
// a requested world-pixel center into a tile-index window plus sub-tile
// pixel offsets, honoring clamping and zoom, and reports how far the window
// moved. OrthoViewport and IsoViewport implement it; the renderer is
// projection-agnostic.
type Viewport interface {
	// SetSize sets the display size in pixels and returns the required
	// buffer pixel size. Must be called when the display size or zoom
	// changes; it re-anchors on the current view center.
	SetSize(w, h int) (bufW, bufH int)

	// Center centers the view on a world-pixel coordinate. Fractional
	// coordinates are rounded to the nearest pixel.
	Center(p Point) ViewChange

	// Scroll moves the view by a pixel vector. Equivalent to centering on
	// the current center plus the vector.
	Scroll(dx, dy float64) ViewChange

	// Zoom returns the current zoom ratio.
	Zoom() float64
	// SetZoom changes the zoom ratio and recomputes buffer geometry.
	// Values <= 0 are an error.
	SetZoom(v float64) error

	// Size returns the display size in pixels.
	Size() (w, h int)
	// TileView returns the tile-index rectangle covering the buffer.
	TileView() TileRect
	// Offsets returns the sub-tile pixel offsets aligning the tile view's
	// origin to the view rectangle.
	Offsets() (x, y int)
	// Anchored reports whether the buffer exactly covers the visible area.
	// When false the camera exposes background beyond the map edge and the
	// destination must be cleared before blitting.
	Anchored() bool
	// ViewRect returns the world-pixel rectangle currently visible.
	ViewRect() Rect
	// MapRect returns the map bounds in world pixels.
	MapRect() Rect

	// CenterOffset returns the translation that converts world coordinates
	// to view coordinates.
	CenterOffset() (x, y int)
	// TranslatePoint converts a world coordinate to screen coordinates.
	TranslatePoint(p Point) (int, int)
	// TranslateRect converts a world rect to screen coordinates and size.
	TranslateRect(r Rect) Rect
	// TranslatePoints converts a batch of points without recomputing the
	// center offset per element.
	TranslatePoints(ps []Point) []Point
	// TranslateRects converts a batch of rects without recomputing the
	// center offset per element.
	TranslateRects(rs []Rect) []Rect
}

// OrthoViewport is the orthogonal-projection Viewport.
//
// Its core trick is in Center: the tile-index origin is the floor division
// of the view's top-left corner by the tile size, and the sub-tile pixel
// offset is the remainder. The buffer stays tile-aligned while the camera
// moves with per-pixel precision.
type OrthoViewport struct {
	data DataAdapter

	// ClampCamera keeps the view rectangle inside the map bounds. When the
	// view is clamped the effective camera position silently differs from
	// the requested one near map edges.
	ClampCamera bool

	width, height int
	halfW, halfH  int
	zoom          float64
	xOffset       int
	yOffset       int
	realRatioX    float64
	realRatioY    float64
	anchored      bool

	mapRect  Rect
	viewRect Rect
	tileView TileRect
}

// NewOrthoViewport creates an orthogonal viewport for the given display
// size. A zoom <= 0 is an error.
func NewOrthoViewport(data DataAdapter, w, h int, zoom float64, clamp bool) (*OrthoViewport, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("viewport: %w: zoom level cannot be zero or less", ErrInvalidArgument)
	}
	v := &OrthoViewport{
		data:        data,
		ClampCamera: clamp,
		zoom:        zoom,
		anchored:    true,
		realRatioX:  1,
		realRatioY:  1,
	}
	v.SetSize(w, h)
	return v, nil
}

// logicalSize returns the unzoomed buffer pixel size for a display size.
func (v *OrthoViewport) logicalSize(w, h int) (int, int) {
	scale := 1.0 / v.zoom
	return int(float64(w) * scale), int(float64(h) * scale)
}

// SetSize implements Viewport.
func (v *OrthoViewport) SetSize(w, h int) (int, int) {
	vw, vh := v.logicalSize(w, h)
	v.width, v.height = w, h

	tw, th := v.data.TileSize()
	mw, mh := v.data.MapSize()

	// +1 margin tile per axis so sub-pixel scrolling never exposes
	// unrendered tiles.
	btw := int(math.Ceil(float64(vw)/float64(tw))) + 1
	bth := int(math.Ceil(float64(vh)/float64(th))) + 1

	v.applySize(vw, vh, btw, bth, tw, th, mw, mh)
	v.Center(v.viewRect.Center())
	return btw * tw, bth * th
}

// applySize installs the derived geometry shared by both projections.
func (v *OrthoViewport) applySize(vw, vh, btw, bth, tw, th, mw, mh int) {
	v.mapRect = Rect{Width: float64(mw * tw), Height: float64(mh * th)}
	v.viewRect.Width = float64(vw)
	v.viewRect.Height = float64(vh)
	v.tileView = TileRect{Width: btw, Height: bth}
	v.halfW, v.halfH = vw/2, vh/2

	v.realRatioX, v.realRatioY = 1, 1
	if vw != 0 {
		v.realRatioX = float64(v.width) / float64(vw)
	}
	if vh != 0 {
		v.realRatioY = float64(v.height) / float64(vh)
	}
}

// Center implements Viewport.
func (v *OrthoViewport) Center(p Point) ViewChange {
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y))
	tw, th := v.data.TileSize()
	mw, mh := v.data.MapSize()
	vw, vh := v.tileView.Width, v.tileView.Height

	v.viewRect = v.viewRect.CenteredAt(Point{X: float64(x), Y: float64(y)})

	if v.ClampCamera {
		v.anchored = true
		v.viewRect = v.viewRect.ClampTo(v.mapRect)
		c := v.viewRect.Center()
		x = int(math.Round(c.X))
		y = int(math.Round(c.Y))
	}

	newLeft, xOff := divmod(x-v.halfW, tw)
	newTop, yOff := divmod(y-v.halfH, th)
	v.xOffset, v.yOffset = xOff, yOff
	right := newLeft + vw
	bottom := newTop + vh

	if !v.ClampCamera {
		// Not anchored means the rendered map is offset by values larger
		// than the tile size: an edge of the map is inside the screen and
		// background shows beneath it.
		v.anchored = true
		dx := newLeft - v.tileView.X
		dy := newTop - v.tileView.Y

		if mw < vw || newLeft < 0 {
			newLeft = 0
			v.xOffset = x - v.halfW
			v.anchored = false
		} else if right > mw {
			newLeft = mw - vw
			v.xOffset += dx * tw
			v.anchored = false
		}

		if mh < vh || newTop < 0 {
			newTop = 0
			v.yOffset = y - v.halfH
			v.anchored = false
		} else if bottom > mh {
			newTop = mh - vh
			v.yOffset += dy * th
			v.anchored = false
		}
	}

	dx := newLeft - v.tileView.X
	dy := newTop - v.tileView.Y
	change := max(abs(dx), abs(dy))
	if change != 0 {
		v.tileView.X, v.tileView.Y = newLeft, newTop
	}
	return ViewChange{Left: newLeft, Top: newTop, DX: dx, DY: dy, Change: change}
}

// Scroll implements Viewport.
func (v *OrthoViewport) Scroll(dx, dy float64) ViewChange {
	c := v.viewRect.Center()
	return v.Center(Point{X: c.X + dx, Y: c.Y + dy})
}

// Zoom implements Viewport.
func (v *OrthoViewport) Zoom() float64 { return v.zoom }

// SetZoom implements Viewport.
func (v *OrthoViewport) SetZoom(value float64) error {
	if value <= 0 {
		return fmt.Errorf("viewport: %w: zoom level cannot be zero or less", ErrInvalidArgument)
	}
	v.zoom = value
	v.SetSize(v.width, v.height)
	return nil
}

// Size implements Viewport.
func (v *OrthoViewport) Size() (int, int) { return v.width, v.height }

// TileView implements Viewport.
func (v *OrthoViewport) TileView() TileRect { return v.tileView }

// Offsets implements Viewport.
func (v *OrthoViewport) Offsets() (int, int) { return v.xOffset, v.yOffset }

// Anchored implements Viewport.
func (v *OrthoViewport) Anchored() bool { return v.anchored }

// ViewRect implements Viewport.
func (v *OrthoViewport) ViewRect() Rect { return v.viewRect }

// MapRect implements Viewport.
func (v *OrthoViewport) MapRect() Rect { return v.mapRect }

// CenterOffset implements Viewport.
func (v *OrthoViewport) CenterOffset() (int, int) {
	c := v.viewRect.Center()
	return -int(math.Round(c.X)) + v.halfW, -int(math.Round(c.Y)) + v.halfH
}

// TranslatePoint implements Viewport.
func (v *OrthoViewport) TranslatePoint(p Point) (int, int) {
	mx, my := v.CenterOffset()
	if v.zoom == 1.0 {
		return int(p.X) + mx, int(p.Y) + my
	}
	return int(math.Round((p.X + float64(mx)) * v.realRatioX)),
		int(math.Round((p.Y + float64(my)) * v.realRatioY))
}

// TranslateRect implements Viewport.
func (v *OrthoViewport) TranslateRect(r Rect) Rect {
	mx, my := v.CenterOffset()
	if v.zoom == 1.0 {
		return Rect{X: r.X + float64(mx), Y: r.Y + float64(my), Width: r.Width, Height: r.Height}
	}
	rx, ry := v.realRatioX, v.realRatioY
	return Rect{
		X:      math.Round((r.X + float64(mx)) * rx),
		Y:      math.Round((r.Y + float64(my)) * ry),
		Width:  math.Round(r.Width * rx),
		Height: math.Round(r.Height * ry),
	}
}

// TranslatePoints implements Viewport.
func (v *OrthoViewport) TranslatePoints(ps []Point) []Point {
	out := make([]Point, 0, len(ps))
	mx, my := v.CenterOffset()
	sx, sy := float64(mx), float64(my)
	if v.zoom == 1.0 {
		for _, p := range ps {
			out = append(out, Point{X: float64(int(p.X)) + sx, Y: float64(int(p.Y)) + sy})
		}
		return out
	}
	rx, ry := v.realRatioX, v.realRatioY
	for _, p := range ps {
		out = append(out, Point{
			X: math.Round((p.X + sx) * rx),
			Y: math.Round((p.Y + sy) * ry),
		})
	}
	return out
}

// TranslateRects implements Viewport.
func (v *OrthoViewport) TranslateRects(rs []Rect) []Rect {
	out := make([]Rect, 0, len(rs))
	mx, my := v.CenterOffset()
	sx, sy := float64(mx), float64(my)
	if v.zoom == 1.0 {
		for _, r := range rs {
			out = append(out, Rect{X: r.X + sx, Y: r.Y + sy, Width: r.Width, Height: r.Height})
		}
		return out
	}
	rx, ry := v.realRatioX, v.realRatioY
	for _, r := range rs {
		out = append(out, Rect{
			X:      math.Round((r.X + sx) * rx),
			Y:      math.Round((r.Y + sy) * ry),
			Width:  math.Round(r.Width * rx),
			Height: math.Round(r.Height * ry),
		})
	}
	return out
}

// divmod is floor division with a non-negative remainder, matching the
// tile-alignment invariant for negative world coordinates.
func divmod(a, b int) (int, int) {
	q := a / b
	r := a % b
	if r < 0 {
		q--
		r += b
	}
	return q, r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
