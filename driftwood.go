package driftwood

import (
	"errors"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Error classes. Every failing operation wraps one of these so callers can
// test with errors.Is.
var (
	// ErrInvalidArgument is returned when a caller supplies a value the
	// operation cannot accept: zoom <= 0, an empty quadtree item set, an
	// animation speed multiplier <= 0, a token with zero frames, or two
	// mutually exclusive buffer transparency modes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when an operation references something that
	// was never registered, such as removing an unknown map from an
	// aggregator.
	ErrNotFound = errors.New("not found")
)

// Point is a world-pixel coordinate.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Rect is a value type and is
// comparable, so it can be used as a map key.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Overlaps reports whether r and other share interior area. Unlike
// Intersects, rectangles that only touch at an edge or corner do not
// overlap. The spatial index uses this predicate for hit testing.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlapping region of r and other. The result is
// empty when the rectangles do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.X+r.Width, other.X+other.Width)
	y1 := math.Min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.Width, other.X+other.Width)
	y1 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Move returns r translated by (dx, dy).
func (r Rect) Move(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// CenteredAt returns r repositioned so its center is at p.
func (r Rect) CenteredAt(p Point) Rect {
	return Rect{X: p.X - r.Width/2, Y: p.Y - r.Height/2, Width: r.Width, Height: r.Height}
}

// ClampTo returns r moved so it lies inside bounds. If r is larger than
// bounds on an axis, it is centered on that axis instead.
func (r Rect) ClampTo(bounds Rect) Rect {
	out := r
	if r.Width >= bounds.Width {
		out.X = bounds.X + (bounds.Width-r.Width)/2
	} else if r.X < bounds.X {
		out.X = bounds.X
	} else if r.X+r.Width > bounds.X+bounds.Width {
		out.X = bounds.X + bounds.Width - r.Width
	}
	if r.Height >= bounds.Height {
		out.Y = bounds.Y + (bounds.Height-r.Height)/2
	} else if r.Y < bounds.Y {
		out.Y = bounds.Y
	} else if r.Y+r.Height > bounds.Y+bounds.Height {
		out.Y = bounds.Y + bounds.Height - r.Height
	}
	return out
}

// TileRect is an axis-aligned rectangle in tile-index space. Width and
// Height count tiles; the covered range is [X, X+Width) x [Y, Y+Height).
type TileRect struct {
	X, Y, Width, Height int
}

// Right returns the exclusive right edge in tile indices.
func (t TileRect) Right() int { return t.X + t.Width }

// Bottom returns the exclusive bottom edge in tile indices.
func (t TileRect) Bottom() int { return t.Y + t.Height }

// ContainsTile reports whether the tile index (x, y) lies inside the rect.
func (t TileRect) ContainsTile(x, y int) bool {
	return x >= t.X && x < t.X+t.Width && y >= t.Y && y < t.Y+t.Height
}

// Move returns t translated by (dx, dy) tile indices.
func (t TileRect) Move(dx, dy int) TileRect {
	return TileRect{X: t.X + dx, Y: t.Y + dy, Width: t.Width, Height: t.Height}
}

// BlendMode selects a compositing operation for a Renderable. Each maps to a
// specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// Renderable is a foreground object composited over the tile buffer for a
// single frame. The renderer never stores a Renderable beyond one Draw call.
type Renderable struct {
	// Rect is the screen-space rectangle where the object is drawn.
	Rect Rect
	// Layer is the logical tile layer used for depth sorting against tiles.
	Layer int
	// Image is the pixels to draw. A nil Image contributes to damage
	// calculations but produces no blit.
	Image *ebiten.Image
	// Blend selects the compositing operation. The zero value is normal
	// alpha blending.
	Blend BlendMode
}
