package driftwood

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// RendererConfig configures a Renderer. The zero value is usable: clamped
// camera off, no clear color, opaque buffer, wall-clock time, default
// scaler and zoom 1.
type RendererConfig struct {
	// ClampCamera restricts the camera from scrolling beyond map bounds.
	ClampCamera bool

	// ClearColor fills the buffer background and any exposed margin.
	// Mutually exclusive with Alpha.
	ClearColor color.Color

	// Alpha keeps the buffer fully transparent where no tile is drawn, for
	// compositing the map over other content. Mutually exclusive with
	// ClearColor.
	Alpha bool

	// TimeSource drives tile animations. Defaults to WallClock.
	TimeSource TimeSource

	// Scaler renders the zoom buffer onto the destination when zoom != 1.
	// Defaults to FilterScaler with linear filtering.
	Scaler Scaler

	// Zoom is the initial zoom ratio. 0 means 1.
	Zoom float64

	// SpriteDamageHeight limits tile damage to the bottom N pixels of each
	// renderable. Tall sprites whose upper body should never drag tile
	// columns over them set this to roughly one tile height. 0 damages the
	// full rectangle.
	SpriteDamageHeight int

	// Isometric selects the diamond projection. Isometric buffers always
	// fully redraw and ignore ClampCamera.
	Isometric bool
}

// Renderer maintains an off-screen tile buffer and produces correctly
// layered frame output. It scrolls by shifting previously rendered pixels
// and repainting only newly exposed edge strips, falling back to a full
// redraw when the view jumps too far.
//
// All methods are call-synchronous and must run on one goroutine.
type Renderer struct {
	data      DataAdapter
	view      Viewport
	scheduler *Scheduler

	// buffer and back form a ping-pong pair: scrolling copies the front
	// buffer shifted into the back buffer and swaps them.
	buffer *ebiten.Image
	back   *ebiten.Image
	bufW   int
	bufH   int

	zoomBuffer *ebiten.Image
	scaler     Scaler

	// quadtree spans the buffer-local tile cells. Geometry depends only on
	// the footprint size, so it is rebuilt when that changes, not on every
	// scroll.
	quadtree     *QuadTree
	footprintW   int
	footprintH   int
	redrawCutoff int

	clearColor color.Color
	alpha      bool

	spriteDamageHeight int
	isometric          bool

	// previousBlit is the destination area covered by the last map blit.
	// When the view is unanchored it is cleared before the next blit so the
	// exposed margin does not smear.
	previousBlit Rect
}

// NewRenderer creates a renderer for the given display size in pixels.
func NewRenderer(data DataAdapter, w, h int, cfg RendererConfig) (*Renderer, error) {
	if cfg.ClearColor != nil && cfg.Alpha {
		return nil, fmt.Errorf("renderer: %w: cannot select both clear color and alpha", ErrInvalidArgument)
	}
	clock := cfg.TimeSource
	if clock == nil {
		clock = WallClock
	}
	scaler := cfg.Scaler
	if scaler == nil {
		scaler = FilterScaler{Filter: ebiten.FilterLinear}
	}
	zoom := cfg.Zoom
	if zoom == 0 {
		zoom = 1
	}

	r := &Renderer{
		data:               data,
		scheduler:          NewScheduler(clock),
		scaler:             scaler,
		clearColor:         cfg.ClearColor,
		alpha:              cfg.Alpha,
		spriteDamageHeight: cfg.SpriteDamageHeight,
		isometric:          cfg.Isometric,
	}

	var err error
	if cfg.Isometric {
		r.redrawCutoff = 0
		r.view, err = NewIsoViewport(data, w, h, zoom)
	} else {
		r.redrawCutoff = 1
		r.view, err = NewOrthoViewport(data, w, h, zoom, cfg.ClampCamera)
	}
	if err != nil {
		return nil, err
	}

	r.scheduler.Reload(data)
	r.SetSize(w, h)
	return r, nil
}

// View returns the underlying viewport for direct coordinate queries.
func (r *Renderer) View() Viewport { return r.view }

// SetSize sets the display size in pixels and rebuilds the buffers. This is
// an expensive operation, do only when needed.
func (r *Renderer) SetSize(w, h int) {
	bw, bh := r.view.SetSize(w, h)
	r.createBuffers(bw, bh)
	r.previousBlit = Rect{Width: float64(w), Height: float64(h)}

	view := r.view.TileView()
	if view.Width != r.footprintW || view.Height != r.footprintH {
		r.footprintW, r.footprintH = view.Width, view.Height
		if !r.isometric {
			r.rebuildQuadtree()
		}
	}
	r.RedrawTiles()
}

func (r *Renderer) createBuffers(bw, bh int) {
	r.bufW, r.bufH = bw, bh
	r.buffer = ebiten.NewImage(bw, bh)
	r.back = ebiten.NewImage(bw, bh)
	if r.clearColor != nil {
		r.buffer.Fill(r.clearColor)
	}

	r.zoomBuffer = nil
	vw, vh := r.view.Size()
	vr := r.view.ViewRect()
	lw, lh := int(vr.Width), int(vr.Height)
	if lw != vw || lh != vh {
		r.zoomBuffer = ebiten.NewImage(lw, lh)
	}
}

// rebuildQuadtree spans one rect per buffer-local tile cell.
func (r *Renderer) rebuildQuadtree() {
	tw, th := r.data.TileSize()
	fw, fh := float64(tw), float64(th)
	rects := make([]Rect, 0, r.footprintW*r.footprintH)
	for y := 0; y < r.footprintH; y++ {
		for x := 0; x < r.footprintW; x++ {
			rects = append(rects, Rect{X: float64(x) * fw, Y: float64(y) * fh, Width: fw, Height: fh})
		}
	}
	r.quadtree, _ = NewQuadTree(rects, DefaultQuadTreeDepth, nil)
}

// Zoom returns the current zoom ratio.
func (r *Renderer) Zoom() float64 { return r.view.Zoom() }

// SetZoom changes the zoom ratio and rebuilds the buffers. Values <= 0 are
// an error.
func (r *Renderer) SetZoom(value float64) error {
	if err := r.view.SetZoom(value); err != nil {
		return err
	}
	w, h := r.view.Size()
	r.SetSize(w, h)
	return nil
}

// Center centers the map on a world pixel. Fractional coordinates are
// rounded.
func (r *Renderer) Center(p Point) {
	r.handleViewChange(r.view.Center(p))
}

// Scroll moves the map by a pixel vector.
func (r *Renderer) Scroll(dx, dy float64) {
	r.handleViewChange(r.view.Scroll(dx, dy))
}

// handleViewChange patches or rebuilds the buffer after the tile view
// moved.
func (r *Renderer) handleViewChange(c ViewChange) {
	if c.Change == 0 {
		return
	}
	if c.Change <= r.redrawCutoff {
		tw, th := r.data.TileSize()
		r.scrollBuffer(-c.DX*tw, -c.DY*th)
		r.drawEdgeTiles(c.DX, c.DY)
	} else {
		r.RedrawTiles()
	}
}

// scrollBuffer shifts the buffer content by a pixel vector, reusing the
// previously rendered pixels. The shifted copy lands in the back buffer and
// the pair is swapped.
func (r *Renderer) scrollBuffer(px, py int) {
	r.back.Clear()
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendCopy
	op.GeoM.Translate(float64(px), float64(py))
	r.back.DrawImage(r.buffer, op)
	r.buffer, r.back = r.back, r.buffer
}

// drawEdgeTiles repaints the strips exposed by an incremental scroll. Both
// axes patch independently, so a diagonal move repaints two strips; the
// shared corner is painted twice, which is harmless.
func (r *Renderer) drawEdgeTiles(dx, dy int) {
	v := r.view.TileView()
	if dx > 0 {
		r.drawStrip(TileRect{X: v.Right() - dx, Y: v.Y, Width: dx, Height: v.Height})
	} else if dx < 0 {
		r.drawStrip(TileRect{X: v.X, Y: v.Y, Width: -dx, Height: v.Height})
	}
	if dy > 0 {
		r.drawStrip(TileRect{X: v.X, Y: v.Bottom() - dy, Width: v.Width, Height: dy})
	} else if dy < 0 {
		r.drawStrip(TileRect{X: v.X, Y: v.Y, Width: v.Width, Height: -dy})
	}
}

// drawStrip clears and repaints one tile-aligned region of the buffer.
func (r *Renderer) drawStrip(strip TileRect) {
	v := r.view.TileView()
	tw, th := r.data.TileSize()
	area := image.Rect(
		(strip.X-v.X)*tw,
		(strip.Y-v.Y)*th,
		(strip.X-v.X+strip.Width)*tw,
		(strip.Y-v.Y+strip.Height)*th,
	)
	r.clearBufferArea(area)
	r.drawTilesInRect(strip)
}

func (r *Renderer) clearBufferArea(area image.Rectangle) {
	target := r.buffer.SubImage(area).(*ebiten.Image)
	if r.clearColor != nil {
		target.Fill(r.clearColor)
	} else if r.alpha {
		target.Clear()
	} else {
		target.Fill(color.Black)
	}
}

// drawTilesInRect fetches and blits every tile in a tile-index region,
// substituting the current animation frame where a cell is animated. The
// fetch also registers animated cells with the scheduler so future frame
// changes patch them.
func (r *Renderer) drawTilesInRect(region TileRect) {
	view := r.view.TileView()
	op := &ebiten.DrawImageOptions{}
	for _, t := range r.data.TileImagesInRect(region) {
		img := t.Image
		if frame, ok := r.scheduler.Resolve(TileAddress{X: t.X, Y: t.Y, Layer: t.Layer}, t.GID); ok {
			img = frame
		}
		if img == nil {
			continue
		}
		x, y := r.tilePosition(view, t.X, t.Y)
		op.GeoM.Reset()
		op.GeoM.Translate(x, y)
		r.buffer.DrawImage(img, op)
	}
}

// tilePosition projects a tile-index coordinate to buffer-local pixels.
func (r *Renderer) tilePosition(view TileRect, x, y int) (float64, float64) {
	tw, th := r.data.TileSize()
	lx, ly := x-view.X, y-view.Y
	if r.isometric {
		ix := (lx-ly)*(tw/2) + r.bufW/2
		iy := (lx + ly) * (th / 2)
		return float64(ix), float64(iy)
	}
	return float64(lx * tw), float64(ly * th)
}

// RedrawTiles rebuilds the entire buffer. It is slow and avoided on the
// per-frame path.
func (r *Renderer) RedrawTiles() {
	switch {
	case r.clearColor != nil:
		r.buffer.Fill(r.clearColor)
	case r.alpha:
		r.buffer.Clear()
	default:
		r.buffer.Fill(color.Black)
	}
	r.drawTilesInRect(r.view.TileView())
}

// Reload asks the data adapter to reload tile data and animation metadata,
// then rebuilds the buffer.
func (r *Renderer) Reload() error {
	if err := r.data.Reload(); err != nil {
		return err
	}
	r.scheduler.Reload(r.data)
	r.RedrawTiles()
	return nil
}

// processAnimations advances due animation tokens and patches the changed
// tile columns into the buffer.
func (r *Renderer) processAnimations() {
	if !r.scheduler.HasTokens() {
		return
	}
	updates := r.scheduler.Process(r.view.TileView(), r.data.VisibleLayers(), r.data.TileImage)
	if len(updates) == 0 {
		return
	}
	view := r.view.TileView()
	op := &ebiten.DrawImageOptions{}
	for _, t := range updates {
		if t.Image == nil {
			continue
		}
		x, y := r.tilePosition(view, t.X, t.Y)
		op.GeoM.Reset()
		op.GeoM.Translate(x, y)
		r.buffer.DrawImage(t.Image, op)
	}
}

// Draw renders the visible map region into dst, interleaving the given
// renderables with the tile layers, and returns the updated destination
// area. Renderables with a nil Image contribute damage only. When the
// logical size differs from the display size the frame is composed into
// the zoom buffer and scaled onto dst by the configured Scaler; a zoom
// whose logical size truncates back to the display size draws direct.
func (r *Renderer) Draw(dst *ebiten.Image, clip Rect, renderables []Renderable) Rect {
	if r.zoomBuffer == nil {
		r.renderMap(dst, clip, renderables)
	} else {
		zb := r.zoomBuffer
		b := zb.Bounds()
		r.renderMap(zb, Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}, renderables)
		r.scaler.Scale(dst, clip, zb)
	}
	return r.previousBlit
}

func (r *Renderer) renderMap(dst *ebiten.Image, clip Rect, renderables []Renderable) {
	r.processAnimations()

	if !r.view.Anchored() && !r.previousBlit.IsEmpty() {
		area := image.Rect(
			int(r.previousBlit.X), int(r.previousBlit.Y),
			int(r.previousBlit.X+r.previousBlit.Width), int(r.previousBlit.Y+r.previousBlit.Height),
		)
		target := dst.SubImage(area).(*ebiten.Image)
		if r.clearColor != nil {
			target.Fill(r.clearColor)
		} else if r.alpha {
			target.Clear()
		} else {
			target.Fill(color.Black)
		}
	}

	ox, oy := r.view.Offsets()
	offX := -float64(ox) + clip.X
	offY := -float64(oy) + clip.Y

	target := dst.SubImage(image.Rect(
		int(clip.X), int(clip.Y),
		int(clip.X+clip.Width), int(clip.Y+clip.Height),
	)).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(offX, offY)
	target.DrawImage(r.buffer, op)
	r.previousBlit = Rect{X: offX, Y: offY, Width: float64(r.bufW), Height: float64(r.bufH)}.Intersect(clip)

	if len(renderables) > 0 {
		if r.isometric {
			r.drawRenderablesIso(target, Point{X: -offX, Y: -offY}, renderables)
		} else {
			r.drawRenderables(target, Point{X: -offX, Y: -offY}, renderables)
		}
	}
}

// TranslatePoint converts a world coordinate to screen coordinates.
func (r *Renderer) TranslatePoint(p Point) (int, int) { return r.view.TranslatePoint(p) }

// TranslateRect converts a world rect to screen coordinates and size.
func (r *Renderer) TranslateRect(rect Rect) Rect { return r.view.TranslateRect(rect) }

// TranslatePoints converts a batch of world coordinates.
func (r *Renderer) TranslatePoints(ps []Point) []Point { return r.view.TranslatePoints(ps) }

// TranslateRects converts a batch of world rects.
func (r *Renderer) TranslateRects(rs []Rect) []Rect { return r.view.TranslateRects(rs) }

// PauseAnimations stops the animation clock.
func (r *Renderer) PauseAnimations() { r.scheduler.Pause() }

// ResumeAnimations restarts the animation clock in the given mode.
func (r *Renderer) ResumeAnimations(mode ResumeMode) { r.scheduler.Resume(mode) }

// SetAnimationSpeedMultiplier scales all animation durations. Values <= 0
// are an error.
func (r *Renderer) SetAnimationSpeedMultiplier(m float64) error {
	return r.scheduler.SetSpeedMultiplier(m)
}
