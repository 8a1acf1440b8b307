package driftwood

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// blitOp is one entry in the per-frame draw list. Priority 0 is tiles,
// priority 1 is renderables, so tiles sort before sprites at equal layer.
type blitOp struct {
	layer    int
	priority int
	x, y     float64
	order    int
	image    *ebiten.Image
	blend    BlendMode
}

type blitList []blitOp

func (b blitList) sort() {
	sort.Slice(b, func(i, j int) bool {
		p, q := b[i], b[j]
		if p.layer != q.layer {
			return p.layer < q.layer
		}
		if p.priority != q.priority {
			return p.priority < q.priority
		}
		if p.x != q.x {
			return p.x < q.x
		}
		if p.y != q.y {
			return p.y < q.y
		}
		return p.order < q.order
	})
}

func (b blitList) blit(dst *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	for _, e := range b {
		op.GeoM.Reset()
		op.GeoM.Translate(e.x, e.y)
		op.Blend = e.blend.EbitenBlend()
		dst.DrawImage(e.image, op)
	}
}

// damageKey records one buffer-tile cell touched by a renderable on a
// given layer. A set keyed by value collapses repeat damage to a cell.
type damageKey struct {
	layer int
	cell  Rect
}

// drawRenderables interleaves foreground renderables with the tile layers.
//
// A renderable at or below the top tile layer damages every buffer-tile
// cell it overlaps. For each damaged cell the full layer column is
// re-fetched; if any layer in the column is at or above the damaging
// renderable's layer the whole column joins the draw list so those tiles
// paint over the sprite. Columns entirely below the sprite are discarded.
// Everything is then sorted once and blitted in order.
//
// offset converts screen coordinates to buffer-local coordinates.
func (r *Renderer) drawRenderables(dst *ebiten.Image, offset Point, renderables []Renderable) {
	ox, oy := offset.X, offset.Y
	view := r.view.TileView()
	tw, th := r.data.TileSize()

	layers := append([]int(nil), r.data.VisibleLayers()...)
	sort.Ints(layers)
	if len(layers) == 0 {
		return
	}
	topLayer := layers[len(layers)-1]

	var list blitList
	damage := make(map[damageKey]struct{})
	order := 0

	for _, rbl := range renderables {
		if rbl.Layer <= topLayer {
			damageRect := rbl.Rect.Move(ox, oy)
			if h := float64(r.spriteDamageHeight); h > 0 && damageRect.Height > h {
				damageRect = Rect{
					X:      damageRect.X,
					Y:      damageRect.Y + damageRect.Height - h,
					Width:  damageRect.Width,
					Height: h,
				}
			}
			for cell := range r.quadtree.Hit(damageRect) {
				damage[damageKey{layer: rbl.Layer, cell: cell}] = struct{}{}
			}
		}

		if rbl.Image != nil {
			list = append(list, blitOp{
				layer:    rbl.Layer,
				priority: 1,
				x:        rbl.Rect.X,
				y:        rbl.Rect.Y,
				order:    order,
				image:    rbl.Image,
				blend:    rbl.Blend,
			})
			order++
		}
	}

	var column blitList
	for key := range damage {
		tx := int(key.cell.X)/tw + view.X
		ty := int(key.cell.Y)/th + view.Y
		sx := key.cell.X - ox
		sy := key.cell.Y - oy

		isOver := false
		column = column[:0]
		for _, l := range layers {
			img := r.data.TileImage(tx, ty, l)
			if gid, ok := r.data.TileGID(tx, ty, l); ok && gid != 0 {
				if frame, ok := r.scheduler.Resolve(TileAddress{X: tx, Y: ty, Layer: l}, gid); ok {
					img = frame
				}
			}
			if img == nil {
				continue
			}
			if key.layer <= l {
				isOver = true
			}
			column = append(column, blitOp{layer: l, x: sx, y: sy, order: order, image: img})
			order++
		}
		if isOver {
			list = append(list, column...)
		}
	}

	list.sort()
	list.blit(dst)
}

// drawRenderablesIso draws renderables sorted strictly by screen-space
// depth with insertion order as tie-break. The damage mechanism does not
// apply in the diamond projection.
func (r *Renderer) drawRenderablesIso(dst *ebiten.Image, offset Point, renderables []Renderable) {
	var list blitList
	order := 0
	for _, rbl := range renderables {
		if rbl.Image == nil {
			continue
		}
		sx := rbl.Rect.X - offset.X
		sy := rbl.Rect.Y - offset.Y
		list = append(list, blitOp{
			layer: int(sy),
			x:     sx,
			y:     sy,
			order: order,
			image: rbl.Image,
			blend: rbl.Blend,
		})
		order++
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].layer != list[j].layer {
			return list[i].layer < list[j].layer
		}
		return list[i].order < list[j].order
	})
	list.blit(dst)
}
