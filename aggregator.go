package driftwood

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

type aggregatedMap struct {
	data DataAdapter
	// rect is the child map's placement in world tile coordinates.
	rect TileRect
	// zShift offsets the child's layer indices in the aggregate.
	zShift int
}

// MapAggregator combines multiple data adapters into one world, each child
// placed at a tile offset and a layer shift. All children must share one
// tile size. With normalization enabled, maps added at negative offsets
// shift the whole world so the top-left stays at (0, 0).
type MapAggregator struct {
	tileW, tileH int
	normalize    bool
	mapW, mapH   int
	maps         []aggregatedMap
	minX, minY   int
}

// NewMapAggregator creates an empty aggregator for the given tile size.
func NewMapAggregator(tileW, tileH int, normalize bool) *MapAggregator {
	return &MapAggregator{tileW: tileW, tileH: tileH, normalize: normalize}
}

// TileSize implements DataAdapter.
func (a *MapAggregator) TileSize() (int, int) { return a.tileW, a.tileH }

// MapSize implements DataAdapter. The aggregate size spans from (0, 0) to
// the furthest child edge.
func (a *MapAggregator) MapSize() (int, int) { return a.mapW, a.mapH }

// Len returns the number of aggregated maps.
func (a *MapAggregator) Len() int { return len(a.maps) }

// VisibleLayers implements DataAdapter: the sorted union of every child's
// layers shifted by its z offset.
func (a *MapAggregator) VisibleLayers() []int {
	seen := make(map[int]struct{})
	for _, m := range a.maps {
		for _, l := range m.data.VisibleLayers() {
			seen[l+m.zShift] = struct{}{}
		}
	}
	layers := make([]int, 0, len(seen))
	for l := range seen {
		layers = append(layers, l)
	}
	sort.Ints(layers)
	return layers
}

// AddMap places a child map at a world tile offset with a layer shift.
// A child with a different tile size is an error.
func (a *MapAggregator) AddMap(data DataAdapter, offsetX, offsetY, layer int) error {
	tw, th := data.TileSize()
	if tw != a.tileW || th != a.tileH {
		return fmt.Errorf("aggregator: %w: tile sizes must be the same for all maps", ErrInvalidArgument)
	}

	mw, mh := data.MapSize()
	a.maps = append(a.maps, aggregatedMap{
		data:   data,
		rect:   TileRect{X: offsetX, Y: offsetY, Width: mw, Height: mh},
		zShift: layer,
	})

	if a.normalize {
		a.minX = min(a.minX, offsetX)
		a.minY = min(a.minY, offsetY)
		a.normalizePositions()
	}
	a.updateMapSize()
	return nil
}

// RemoveMap removes a previously added child map. Removing a map that is
// not aggregated is an error.
func (a *MapAggregator) RemoveMap(data DataAdapter) error {
	kept := a.maps[:0]
	for _, m := range a.maps {
		if m.data != data {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(a.maps) {
		return fmt.Errorf("aggregator: %w: map is not in the aggregator", ErrNotFound)
	}
	a.maps = kept

	if a.normalize {
		a.renormalizePositions()
	} else {
		a.updateMapSize()
	}
	return nil
}

// normalizePositions shifts all maps so the world top-left is (0, 0).
func (a *MapAggregator) normalizePositions() {
	if a.minX >= 0 && a.minY >= 0 {
		return
	}
	shiftX, shiftY := -a.minX, -a.minY
	for i := range a.maps {
		a.maps[i].rect = a.maps[i].rect.Move(shiftX, shiftY)
	}
	a.minX, a.minY = 0, 0
}

func (a *MapAggregator) renormalizePositions() {
	if len(a.maps) == 0 {
		a.minX, a.minY = 0, 0
		a.mapW, a.mapH = 0, 0
		return
	}
	a.minX, a.minY = a.maps[0].rect.X, a.maps[0].rect.Y
	for _, m := range a.maps[1:] {
		a.minX = min(a.minX, m.rect.X)
		a.minY = min(a.minY, m.rect.Y)
	}
	a.normalizePositions()
	a.updateMapSize()
}

func (a *MapAggregator) updateMapSize() {
	mx, my := 0, 0
	for _, m := range a.maps {
		mx = max(mx, m.rect.Right())
		my = max(my, m.rect.Bottom())
	}
	a.mapW, a.mapH = mx, my
}

// WorldToLocal resolves a world tile coordinate and layer to the owning
// child map and its local coordinates.
func (a *MapAggregator) WorldToLocal(x, y, layer int) (DataAdapter, int, int, int, bool) {
	for _, m := range a.maps {
		if !m.rect.ContainsTile(x, y) {
			continue
		}
		lx := x - m.rect.X
		ly := y - m.rect.Y
		ll := layer - m.zShift
		for _, vl := range m.data.VisibleLayers() {
			if vl == ll {
				return m.data, lx, ly, ll, true
			}
		}
	}
	return nil, 0, 0, 0, false
}

// TileImage implements DataAdapter.
func (a *MapAggregator) TileImage(x, y, layer int) *ebiten.Image {
	data, lx, ly, ll, ok := a.WorldToLocal(x, y, layer)
	if !ok {
		return nil
	}
	return data.TileImage(lx, ly, ll)
}

// TileImagesInRect implements DataAdapter. Children are visited in z
// order, each clipped to its own placement.
func (a *MapAggregator) TileImagesInRect(view TileRect) []TileImage {
	sorted := append([]aggregatedMap(nil), a.maps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].zShift < sorted[j].zShift })

	var out []TileImage
	for _, m := range sorted {
		left := max(view.X, m.rect.X)
		top := max(view.Y, m.rect.Y)
		right := min(view.Right(), m.rect.Right())
		bottom := min(view.Bottom(), m.rect.Bottom())
		if right <= left || bottom <= top {
			continue
		}
		local := TileRect{
			X:      left - m.rect.X,
			Y:      top - m.rect.Y,
			Width:  right - left,
			Height: bottom - top,
		}
		for _, t := range m.data.TileImagesInRect(local) {
			t.X += m.rect.X
			t.Y += m.rect.Y
			t.Layer += m.zShift
			out = append(out, t)
		}
	}
	return out
}

// TileGID implements DataAdapter.
func (a *MapAggregator) TileGID(x, y, layer int) (int, bool) {
	data, lx, ly, ll, ok := a.WorldToLocal(x, y, layer)
	if !ok {
		return 0, false
	}
	return data.TileGID(lx, ly, ll)
}

// ImageByGID implements DataAdapter: first child match wins.
func (a *MapAggregator) ImageByGID(gid int) *ebiten.Image {
	for _, m := range a.maps {
		if img := m.data.ImageByGID(gid); img != nil {
			return img
		}
	}
	return nil
}

// Animations implements DataAdapter, aggregating every child's animations.
func (a *MapAggregator) Animations() []AnimationDef {
	var out []AnimationDef
	for _, m := range a.maps {
		out = append(out, m.data.Animations()...)
	}
	return out
}

// Reload implements DataAdapter, reloading every child.
func (a *MapAggregator) Reload() error {
	for _, m := range a.maps {
		if err := m.data.Reload(); err != nil {
			return err
		}
	}
	return nil
}
