package driftwood

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	proceduralTileSize  = 32
	proceduralMapWidth  = 40
	proceduralMapHeight = 30
	proceduralLayers    = 3

	gidGrass    = 1
	gidWater    = 2
	gidRock     = 3
	gidAltWater = 999
)

// ProceduralData is a DataAdapter that generates a simple map on the fly:
// a grass/water checkerboard ground layer, scattered rocks on the detail
// layer, and an animated water tile alternating between two colors. Used
// for testing and demos; no assets required.
type ProceduralData struct {
	tiles map[int]*ebiten.Image
}

// NewProceduralData creates the adapter and its tile images.
func NewProceduralData() *ProceduralData {
	fill := func(c color.RGBA) *ebiten.Image {
		img := ebiten.NewImage(proceduralTileSize, proceduralTileSize)
		img.Fill(c)
		return img
	}
	return &ProceduralData{tiles: map[int]*ebiten.Image{
		gidGrass:    fill(color.RGBA{R: 0x79, G: 0x9a, B: 0x46, A: 0xff}),
		gidWater:    fill(color.RGBA{R: 0x4a, G: 0x82, B: 0xa6, A: 0xff}),
		gidRock:     fill(color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}),
		gidAltWater: fill(color.RGBA{R: 0x62, G: 0xa2, B: 0xcc, A: 0xff}),
	}}
}

// TileSize implements DataAdapter.
func (p *ProceduralData) TileSize() (int, int) { return proceduralTileSize, proceduralTileSize }

// MapSize implements DataAdapter.
func (p *ProceduralData) MapSize() (int, int) { return proceduralMapWidth, proceduralMapHeight }

// VisibleLayers implements DataAdapter: ground, detail, overlay.
func (p *ProceduralData) VisibleLayers() []int {
	layers := make([]int, proceduralLayers)
	for i := range layers {
		layers[i] = i
	}
	return layers
}

// TileGID implements DataAdapter.
func (p *ProceduralData) TileGID(x, y, layer int) (int, bool) {
	if !OnMap(p, x, y) {
		return 0, false
	}
	switch layer {
	case 0:
		if (x+y)%2 == 0 {
			return gidGrass, true
		}
		return gidWater, true
	case 1:
		if x%5 == 0 && y%5 == 0 {
			return gidRock, true
		}
	}
	return 0, false
}

// TileImage implements DataAdapter.
func (p *ProceduralData) TileImage(x, y, layer int) *ebiten.Image {
	gid, ok := p.TileGID(x, y, layer)
	if !ok {
		return nil
	}
	return p.tiles[gid]
}

// TileImagesInRect implements DataAdapter.
func (p *ProceduralData) TileImagesInRect(view TileRect) []TileImage {
	var out []TileImage
	for y := view.Y; y < view.Bottom(); y++ {
		for x := view.X; x < view.Right(); x++ {
			for layer := 0; layer < proceduralLayers; layer++ {
				gid, ok := p.TileGID(x, y, layer)
				if !ok {
					continue
				}
				out = append(out, TileImage{X: x, Y: y, Layer: layer, GID: gid, Image: p.tiles[gid]})
			}
		}
	}
	return out
}

// ImageByGID implements DataAdapter.
func (p *ProceduralData) ImageByGID(gid int) *ebiten.Image { return p.tiles[gid] }

// Animations implements DataAdapter: water alternates between two colors.
func (p *ProceduralData) Animations() []AnimationDef {
	return []AnimationDef{{
		GID: gidWater,
		Frames: []AnimationFrameDef{
			{GID: gidWater, DurationMS: 500},
			{GID: gidAltWater, DurationMS: 500},
		},
	}}
}

// Reload implements DataAdapter. There is no external data to reload.
func (p *ProceduralData) Reload() error { return nil }
