package driftwood

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// TileAddress is a logical tile-grid coordinate: column, row, and layer.
// It is the unique key into tile and animation state.
type TileAddress struct {
	X, Y, Layer int
}

// TileImage is one tile produced by a batch query: its address, its GID
// (0 when the adapter has no GID concept for the cell), and its pixels.
type TileImage struct {
	X, Y, Layer int
	GID         int
	Image       *ebiten.Image
}

// AnimationFrameDef describes one frame of an animated tile as raw adapter
// data: the GID of the frame image and how long it is shown.
type AnimationFrameDef struct {
	GID        int
	DurationMS int
}

// AnimationDef describes one animated tile: the GID that appears in map
// data and the frame sequence it cycles through.
type AnimationDef struct {
	GID    int
	Frames []AnimationFrameDef
}

// DataAdapter supplies tile images, identifiers, and animation metadata to
// the renderer. Map loading and parsing live behind this interface; the
// renderer itself performs no I/O.
//
// Implementations in this package: MapAggregator combines several adapters
// with tile offsets, and ProceduralData generates a synthetic map. A real
// game typically wraps its own map format in this interface.
type DataAdapter interface {
	// TileSize returns the tile dimensions in pixels.
	TileSize() (w, h int)

	// MapSize returns the map dimensions in tiles.
	MapSize() (w, h int)

	// VisibleLayers returns the indices of visible tile layers in draw
	// order, bottom first.
	VisibleLayers() []int

	// TileImage returns the image for the tile at (x, y, layer), or nil
	// when there is nothing to draw there. Out-of-bounds coordinates
	// return nil; a missing tile is not an error.
	TileImage(x, y, layer int) *ebiten.Image

	// TileImagesInRect returns every non-empty tile inside view across all
	// visible layers, bottom layer first. Adapters that can batch this
	// lookup should; the renderer calls it for every buffer redraw.
	TileImagesInRect(view TileRect) []TileImage

	// TileGID returns the tile identifier at (x, y, layer). The second
	// return is false when the cell is empty or out of bounds.
	TileGID(x, y, layer int) (int, bool)

	// ImageByGID returns the image for a tile identifier, or nil when the
	// GID is unknown.
	ImageByGID(gid int) *ebiten.Image

	// Animations returns the animation metadata for the map. Called when
	// the animation scheduler (re)loads its tokens.
	Animations() []AnimationDef

	// Reload re-reads the underlying map data.
	Reload() error
}

// PixelToTile translates a world-pixel coordinate to a tile coordinate.
func PixelToTile(data DataAdapter, px, py float64) (int, int) {
	tw, th := data.TileSize()
	tx, _ := divmod(int(math.Floor(px)), tw)
	ty, _ := divmod(int(math.Floor(py)), th)
	return tx, ty
}

// OnMap reports whether the tile coordinate is within the map bounds.
func OnMap(data DataAdapter, x, y int) bool {
	mw, mh := data.MapSize()
	return x >= 0 && x < mw && y >= 0 && y < mh
}
