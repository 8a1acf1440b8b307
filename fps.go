package driftwood

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSOverlay is a small FPS/TPS readout for demos and debugging. The text
// refreshes every ~0.5 seconds.
type FPSOverlay struct {
	img  *ebiten.Image
	last float64
}

// NewFPSOverlay creates the overlay.
func NewFPSOverlay() *FPSOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSOverlay{img: ebiten.NewImage(100, 32), last: 1}
}

// Update advances the refresh timer.
func (f *FPSOverlay) Update(dt float64) {
	f.last += dt
	if f.last < 0.5 {
		return
	}
	f.last = 0

	f.img.Clear()
	// Semi-transparent background for readability
	f.img.Fill(color.RGBA{A: 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Draw blits the overlay at a screen position.
func (f *FPSOverlay) Draw(dst *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	dst.DrawImage(f.img, op)
}
