package driftwood

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// Scaler renders the logical-size zoom buffer onto a destination area when
// zoom is not 1.
type Scaler interface {
	Scale(dst *ebiten.Image, dstRect Rect, src *ebiten.Image)
}

// FilterScaler scales on the GPU with an ebiten texture filter. This is the
// default and the right choice for per-frame use.
type FilterScaler struct {
	Filter ebiten.Filter
}

// Scale implements Scaler.
func (s FilterScaler) Scale(dst *ebiten.Image, dstRect Rect, src *ebiten.Image) {
	b := src.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	if sw == 0 || sh == 0 || dstRect.IsEmpty() {
		return
	}
	target := dst.SubImage(image.Rect(
		int(dstRect.X), int(dstRect.Y),
		int(dstRect.X+dstRect.Width), int(dstRect.Y+dstRect.Height),
	)).(*ebiten.Image)

	op := &ebiten.DrawImageOptions{}
	op.Filter = s.Filter
	op.GeoM.Scale(dstRect.Width/sw, dstRect.Height/sh)
	op.GeoM.Translate(dstRect.X, dstRect.Y)
	target.DrawImage(src, op)
}

// SoftwareScaler scales on the CPU with a golang.org/x/image/draw kernel.
// Each call reads the source pixels back from the GPU, which is slow;
// useful for screenshots or when a specific resampling kernel matters more
// than frame rate. Use by pointer so the pixel scratch buffers are reused.
type SoftwareScaler struct {
	// Kernel is the resampling interpolator. Nil means ApproxBiLinear.
	Kernel xdraw.Interpolator

	srcPix *image.RGBA
	dstPix *image.RGBA
	out    *ebiten.Image
}

// Scale implements Scaler.
func (s *SoftwareScaler) Scale(dst *ebiten.Image, dstRect Rect, src *ebiten.Image) {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	dw, dh := int(dstRect.Width), int(dstRect.Height)
	if sw == 0 || sh == 0 || dw <= 0 || dh <= 0 {
		return
	}

	if s.srcPix == nil || s.srcPix.Rect.Dx() != sw || s.srcPix.Rect.Dy() != sh {
		s.srcPix = image.NewRGBA(image.Rect(0, 0, sw, sh))
	}
	if s.dstPix == nil || s.dstPix.Rect.Dx() != dw || s.dstPix.Rect.Dy() != dh {
		s.dstPix = image.NewRGBA(image.Rect(0, 0, dw, dh))
		s.out = ebiten.NewImage(dw, dh)
	}

	// Pixels stay premultiplied through the whole round trip, so the
	// kernel operates on the same representation ReadPixels produced.
	src.ReadPixels(s.srcPix.Pix)

	k := s.Kernel
	if k == nil {
		k = xdraw.ApproxBiLinear
	}
	k.Scale(s.dstPix, s.dstPix.Rect, s.srcPix, s.srcPix.Rect, xdraw.Src, nil)

	s.out.WritePixels(s.dstPix.Pix)

	target := dst.SubImage(image.Rect(
		int(dstRect.X), int(dstRect.Y),
		int(dstRect.X+dstRect.Width), int(dstRect.Y+dstRect.Height),
	)).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(dstRect.X, dstRect.Y)
	target.DrawImage(s.out, op)
}
