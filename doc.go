// Package driftwood is a scrolling tile-map renderer for [Ebitengine].
//
// Driftwood keeps the visible portion of a tile map in an off-screen
// buffer, scrolls it by reusing previously rendered pixels, and repaints
// only the newly exposed edges. It supports sub-pixel camera motion,
// zooming, animated tiles, layered sprite interleaving, and both
// orthogonal and isometric projections.
//
// # Quick start
//
// Implement [DataAdapter] for your map format (or use [ProceduralData] to
// try things out), create a [Renderer], and drive it from your game loop:
//
//	data := driftwood.NewProceduralData()
//	renderer, err := driftwood.NewRenderer(data, 640, 480, driftwood.RendererConfig{
//		ClampCamera: true,
//	})
//
//	// each frame:
//	renderer.Center(hero.Position)
//	renderer.Draw(screen, driftwood.Rect{Width: 640, Height: 480}, []driftwood.Renderable{
//		{Rect: heroRect, Layer: 1, Image: heroImage},
//	})
//
// Renderables are interleaved with tile layers by their Layer value, so a
// sprite can walk behind a tree drawn on a higher tile layer.
//
// # Cameras
//
// The [Camera] implementations add feel on top of the raw Center call:
// smooth follow with deadzones ([FollowCamera]), platformer-tuned vertical
// damping ([PlatformerCamera]), eased scripted moves ([ScrollCamera], via
// [gween]), waypoint cutscenes ([CutsceneCamera]), and blended hand-offs
// between them ([CameraManager]).
//
// # Multiple maps
//
// [MapAggregator] stitches several adapters into one world with tile
// offsets and layer shifts, so adjacent maps scroll seamlessly.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package driftwood
