package driftwood

import (
	"math"
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera computes the next view center from the current view and a target.
// Implementations add feel: smoothing, deadzones, shake, waypoints. Feed
// the result to Renderer.Center each frame.
type Camera interface {
	Update(view Rect, target Rect, dt float64) (x, y float64)
}

// cameraShake is shared screenshake state. Intensity decays by one per
// applied frame.
type cameraShake struct {
	amount float64
}

// Shake sets the screenshake intensity in pixels.
func (s *cameraShake) Shake(intensity float64) {
	s.amount = intensity
}

func (s *cameraShake) apply(x, y float64) (float64, float64) {
	if s.amount > 0 {
		x += (rand.Float64()*2 - 1) * s.amount
		y += (rand.Float64()*2 - 1) * s.amount
		s.amount = math.Max(0, s.amount-1)
	}
	return x, y
}

// lerpT converts a per-second lerp factor into a frame-rate independent
// interpolation amount.
func lerpT(lerp, dt float64) float64 {
	return 1.0 - math.Pow(1.0-lerp, dt)
}

// BasicCamera lerps the view center toward the target center.
type BasicCamera struct {
	cameraShake
	// Lerp is the follow strength per second. 1 snaps immediately.
	Lerp float64
}

// Update implements Camera.
func (c *BasicCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	cc := view.Center()
	tc := target.Center()
	t := lerpT(c.Lerp, dt)
	return c.apply(cc.X+(tc.X-cc.X)*t, cc.Y+(tc.Y-cc.Y)*t)
}

// FollowCamera is a smooth-follow camera with an optional deadzone: while
// the target stays fully inside the deadzone (centered on the view), the
// camera does not move.
type FollowCamera struct {
	cameraShake
	Lerp     float64
	Deadzone *Rect
}

// Update implements Camera.
func (c *FollowCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	cc := view.Center()
	tc := target.Center()

	if c.Deadzone != nil {
		dz := c.Deadzone.CenteredAt(cc)
		if dz.X <= target.X && target.X+target.Width <= dz.X+dz.Width &&
			dz.Y <= target.Y && target.Y+target.Height <= dz.Y+dz.Height {
			return cc.X, cc.Y
		}
	}

	t := lerpT(c.Lerp, dt)
	return c.apply(cc.X+(tc.X-cc.X)*t, cc.Y+(tc.Y-cc.Y)*t)
}

// PlatformerCamera follows horizontally at all times but only follows
// vertically once the target leaves a vertical deadzone, so small jumps do
// not bounce the view.
type PlatformerCamera struct {
	cameraShake
	Lerp             float64
	VerticalDeadzone float64
}

// Update implements Camera.
func (c *PlatformerCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	cc := view.Center()
	tc := target.Center()

	t := lerpT(c.Lerp, dt)
	x := cc.X + (tc.X-cc.X)*t
	y := cc.Y
	if math.Abs(tc.Y-cc.Y) > c.VerticalDeadzone {
		y = cc.Y + (tc.Y-cc.Y)*t
	}
	return c.apply(x, y)
}

// ZoomCamera wraps another camera and eases a zoom value toward a target.
// The camera itself only moves the view center; read Zoom each frame and
// pass it to Renderer.SetZoom when it changes.
type ZoomCamera struct {
	cameraShake
	Base      Camera
	Zoom      float64
	ZoomSpeed float64

	targetZoom float64
}

// NewZoomCamera wraps base with smooth zooming at the given initial zoom.
func NewZoomCamera(base Camera, zoom, zoomSpeed float64) *ZoomCamera {
	return &ZoomCamera{Base: base, Zoom: zoom, ZoomSpeed: zoomSpeed, targetZoom: zoom}
}

// SetZoom sets the zoom the camera eases toward. Values below 0.1 clamp.
func (c *ZoomCamera) SetZoom(zoom float64) {
	c.targetZoom = math.Max(0.1, zoom)
}

// Update implements Camera.
func (c *ZoomCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	x, y := c.Base.Update(view, target, dt)
	c.Zoom += (c.targetZoom - c.Zoom) * math.Min(1.0, dt*c.ZoomSpeed)
	return c.apply(x, y)
}

// BoundsCamera wraps another camera and clamps the final center so the
// visible area never leaves the world rect. When the world is smaller than
// the view on an axis, the camera centers on it.
type BoundsCamera struct {
	cameraShake
	Base  Camera
	World Rect
}

// Update implements Camera.
func (c *BoundsCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	x, y := c.Base.Update(view, target, dt)

	halfW := view.Width / 2
	halfH := view.Height / 2
	minX := c.World.X + halfW
	maxX := c.World.X + c.World.Width - halfW
	minY := c.World.Y + halfH
	maxY := c.World.Y + c.World.Height - halfH

	if minX > maxX {
		x = c.World.X + c.World.Width/2
	} else {
		x = math.Max(minX, math.Min(x, maxX))
	}
	if minY > maxY {
		y = c.World.Y + c.World.Height/2
	} else {
		y = math.Max(minY, math.Min(y, maxY))
	}
	return c.apply(x, y)
}

// CutsceneCamera moves along predefined waypoints over a fixed duration,
// ignoring the target.
type CutsceneCamera struct {
	cameraShake
	waypoints []Point
	duration  float64
	loop      bool
	time      float64
}

// NewCutsceneCamera creates a waypoint camera. With loop set, the path
// restarts when finished; otherwise the camera holds the last waypoint.
func NewCutsceneCamera(waypoints []Point, duration float64, loop bool) *CutsceneCamera {
	return &CutsceneCamera{waypoints: waypoints, duration: duration, loop: loop}
}

// Update implements Camera.
func (c *CutsceneCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	if len(c.waypoints) == 1 {
		return c.waypoints[0].X, c.waypoints[0].Y
	}

	c.time += dt
	t := c.time / c.duration
	if t >= 1.0 {
		if !c.loop {
			last := c.waypoints[len(c.waypoints)-1]
			return last.X, last.Y
		}
		c.time = 0
		t = 0
	}

	segCount := len(c.waypoints) - 1
	seg := min(int(t*float64(segCount)), segCount-1)
	localT := t*float64(segCount) - float64(seg)

	a := c.waypoints[seg]
	b := c.waypoints[seg+1]
	return c.apply(a.X+(b.X-a.X)*localT, a.Y+(b.Y-a.Y)*localT)
}

// FlyCamera moves freely under direct input, for debug inspection.
type FlyCamera struct {
	cameraShake
	Speed float64

	pos  Point
	move Point
}

// NewFlyCamera creates a free camera starting at the given position.
func NewFlyCamera(start Point, speed float64) *FlyCamera {
	return &FlyCamera{Speed: speed, pos: start}
}

// SetInput sets the normalized movement direction for the next updates.
func (c *FlyCamera) SetInput(dx, dy float64) {
	c.move = Point{X: dx, Y: dy}
}

// Update implements Camera.
func (c *FlyCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	c.pos.X += c.move.X * c.Speed * dt
	c.pos.Y += c.move.Y * c.Speed * dt
	return c.apply(c.pos.X, c.pos.Y)
}

// ScrollCamera animates to a fixed destination along an easing curve,
// ignoring the target. Done reports when the destination is reached;
// combine with CameraManager to hand control back afterward.
type ScrollCamera struct {
	cameraShake
	tweenX, tweenY *gween.Tween
	x, y           float64
	doneX, doneY   bool
}

// NewScrollCamera animates from one world position to another over
// duration seconds.
func NewScrollCamera(from, to Point, duration float64, easeFn ease.TweenFunc) *ScrollCamera {
	return &ScrollCamera{
		tweenX: gween.New(float32(from.X), float32(to.X), float32(duration), easeFn),
		tweenY: gween.New(float32(from.Y), float32(to.Y), float32(duration), easeFn),
		x:      from.X,
		y:      from.Y,
	}
}

// Done reports whether both axes reached the destination.
func (c *ScrollCamera) Done() bool { return c.doneX && c.doneY }

// Update implements Camera.
func (c *ScrollCamera) Update(view Rect, target Rect, dt float64) (float64, float64) {
	if !c.doneX {
		v, done := c.tweenX.Update(float32(dt))
		c.x = float64(v)
		c.doneX = done
	}
	if !c.doneY {
		v, done := c.tweenY.Update(float32(dt))
		c.y = float64(v)
		c.doneY = done
	}
	return c.apply(c.x, c.y)
}

// CameraManager blends between cameras with a smoothstep transition. The
// outgoing camera's position is frozen at the switch instant and the
// incoming camera is interpolated in over the transition duration.
type CameraManager struct {
	current  Camera
	next     Camera
	time     float64
	duration float64
	start    *Point
}

// NewCameraManager creates a manager driving the given camera.
func NewCameraManager(initial Camera) *CameraManager {
	return &CameraManager{current: initial}
}

// Current returns the active camera.
func (m *CameraManager) Current() Camera { return m.current }

// SetCamera switches to a camera. A duration of 0 or less switches
// immediately; otherwise positions blend over the duration.
func (m *CameraManager) SetCamera(cam Camera, duration float64) {
	if duration <= 0 {
		m.current = cam
		m.next = nil
		return
	}
	m.next = cam
	m.duration = duration
	m.time = 0
	m.start = nil
}

// Update implements Camera.
func (m *CameraManager) Update(view Rect, target Rect, dt float64) (float64, float64) {
	if m.next == nil {
		return m.current.Update(view, target, dt)
	}

	if m.start == nil {
		x, y := m.current.Update(view, target, dt)
		m.start = &Point{X: x, Y: y}
	}

	bx, by := m.next.Update(view, target, dt)

	m.time += dt
	t := math.Min(m.time/m.duration, 1.0)
	t = t * t * (3 - 2*t)

	x := m.start.X + (bx-m.start.X)*t
	y := m.start.Y + (by-m.start.Y)*t

	if t >= 1.0 {
		m.current = m.next
		m.next = nil
		m.start = nil
	}
	return x, y
}
