package driftwood

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func cameraView() Rect {
	return Rect{X: 0, Y: 0, Width: 640, Height: 480}
}

func targetAt(x, y float64) Rect {
	return Rect{X: x - 16, Y: y - 16, Width: 32, Height: 32}
}

func TestBasicCameraSnap(t *testing.T) {
	cam := &BasicCamera{Lerp: 1}
	x, y := cam.Update(cameraView(), targetAt(500, 400), 0.016)
	if x != 500 || y != 400 {
		t.Errorf("lerp 1 = %v, %v, want 500, 400", x, y)
	}
}

func TestBasicCameraSmoothing(t *testing.T) {
	cam := &BasicCamera{Lerp: 0.9}
	// View center is (320, 240); a partial lerp lands strictly between the
	// current center and the target.
	x, y := cam.Update(cameraView(), targetAt(520, 240), 0.016)
	if x <= 320 || x >= 520 {
		t.Errorf("x = %v, want strictly between 320 and 520", x)
	}
	if y != 240 {
		t.Errorf("y = %v, want 240", y)
	}
}

func TestFollowCameraDeadzone(t *testing.T) {
	cam := &FollowCamera{Lerp: 1, Deadzone: &Rect{Width: 120, Height: 90}}
	view := cameraView()

	// Target fully inside the deadzone around (320, 240): camera holds.
	x, y := cam.Update(view, targetAt(340, 250), 0.016)
	if x != 320 || y != 240 {
		t.Errorf("inside deadzone = %v, %v, want 320, 240", x, y)
	}

	// Target outside: camera moves (lerp 1 snaps to the target center).
	x, y = cam.Update(view, targetAt(500, 240), 0.016)
	if x != 500 || y != 240 {
		t.Errorf("outside deadzone = %v, %v, want 500, 240", x, y)
	}
}

func TestPlatformerCameraVerticalDeadzone(t *testing.T) {
	cam := &PlatformerCamera{Lerp: 1, VerticalDeadzone: 60}
	view := cameraView()

	// Horizontal movement always follows; a small jump does not.
	x, y := cam.Update(view, targetAt(400, 220), 0.016)
	if x != 400 {
		t.Errorf("x = %v, want 400", x)
	}
	if y != 240 {
		t.Errorf("y = %v, want 240 inside vertical deadzone", y)
	}

	// A large fall exceeds the deadzone and pulls the camera down.
	_, y = cam.Update(view, targetAt(400, 400), 0.016)
	if y != 400 {
		t.Errorf("y = %v, want 400", y)
	}
}

func TestZoomCameraEasesTowardTarget(t *testing.T) {
	cam := NewZoomCamera(&BasicCamera{Lerp: 1}, 1, 5)
	cam.SetZoom(2)
	cam.Update(cameraView(), targetAt(320, 240), 0.1)
	if cam.Zoom <= 1 || cam.Zoom >= 2 {
		t.Errorf("zoom = %v, want strictly between 1 and 2", cam.Zoom)
	}
	// Clamp floor.
	cam.SetZoom(0.01)
	for i := 0; i < 200; i++ {
		cam.Update(cameraView(), targetAt(320, 240), 0.1)
	}
	if cam.Zoom < 0.1-1e-6 {
		t.Errorf("zoom = %v, must not go below 0.1", cam.Zoom)
	}
}

func TestBoundsCameraClamps(t *testing.T) {
	world := Rect{X: 0, Y: 0, Width: 2000, Height: 1000}
	cam := &BoundsCamera{Base: &BasicCamera{Lerp: 1}, World: world}
	view := cameraView()

	tests := []struct {
		name         string
		tx, ty       float64
		wantX, wantY float64
	}{
		{"interior", 1000, 500, 1000, 500},
		{"left edge", 10, 500, 320, 500},
		{"right edge", 1990, 500, 1680, 500},
		{"top edge", 1000, 5, 1000, 240},
		{"bottom edge", 1000, 995, 1000, 760},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := cam.Update(view, targetAt(tt.tx, tt.ty), 0.016)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("center = %v, %v, want %v, %v", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestBoundsCameraSmallWorldCenters(t *testing.T) {
	// World narrower than the view: the camera centers on it horizontally.
	world := Rect{X: 0, Y: 0, Width: 400, Height: 1000}
	cam := &BoundsCamera{Base: &BasicCamera{Lerp: 1}, World: world}
	x, _ := cam.Update(cameraView(), targetAt(390, 500), 0.016)
	if x != 200 {
		t.Errorf("x = %v, want world center 200", x)
	}
}

func TestCutsceneCameraPath(t *testing.T) {
	path := []Point{{0, 0}, {100, 0}, {100, 100}}
	cam := NewCutsceneCamera(path, 2, false)
	view := cameraView()
	target := targetAt(999, 999) // ignored

	// Quarter way in: middle of the first segment.
	x, y := cam.Update(view, target, 0.5)
	if !approxEqual(x, 50) || !approxEqual(y, 0) {
		t.Errorf("t=0.25 = %v, %v, want 50, 0", x, y)
	}
	// Three quarters: middle of the second segment.
	x, y = cam.Update(view, target, 1.0)
	if !approxEqual(x, 100) || !approxEqual(y, 50) {
		t.Errorf("t=0.75 = %v, %v, want 100, 50", x, y)
	}
	// Past the end without loop: hold the last waypoint.
	x, y = cam.Update(view, target, 5.0)
	if x != 100 || y != 100 {
		t.Errorf("after end = %v, %v, want 100, 100", x, y)
	}
}

func TestCutsceneCameraLoops(t *testing.T) {
	path := []Point{{0, 0}, {100, 0}}
	cam := NewCutsceneCamera(path, 1, true)
	view := cameraView()
	target := targetAt(0, 0)

	cam.Update(view, target, 0.5)
	// Crossing the end restarts the path from the beginning.
	x, _ := cam.Update(view, target, 0.6)
	if x >= 50 {
		t.Errorf("x = %v, want restart near path start", x)
	}
}

func TestCutsceneCameraSingleWaypoint(t *testing.T) {
	cam := NewCutsceneCamera([]Point{{42, 24}}, 1, false)
	x, y := cam.Update(cameraView(), targetAt(0, 0), 0.016)
	if x != 42 || y != 24 {
		t.Errorf("single waypoint = %v, %v, want 42, 24", x, y)
	}
}

func TestFlyCameraMoves(t *testing.T) {
	cam := NewFlyCamera(Point{X: 100, Y: 100}, 200)
	cam.SetInput(1, 0)
	x, y := cam.Update(cameraView(), targetAt(0, 0), 0.5)
	if x != 200 || y != 100 {
		t.Errorf("after 0.5s right = %v, %v, want 200, 100", x, y)
	}
	cam.SetInput(0, -1)
	_, y = cam.Update(cameraView(), targetAt(0, 0), 0.25)
	if y != 50 {
		t.Errorf("after 0.25s up = %v, want 50", y)
	}
}

func TestScrollCameraReachesDestination(t *testing.T) {
	cam := NewScrollCamera(Point{X: 0, Y: 0}, Point{X: 300, Y: 200}, 1, ease.Linear)
	view := cameraView()
	target := targetAt(0, 0)

	x, y := cam.Update(view, target, 0.5)
	if !approxEqual(x, 150) || !approxEqual(y, 100) {
		t.Errorf("halfway = %v, %v, want 150, 100", x, y)
	}
	if cam.Done() {
		t.Fatal("camera should not be done halfway")
	}
	x, y = cam.Update(view, target, 1.0)
	if x != 300 || y != 200 {
		t.Errorf("end = %v, %v, want 300, 200", x, y)
	}
	if !cam.Done() {
		t.Error("camera should be done at the destination")
	}
}

func TestCameraManagerImmediateSwitch(t *testing.T) {
	a := &BasicCamera{Lerp: 1}
	b := NewCutsceneCamera([]Point{{77, 88}}, 1, false)
	m := NewCameraManager(a)
	m.SetCamera(b, 0)
	if m.Current() != Camera(b) {
		t.Fatal("duration 0 should switch immediately")
	}
	x, y := m.Update(cameraView(), targetAt(0, 0), 0.016)
	if x != 77 || y != 88 {
		t.Errorf("center = %v, %v, want 77, 88", x, y)
	}
}

func TestCameraManagerBlendedSwitch(t *testing.T) {
	a := NewCutsceneCamera([]Point{{0, 0}}, 1, false)
	b := NewCutsceneCamera([]Point{{100, 0}}, 1, false)
	m := NewCameraManager(a)
	m.SetCamera(b, 1)

	// Midway through the transition the position is strictly between the
	// frozen start and the incoming camera.
	x, _ := m.Update(cameraView(), targetAt(0, 0), 0.5)
	if x <= 0 || x >= 100 {
		t.Errorf("mid-blend x = %v, want strictly between 0 and 100", x)
	}
	if m.Current() != Camera(a) {
		t.Error("transition should still be in progress")
	}

	// Completing the transition installs the incoming camera.
	x, _ = m.Update(cameraView(), targetAt(0, 0), 0.6)
	if x != 100 {
		t.Errorf("end x = %v, want 100", x)
	}
	if m.Current() != Camera(b) {
		t.Error("incoming camera should be installed after the transition")
	}
}

func TestCameraShakeDecays(t *testing.T) {
	cam := &BasicCamera{Lerp: 1}
	cam.Shake(3)
	view := cameraView()
	target := targetAt(320, 240)

	moved := false
	for i := 0; i < 3; i++ {
		x, y := cam.Update(view, target, 0.016)
		if x != 320 || y != 240 {
			moved = true
		}
	}
	if !moved {
		t.Error("shake should displace the camera")
	}
	// Intensity decays by one per frame; after three frames it is spent.
	x, y := cam.Update(view, target, 0.016)
	if x != 320 || y != 240 {
		t.Errorf("after decay = %v, %v, want 320, 240", x, y)
	}
}
