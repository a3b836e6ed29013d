package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 800, 385, 385)

	if cam.X != 192.5 || cam.Y != 192.5 {
		t.Errorf("expected camera at arena center, got (%f, %f)", cam.X, cam.Y)
	}
	// Height is the limiting axis: (800 - 40) / 385.
	if want := float32(760.0 / 385.0); !near(cam.Scale(), want) {
		t.Errorf("Scale() = %f, want %f", cam.Scale(), want)
	}
}

func TestArenaFitsViewport(t *testing.T) {
	cam := New(1280, 800, 385, 385)

	corners := []struct{ x, y float32 }{{0, 0}, {385, 0}, {0, 385}, {385, 385}}
	for _, c := range corners {
		sx, sy := cam.WorldToScreen(c.x, c.y)
		if sx < 0 || sx > 1280 || sy < 0 || sy > 800 {
			t.Errorf("corner (%v, %v) maps off screen to (%f, %f)", c.x, c.y, sx, sy)
		}
	}

	sx, sy := cam.WorldToScreen(192.5, 192.5)
	if !near(sx, 640) || !near(sy, 400) {
		t.Errorf("center maps to (%f, %f), want (640, 400)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 800, 385, 385)
	cam.SetZoom(2)
	cam.Pan(100, -50)

	for _, tc := range []struct{ sx, sy float32 }{{640, 400}, {100, 100}, {1200, 700}} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestLength(t *testing.T) {
	cam := New(1000, 1000, 480, 480)
	if got := cam.Length(10); !near(got, 20) {
		t.Errorf("Length(10) = %f, want 20", got)
	}
	cam.SetZoom(2)
	if got := cam.Length(10); !near(got, 40) {
		t.Errorf("Length(10) at 2x = %f, want 40", got)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 800, 385, 385)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.ZoomBy(0.001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestPanClamp(t *testing.T) {
	cam := New(1280, 800, 385, 385)

	// Fully zoomed out the arena stays centred.
	cam.Pan(500, 500)
	if cam.X != 192.5 || cam.Y != 192.5 {
		t.Errorf("pan at zoom 1 moved camera to (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(4)
	cam.Pan(1e6, 1e6)
	sx, sy := cam.WorldToScreen(385, 385)
	if !near(sx, 1280) && sx < 1280 {
		t.Errorf("right arena edge left a gap: %f", sx)
	}
	if !near(sy, 800) && sy < 800 {
		t.Errorf("bottom arena edge left a gap: %f", sy)
	}

	cam.Reset()
	if cam.Zoom != 1 || cam.X != 192.5 {
		t.Errorf("Reset did not restore view: %+v", cam)
	}
}
