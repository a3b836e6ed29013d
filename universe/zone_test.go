package universe

import (
	"testing"

	"github.com/pthm-cable/contagion/components"
)

func TestZoneInside(t *testing.T) {
	zone := Zone{X1: 100, X2: 102}
	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"deep in quarantine", 20, true},
		{"edge just left of x1", 109.9, true},
		{"edge on x1", 110, false},
		{"free region", 150, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHuman(tt.x, 50, 0, 0, components.Susceptible, 1, 0)
			if got := zone.Inside(&h); got != tt.want {
				t.Errorf("Inside(x=%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestZoneBounds(t *testing.T) {
	zone := Zone{X1: 100, X2: 110}

	in := newHuman(50, 50, 0, 0, components.Susceptible, 1, 0)
	if got := zone.Bounds(&in, 300, 200); got != (components.Rect{MaxX: 100, MaxY: 200}) {
		t.Errorf("quarantine bounds = %+v", got)
	}

	out := newHuman(200, 50, 0, 0, components.Susceptible, 1, 0)
	if got := zone.Bounds(&out, 300, 200); got != (components.Rect{MinX: 110, MaxX: 300, MaxY: 200}) {
		t.Errorf("free bounds = %+v", got)
	}
}

func TestZoneRegion(t *testing.T) {
	zone := Zone{X1: 100, X2: 110}
	if got := zone.Region(true, 300, 200); got != zone.Quarantine(200) {
		t.Errorf("Region(true) = %+v", got)
	}
	if got := zone.Region(false, 300, 200); got != zone.Free(300, 200) {
		t.Errorf("Region(false) = %+v", got)
	}
}
