package universe

import (
	"fmt"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/components"
)

// Zone splits the arena into a quarantine region left of X1 and a free
// region right of X2. The strip between them is inert.
type Zone struct {
	X1, X2 float64
}

// Inside reports whether h belongs to the quarantine region.
func (z Zone) Inside(h *agents.Human) bool {
	return h.Pos.X-h.Thickness < z.X1
}

// Quarantine returns the containment rectangle of the quarantine region.
func (z Zone) Quarantine(height float64) components.Rect {
	return components.Rect{MinX: 0, MinY: 0, MaxX: z.X1, MaxY: height}
}

// Free returns the containment rectangle of the free region.
func (z Zone) Free(width, height float64) components.Rect {
	return components.Rect{MinX: z.X2, MinY: 0, MaxX: width, MaxY: height}
}

// Bounds returns the region h is confined to.
func (z Zone) Bounds(h *agents.Human, width, height float64) components.Rect {
	return z.Region(z.Inside(h), width, height)
}

// Region returns the quarantine rectangle when quarantined is true and the
// free rectangle otherwise.
func (z Zone) Region(quarantined bool, width, height float64) components.Rect {
	if quarantined {
		return z.Quarantine(height)
	}
	return z.Free(width, height)
}

// Validate checks that the zone splits an arena of the given width.
func (z Zone) Validate(width float64) error {
	if !(z.X1 < z.X2) {
		return fmt.Errorf("%w: x1 %v must be less than x2 %v", ErrInvalidZone, z.X1, z.X2)
	}
	if z.X1 <= 0 || z.X2 >= width {
		return fmt.Errorf("%w: [%v, %v] must lie strictly inside arena width %v", ErrInvalidZone, z.X1, z.X2, width)
	}
	return nil
}
