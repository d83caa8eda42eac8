package monitor

import "github.com/1broseidon/wingman/internal/geometry"

// ContainingPoint returns the first monitor whose bounds contain p, or nil
// when no monitor does.
func ContainingPoint(p geometry.Point, monitors []Descriptor) *Descriptor {
	for i := range monitors {
		if monitors[i].Bounds.Contains(p) {
			return &monitors[i]
		}
	}
	return nil
}

// Containing returns the monitor r belongs to: the one with the largest
// intersection area, or, when r overlaps no monitor at all, the one whose
// bounds center is nearest r's center. Returns nil only for an empty slice.
func Containing(r geometry.Rect, monitors []Descriptor) *Descriptor {
	if len(monitors) == 0 {
		return nil
	}

	best := -1
	bestArea := 0.0
	for i := range monitors {
		if area := monitors[i].Bounds.Intersect(r).Area(); area > bestArea {
			bestArea = area
			best = i
		}
	}
	if best >= 0 {
		return &monitors[best]
	}

	// Off-screen rectangle: fall back to the nearest monitor center.
	center := r.Center()
	nearest := 0
	nearestDist := monitors[0].Bounds.Center().DistanceSquaredTo(center)
	for i := 1; i < len(monitors); i++ {
		if d := monitors[i].Bounds.Center().DistanceSquaredTo(center); d < nearestDist {
			nearestDist = d
			nearest = i
		}
	}
	return &monitors[nearest]
}

// IsFullyVisible reports whether some single monitor's bounds fully contain
// r. A rectangle straddling two monitors does not count as fully visible.
func IsFullyVisible(r geometry.Rect, monitors []Descriptor) bool {
	for i := range monitors {
		if monitors[i].Bounds.ContainsRect(r) {
			return true
		}
	}
	return false
}

// IsPartiallyVisible reports whether r is fully contained by a monitor, or
// at least minFraction of its area overlaps a single monitor.
func IsPartiallyVisible(r geometry.Rect, monitors []Descriptor, minFraction float64) bool {
	if IsFullyVisible(r, monitors) {
		return true
	}

	area := r.Area()
	if area <= 0 {
		return false
	}
	for i := range monitors {
		if monitors[i].Bounds.Intersect(r).Area()/area >= minFraction {
			return true
		}
	}
	return false
}

// ConstrainToScreen clamps r to fit entirely on its best monitor: the size
// is reduced to the monitor's bounds if needed, then the position clamped so
// every edge lies inside. Rectangles that are already fully visible come
// back unchanged, which makes the operation idempotent.
func ConstrainToScreen(r geometry.Rect, monitors []Descriptor) geometry.Rect {
	if len(monitors) == 0 {
		return r
	}
	if IsFullyVisible(r, monitors) {
		return r
	}

	bounds := Containing(r, monitors).Bounds
	out := r
	if out.Width > bounds.Width {
		out.Width = bounds.Width
	}
	if out.Height > bounds.Height {
		out.Height = bounds.Height
	}
	if out.X < bounds.X {
		out.X = bounds.X
	} else if out.Right() > bounds.Right() {
		out.X = bounds.Right() - out.Width
	}
	if out.Y < bounds.Y {
		out.Y = bounds.Y
	} else if out.Bottom() > bounds.Bottom() {
		out.Y = bounds.Bottom() - out.Height
	}
	return out
}
