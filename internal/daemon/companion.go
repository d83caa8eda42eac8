package daemon

import (
	"math"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/session"
	"github.com/1broseidon/wingman/internal/x11"
)

// OverlayCompanion adapts the X11 overlay to the session's companion
// interface, rounding logical coordinates to whole pixels.
type OverlayCompanion struct {
	overlay *x11.CompanionOverlay
}

var _ session.Companion = (*OverlayCompanion)(nil)

// NewOverlayCompanion wraps an X11 overlay as a session companion.
func NewOverlayCompanion(overlay *x11.CompanionOverlay) *OverlayCompanion {
	return &OverlayCompanion{overlay: overlay}
}

func (c *OverlayCompanion) Show(r geometry.Rect) error {
	x, y, w, h := pixelRect(r)
	return c.overlay.Show(x, y, w, h)
}

func (c *OverlayCompanion) Move(r geometry.Rect) error {
	x, y, w, h := pixelRect(r)
	return c.overlay.Move(x, y, w, h)
}

func (c *OverlayCompanion) Hide() error {
	c.overlay.Hide()
	return nil
}

// Destroy releases the overlay's X resources.
func (c *OverlayCompanion) Destroy() {
	c.overlay.Destroy()
}

func pixelRect(r geometry.Rect) (x, y, w, h int) {
	return int(math.Round(r.X)), int(math.Round(r.Y)), int(math.Round(r.Width)), int(math.Round(r.Height))
}

// nopCompanion satisfies the session when no overlay is available, such as
// headless compute-only runs.
type nopCompanion struct{}

var _ session.Companion = nopCompanion{}

func (nopCompanion) Show(geometry.Rect) error { return nil }
func (nopCompanion) Move(geometry.Rect) error { return nil }
func (nopCompanion) Hide() error              { return nil }

// NopCompanion returns a companion that ignores every call.
func NopCompanion() session.Companion {
	return nopCompanion{}
}
