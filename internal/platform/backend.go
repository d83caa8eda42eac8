package platform

import (
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Backend abstracts the window-system operations the placement engine
// needs. Implementations satisfy monitor.Source, so a monitor.Set can
// refresh straight from the backend.
type Backend interface {
	monitor.Source

	// ActiveWindow returns the currently focused window.
	ActiveWindow() (WindowID, error)
	// IsNormalWindow reports whether the window is a regular application
	// window (not a dock, desktop or splash).
	IsNormalWindow(WindowID) bool
	// WindowRect returns the window's decorated bounds in screen
	// coordinates. It fails once the window is gone.
	WindowRect(WindowID) (geometry.Rect, error)
	// MoveResizeWindow moves and resizes the window to bounds.
	MoveResizeWindow(WindowID, geometry.Rect) error
}
