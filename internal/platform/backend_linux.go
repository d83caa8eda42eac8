//go:build linux

package platform

import (
	"fmt"
	"math"
	"sort"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
	"github.com/1broseidon/wingman/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Enumerate returns all active monitors as placement descriptors.
func (b *LinuxBackend) Enumerate() ([]monitor.Descriptor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	mons, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	descriptors := make([]monitor.Descriptor, 0, len(mons))
	for _, m := range mons {
		descriptors = append(descriptors, descriptorFromMonitor(m))
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].ID < descriptors[j].ID
	})

	return descriptors, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	if wid == 0 {
		return 0, fmt.Errorf("no active window")
	}
	return WindowID(wid), nil
}

// IsNormalWindow reports whether the window is a regular application window.
func (b *LinuxBackend) IsNormalWindow(windowID WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.IsNormalWindow(xproto.Window(windowID))
}

// WindowRect returns the window's decorated bounds in root coordinates.
// Frame extents are folded in so placement sees the window as drawn, not
// just its client area.
func (b *LinuxBackend) WindowRect(windowID WindowID) (geometry.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return geometry.Rect{}, err
	}

	x, y, w, h, err := conn.GetWindowRect(xproto.Window(windowID))
	if err != nil {
		return geometry.Rect{}, err
	}

	left, right, top, bottom, _ := conn.GetFrameExtents(xproto.Window(windowID))

	return geometry.Rect{
		X:      float64(x - left),
		Y:      float64(y - top),
		Width:  float64(w + left + right),
		Height: float64(h + top + bottom),
	}, nil
}

// MoveResizeWindow moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResizeWindow(windowID WindowID, bounds geometry.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		round(bounds.X),
		round(bounds.Y),
		round(bounds.Width),
		round(bounds.Height),
	)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func descriptorFromMonitor(m x11.Monitor) monitor.Descriptor {
	id := m.Name
	if id == "" {
		id = fmt.Sprintf("monitor-%d", m.ID)
	}
	return monitor.Descriptor{
		ID: id,
		Bounds: geometry.Rect{
			X:      float64(m.X),
			Y:      float64(m.Y),
			Width:  float64(m.Width),
			Height: float64(m.Height),
		},
		WorkArea: geometry.Rect{
			X:      float64(m.WorkX),
			Y:      float64(m.WorkY),
			Width:  float64(m.WorkWidth),
			Height: float64(m.WorkHeight),
		},
		Primary: m.Primary,
		DPIX:    m.DPIX,
		DPIY:    m.DPIY,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
