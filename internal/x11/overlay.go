package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Companion overlay colors
const (
	colorFrame   = 0x4a90d9 // Blue - companion frame
	colorLabelBg = 0x1f2933 // Dark label background
	colorLabelFg = 0xf5f7fa // Light label text
)

const (
	frameThickness = 3
	labelPaddingX  = 10
	labelPaddingY  = 8
	labelCharWidth = 7
	labelLineH     = 16
)

// CompanionOverlay is the on-screen preview companion: an override-redirect
// frame outlining the rect the companion occupies, with a size label in the
// middle. It bypasses the window manager entirely, so mapping it never
// steals focus from the target window.
type CompanionOverlay struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	top    xproto.Window
	bottom xproto.Window
	left   xproto.Window
	right  xproto.Window
	label  xproto.Window

	gc   xproto.Gcontext
	font xproto.Font

	created bool
	mapped  bool
}

// NewCompanionOverlay creates an unmapped companion overlay.
func NewCompanionOverlay(xu *xgbutil.XUtil, root xproto.Window) *CompanionOverlay {
	return &CompanionOverlay{xu: xu, root: root}
}

// Show maps the overlay at the given rect.
func (o *CompanionOverlay) Show(x, y, width, height int) error {
	return o.render(x, y, width, height)
}

// Move reconfigures the overlay for a new rect, mapping it if needed.
func (o *CompanionOverlay) Move(x, y, width, height int) error {
	return o.render(x, y, width, height)
}

func (o *CompanionOverlay) render(x, y, width, height int) error {
	if err := o.ensureResources(); err != nil {
		return err
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	conn := o.xu.Conn()
	t := frameThickness

	// Frame: top and bottom bars span the full width, the side bars fill
	// the gap between them.
	o.configure(o.top, x, y, width, t, colorFrame)
	o.configure(o.bottom, x, y+height-t, width, t, colorFrame)
	o.configure(o.left, x, y+t, t, height-2*t, colorFrame)
	o.configure(o.right, x+width-t, y+t, t, height-2*t, colorFrame)

	text := fmt.Sprintf("%d x %d", width, height)
	if len(text) > 255 {
		text = text[:255]
	}

	labelW := len(text)*labelCharWidth + 2*labelPaddingX
	labelH := labelLineH + 2*labelPaddingY
	if labelW > width {
		labelW = width
	}
	if labelH > height {
		labelH = height
	}
	labelX := x + (width-labelW)/2
	labelY := y + (height-labelH)/2
	o.configure(o.label, labelX, labelY, labelW, labelH, colorLabelBg)

	xproto.ChangeGC(
		conn,
		o.gc,
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{colorLabelFg, colorLabelBg},
	)
	xproto.ImageText8(
		conn,
		byte(len(text)),
		xproto.Drawable(o.label),
		o.gc,
		int16(labelPaddingX),
		int16(labelPaddingY+labelLineH-4),
		text,
	)

	for _, wid := range []xproto.Window{o.top, o.bottom, o.left, o.right, o.label} {
		xproto.MapWindow(conn, wid)
	}
	o.mapped = true
	return nil
}

// Hide unmaps the overlay without destroying it.
func (o *CompanionOverlay) Hide() {
	if !o.mapped || o.xu == nil {
		return
	}

	conn := o.xu.Conn()
	for _, wid := range []xproto.Window{o.top, o.bottom, o.left, o.right, o.label} {
		xproto.UnmapWindow(conn, wid)
	}
	o.mapped = false
}

// Destroy releases all overlay resources.
func (o *CompanionOverlay) Destroy() {
	if o.xu == nil || !o.created {
		return
	}

	conn := o.xu.Conn()
	if o.gc != 0 {
		xproto.FreeGC(conn, o.gc)
	}
	if o.font != 0 {
		xproto.CloseFont(conn, o.font)
	}
	for _, wid := range []xproto.Window{o.top, o.bottom, o.left, o.right, o.label} {
		if wid != 0 {
			xproto.DestroyWindow(conn, wid)
		}
	}

	o.top, o.bottom, o.left, o.right, o.label = 0, 0, 0, 0, 0
	o.gc = 0
	o.font = 0
	o.created = false
	o.mapped = false
}

func (o *CompanionOverlay) ensureResources() error {
	if o.created {
		return nil
	}
	if o.xu == nil {
		return fmt.Errorf("companion overlay has no X connection")
	}

	conn := o.xu.Conn()

	wins := make([]xproto.Window, 0, 5)
	destroyAll := func() {
		for _, w := range wins {
			xproto.DestroyWindow(conn, w)
		}
	}

	for len(wins) < 5 {
		wid, err := o.createOverrideRedirectWindow()
		if err != nil {
			destroyAll()
			return err
		}
		wins = append(wins, wid)
	}

	font, err := xproto.NewFontId(conn)
	if err != nil {
		destroyAll()
		return err
	}

	fontNames := []string{"fixed", "9x15", "8x13", "6x13"}
	opened := false
	for _, fontName := range fontNames {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		destroyAll()
		return fmt.Errorf("no usable core font for the size label")
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		destroyAll()
		return err
	}

	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(wins[4]),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			colorLabelFg, // foreground
			colorLabelBg, // background
			uint32(font), // font
			0,            // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.FreeGC(conn, gc)
		xproto.CloseFont(conn, font)
		destroyAll()
		return err
	}

	o.top, o.bottom, o.left, o.right, o.label = wins[0], wins[1], wins[2], wins[3], wins[4]
	o.gc = gc
	o.font = font
	o.created = true
	return nil
}

// createOverrideRedirectWindow creates a single override-redirect window
func (o *CompanionOverlay) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := o.xu.Conn()
	screen := o.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	// Create window with override_redirect=true
	// This makes it bypass the window manager
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		o.root,
		0, 0, // x, y (will be updated later)
		1, 1, // width, height (will be updated later)
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Value list order follows the bit positions of the mask (low -> high).
		// CwBackPixel comes before CwOverrideRedirect, so it must be first.
		[]uint32{0, 1}, // back_pixel=black, override_redirect=true
	).Check()

	if err != nil {
		return 0, err
	}

	return wid, nil
}

// configure moves, resizes, and recolors a window.
func (o *CompanionOverlay) configure(wid xproto.Window, x, y, width, height int, color uint32) {
	conn := o.xu.Conn()

	// Ensure minimum dimensions
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	)

	xproto.ChangeWindowAttributes(
		conn,
		wid,
		xproto.CwBackPixel,
		[]uint32{color},
	)

	// Clear window to show new color
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}
