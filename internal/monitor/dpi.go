package monitor

import "github.com/1broseidon/wingman/internal/geometry"

// baseDPI is the density at which logical and physical coordinates coincide.
const baseDPI = 96.0

// Scale returns the monitor's horizontal DPI scale factor; 96 DPI maps to
// 1.0. A nil monitor scales at 1.0.
func Scale(d *Descriptor) float64 {
	if d == nil {
		return 1.0
	}
	return d.DPIX / baseDPI
}

// ToPhysical converts a logical rectangle to physical pixels on d.
func ToPhysical(r geometry.Rect, d *Descriptor) geometry.Rect {
	scale := Scale(d)
	return geometry.Rect{
		X:      r.X * scale,
		Y:      r.Y * scale,
		Width:  r.Width * scale,
		Height: r.Height * scale,
	}
}

// ToLogical converts a physical rectangle back to logical units on d. A
// non-positive scale leaves the rectangle unchanged; Set.Replace refuses
// such descriptors, so that path only arises for hand-built values.
func ToLogical(r geometry.Rect, d *Descriptor) geometry.Rect {
	scale := Scale(d)
	if scale <= 0 {
		return r
	}
	return geometry.Rect{
		X:      r.X / scale,
		Y:      r.Y / scale,
		Width:  r.Width / scale,
		Height: r.Height / scale,
	}
}
