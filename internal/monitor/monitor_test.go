package monitor

import (
	"fmt"
	"testing"

	"github.com/1broseidon/wingman/internal/geometry"
)

func testMonitor(id string, x, y, w, h float64, primary bool) Descriptor {
	bounds := geometry.Rect{X: x, Y: y, Width: w, Height: h}
	return Descriptor{
		ID:       id,
		Bounds:   bounds,
		WorkArea: bounds,
		Primary:  primary,
		DPIX:     96,
		DPIY:     96,
	}
}

func TestSetReplaceValidation(t *testing.T) {
	tests := []struct {
		name     string
		monitors []Descriptor
		wantErr  bool
	}{
		{
			name:     "valid pair",
			monitors: []Descriptor{testMonitor("a", 0, 0, 1920, 1080, true), testMonitor("b", 1920, 0, 1920, 1080, false)},
		},
		{
			name:     "empty set is valid",
			monitors: nil,
		},
		{
			name:     "duplicate id",
			monitors: []Descriptor{testMonitor("a", 0, 0, 1920, 1080, true), testMonitor("a", 1920, 0, 1920, 1080, false)},
			wantErr:  true,
		},
		{
			name:     "empty id",
			monitors: []Descriptor{testMonitor("", 0, 0, 1920, 1080, true)},
			wantErr:  true,
		},
		{
			name: "zero dpi",
			monitors: []Descriptor{{
				ID:     "a",
				Bounds: geometry.Rect{Width: 1920, Height: 1080},
				DPIX:   0,
				DPIY:   96,
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			err := s.Replace(tt.monitors)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Replace succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Replace failed: %v", err)
			}
			if got := s.Len(); got != len(tt.monitors) {
				t.Errorf("Len() = %d, want %d", got, len(tt.monitors))
			}
		})
	}
}

func TestSetReplaceKeepsPreviousOnError(t *testing.T) {
	s := NewSet()
	if err := s.Replace([]Descriptor{testMonitor("a", 0, 0, 1920, 1080, true)}); err != nil {
		t.Fatalf("initial Replace failed: %v", err)
	}

	bad := []Descriptor{testMonitor("x", 0, 0, 800, 600, true), testMonitor("x", 800, 0, 800, 600, false)}
	if err := s.Replace(bad); err == nil {
		t.Fatalf("Replace with duplicate ids succeeded, want error")
	}

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != "a" {
		t.Errorf("set after failed Replace = %+v, want the original single monitor", snap)
	}
}

func TestSetSnapshotIsACopy(t *testing.T) {
	s := NewSet()
	if err := s.Replace([]Descriptor{testMonitor("a", 0, 0, 1920, 1080, true)}); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	snap := s.Snapshot()
	snap[0].ID = "mutated"

	if got := s.Snapshot()[0].ID; got != "a" {
		t.Errorf("snapshot mutation leaked into set: id = %q, want %q", got, "a")
	}
}

func TestSetPrimary(t *testing.T) {
	s := NewSet()
	if _, ok := s.Primary(); ok {
		t.Fatalf("Primary() on empty set returned ok")
	}

	monitors := []Descriptor{
		testMonitor("left", 0, 0, 1920, 1080, false),
		testMonitor("right", 1920, 0, 1920, 1080, true),
	}
	if err := s.Replace(monitors); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if p, ok := s.Primary(); !ok || p.ID != "right" {
		t.Errorf("Primary() = %+v, %v; want monitor %q", p, ok, "right")
	}

	// Without a primary flag the first monitor wins.
	monitors[1].Primary = false
	if err := s.Replace(monitors); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if p, ok := s.Primary(); !ok || p.ID != "left" {
		t.Errorf("Primary() fallback = %+v, %v; want monitor %q", p, ok, "left")
	}
}

type fakeSource struct {
	monitors []Descriptor
	err      error
}

func (f *fakeSource) Enumerate() ([]Descriptor, error) {
	return f.monitors, f.err
}

func TestSetRefreshFrom(t *testing.T) {
	s := NewSet()
	src := &fakeSource{monitors: []Descriptor{testMonitor("a", 0, 0, 1920, 1080, true)}}

	if err := s.RefreshFrom(src); err != nil {
		t.Fatalf("RefreshFrom failed: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	src.err = fmt.Errorf("randr query failed")
	if err := s.RefreshFrom(src); err == nil {
		t.Fatalf("RefreshFrom with failing source succeeded, want error")
	}
	// The previous set survives a failed refresh.
	if s.Len() != 1 {
		t.Errorf("Len() after failed refresh = %d, want 1", s.Len())
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name string
		d    *Descriptor
		want float64
	}{
		{"nil monitor", nil, 1.0},
		{"96 dpi", &Descriptor{DPIX: 96, DPIY: 96}, 1.0},
		{"120 dpi", &Descriptor{DPIX: 120, DPIY: 120}, 1.25},
		{"144 dpi", &Descriptor{DPIX: 144, DPIY: 144}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.d); got != tt.want {
				t.Errorf("Scale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDPIRoundTrip(t *testing.T) {
	// Scales of 1.25 and 1.5 are exact in binary floating point, so the
	// round trip must be exact too.
	monitors := []Descriptor{
		{ID: "hidpi", DPIX: 120, DPIY: 120},
		{ID: "retina", DPIX: 144, DPIY: 144},
	}
	rects := []geometry.Rect{
		{X: 100, Y: 200, Width: 300, Height: 400},
		{X: -64, Y: 0, Width: 1920, Height: 1080},
	}

	for _, m := range monitors {
		for _, r := range rects {
			got := ToLogical(ToPhysical(r, &m), &m)
			if got != r {
				t.Errorf("round trip on %s of %+v = %+v", m.ID, r, got)
			}
		}
	}
}

func TestToPhysical(t *testing.T) {
	m := Descriptor{ID: "hidpi", DPIX: 144, DPIY: 144}
	// 1.5 scale: (10, 20, 100, 200) -> (15, 30, 150, 300)
	got := ToPhysical(geometry.Rect{X: 10, Y: 20, Width: 100, Height: 200}, &m)
	want := geometry.Rect{X: 15, Y: 30, Width: 150, Height: 300}
	if got != want {
		t.Errorf("ToPhysical = %+v, want %+v", got, want)
	}
}

func TestToLogicalGuardsNonPositiveScale(t *testing.T) {
	r := geometry.Rect{X: 10, Y: 20, Width: 100, Height: 200}
	// A zero-DPI descriptor cannot come out of Set.Replace, but hand-built
	// values must not divide by zero.
	broken := &Descriptor{ID: "broken", DPIX: 0, DPIY: 0}
	if got := ToLogical(r, broken); got != r {
		t.Errorf("ToLogical with zero scale = %+v, want input %+v", got, r)
	}
}

func TestContainingPoint(t *testing.T) {
	monitors := []Descriptor{
		testMonitor("left", 0, 0, 1920, 1080, true),
		testMonitor("right", 1920, 0, 1920, 1080, false),
	}

	tests := []struct {
		name   string
		p      geometry.Point
		wantID string
	}{
		{"left interior", geometry.Point{X: 500, Y: 500}, "left"},
		{"seam belongs to right", geometry.Point{X: 1920, Y: 500}, "right"},
		{"right interior", geometry.Point{X: 3000, Y: 500}, "right"},
		{"outside all", geometry.Point{X: -10, Y: 500}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContainingPoint(tt.p, monitors)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("ContainingPoint = %q, want nil", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("ContainingPoint = %v, want %q", got, tt.wantID)
			}
		})
	}
}

func TestContaining(t *testing.T) {
	monitors := []Descriptor{
		testMonitor("left", 0, 0, 1920, 1080, true),
		testMonitor("right", 1920, 0, 1920, 1080, false),
	}

	tests := []struct {
		name   string
		r      geometry.Rect
		wantID string
	}{
		{
			name: "entirely on left",
			r:    geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200},
			// no overlap with right at all
			wantID: "left",
		},
		{
			name: "straddles seam, biased right",
			// 100px on left (1820..1920), 200px on right (1920..2120)
			r:      geometry.Rect{X: 1820, Y: 100, Width: 300, Height: 200},
			wantID: "right",
		},
		{
			name: "off screen above right monitor",
			// center (2500, -100) is nearer right's center (2880, 540)
			// than left's (960, 540)
			r:      geometry.Rect{X: 2400, Y: -200, Width: 200, Height: 200},
			wantID: "right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Containing(tt.r, monitors)
			if got == nil || got.ID != tt.wantID {
				t.Errorf("Containing = %v, want %q", got, tt.wantID)
			}
		})
	}

	if got := Containing(geometry.Rect{Width: 10, Height: 10}, nil); got != nil {
		t.Errorf("Containing with empty set = %v, want nil", got)
	}
}

func TestIsFullyVisible(t *testing.T) {
	monitors := []Descriptor{
		testMonitor("left", 0, 0, 1920, 1080, true),
		testMonitor("right", 1920, 0, 1920, 1080, false),
	}

	tests := []struct {
		name string
		r    geometry.Rect
		want bool
	}{
		{"inside one monitor", geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200}, true},
		{"exact monitor fit", geometry.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}, true},
		// Both halves are on screen, but no single monitor contains it.
		{"straddles the seam", geometry.Rect{X: 1800, Y: 100, Width: 300, Height: 200}, false},
		{"hangs off the top", geometry.Rect{X: 100, Y: -10, Width: 300, Height: 200}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFullyVisible(tt.r, monitors); got != tt.want {
				t.Errorf("IsFullyVisible(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestIsPartiallyVisible(t *testing.T) {
	monitors := []Descriptor{testMonitor("only", 0, 0, 1920, 1080, true)}

	// 300x200 rect with its left half off screen: visible area is
	// 150*200 = 30000 of 60000 = exactly 0.5.
	half := geometry.Rect{X: -150, Y: 100, Width: 300, Height: 200}

	tests := []struct {
		name     string
		r        geometry.Rect
		fraction float64
		want     bool
	}{
		{"fully visible passes any fraction", geometry.Rect{X: 10, Y: 10, Width: 100, Height: 100}, 1.0, true},
		{"half visible at 0.5", half, 0.5, true},
		{"half visible fails 0.7", half, 0.7, false},
		{"fully off screen", geometry.Rect{X: -500, Y: 100, Width: 300, Height: 200}, 0.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPartiallyVisible(tt.r, monitors, tt.fraction); got != tt.want {
				t.Errorf("IsPartiallyVisible(%+v, %v) = %v, want %v", tt.r, tt.fraction, got, tt.want)
			}
		})
	}
}

func TestConstrainToScreen(t *testing.T) {
	monitors := []Descriptor{
		testMonitor("left", 0, 0, 1920, 1080, true),
		testMonitor("right", 1920, 0, 1920, 1080, false),
	}

	tests := []struct {
		name string
		r    geometry.Rect
		want geometry.Rect
	}{
		{
			name: "visible rect untouched",
			r:    geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200},
			want: geometry.Rect{X: 100, Y: 100, Width: 300, Height: 200},
		},
		{
			name: "pushed back from the right edge of the virtual screen",
			// right edge would be at 3900 > 3840; clamp x to 3840-300 = 3540
			r:    geometry.Rect{X: 3600, Y: 100, Width: 300, Height: 200},
			want: geometry.Rect{X: 3540, Y: 100, Width: 300, Height: 200},
		},
		{
			name: "pulled down from above",
			r:    geometry.Rect{X: 100, Y: -50, Width: 300, Height: 200},
			want: geometry.Rect{X: 100, Y: 0, Width: 300, Height: 200},
		},
		{
			name: "oversized rect shrinks to the monitor",
			r:    geometry.Rect{X: 100, Y: 100, Width: 2500, Height: 1300},
			want: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstrainToScreen(tt.r, monitors)
			if got != tt.want {
				t.Errorf("ConstrainToScreen(%+v) = %+v, want %+v", tt.r, got, tt.want)
			}
			// Constraining an already constrained rect changes nothing.
			if again := ConstrainToScreen(got, monitors); again != got {
				t.Errorf("ConstrainToScreen not idempotent: %+v then %+v", got, again)
			}
		})
	}
}

func TestConstrainToScreenEmptySet(t *testing.T) {
	r := geometry.Rect{X: 5000, Y: 5000, Width: 300, Height: 200}
	if got := ConstrainToScreen(r, nil); got != r {
		t.Errorf("ConstrainToScreen with no monitors = %+v, want input %+v", got, r)
	}
}
