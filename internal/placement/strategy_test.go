package placement

import (
	"path/filepath"
	"testing"

	"github.com/1broseidon/wingman/internal/geometry"
)

func TestNewStrategy(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name     string
		strategy string
		opts     Options
		wantName string
		wantErr  bool
	}{
		{name: "empty name defaults to smart", strategy: "", wantName: "smart"},
		{name: "smart", strategy: "smart", wantName: "smart"},
		{name: "center", strategy: "center", wantName: "center"},
		{name: "fixed offset", strategy: "fixed-offset", opts: Options{OffsetX: 20, OffsetY: 30}, wantName: "fixed-offset"},
		{name: "edge dock", strategy: "edge-dock", opts: Options{DockEdge: "right"}, wantName: "edge-dock"},
		{name: "edge dock without edge", strategy: "edge-dock", wantErr: true},
		{name: "unknown strategy", strategy: "magnetic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.strategy, tuning, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) succeeded, want error", tt.strategy)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tt.strategy, err)
			}
			if s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestNamesMatchRegistry(t *testing.T) {
	tuning := DefaultTuning()
	opts := Options{DockEdge: "left", StatePath: filepath.Join(t.TempDir(), "offset.json")}

	for _, name := range Names() {
		s, err := New(name, tuning, opts)
		if err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
			continue
		}
		if s.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, s.Name())
		}
	}
}

func TestCenterStrategy(t *testing.T) {
	monitors := singleFullHD()
	target := geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	companion := geometry.Size{Width: 300, Height: 200}

	c := &Center{tuning: DefaultTuning()}
	got, err := c.Position(target, companion, monitors)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	// work-area center (960, 540) minus half the companion
	want := geometry.Point{X: 810, Y: 440}
	if got != want {
		t.Errorf("Position = %+v, want %+v", got, want)
	}
}

func TestFixedOffsetStrategy(t *testing.T) {
	monitors := singleFullHD()
	companion := geometry.Size{Width: 300, Height: 200}
	f := &FixedOffset{tuning: DefaultTuning(), DX: 50, DY: 60}

	t.Run("plain offset", func(t *testing.T) {
		got, err := f.Position(geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}, companion, monitors)
		if err != nil {
			t.Fatalf("Position failed: %v", err)
		}
		if want := (geometry.Point{X: 150, Y: 160}); got != want {
			t.Errorf("Position = %+v, want %+v", got, want)
		}
	})

	t.Run("clamped at the screen edge", func(t *testing.T) {
		wide := &FixedOffset{tuning: DefaultTuning(), DX: 200, DY: 0}
		got, err := wide.Position(geometry.Rect{X: 1800, Y: 100, Width: 100, Height: 100}, companion, monitors)
		if err != nil {
			t.Fatalf("Position failed: %v", err)
		}
		// raw x = 2000 would hang off; clamped to 1920-300 = 1620
		if want := (geometry.Point{X: 1620, Y: 100}); got != want {
			t.Errorf("Position = %+v, want %+v", got, want)
		}
	})
}

func TestEdgeDockStrategy(t *testing.T) {
	monitors := singleFullHD()
	target := geometry.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	companion := geometry.Size{Width: 300, Height: 200}
	tuning := DefaultTuning()

	tests := []struct {
		edge string
		want geometry.Point
	}{
		// x = 1920-300-10
		{"right", geometry.Point{X: 1610, Y: 100}},
		{"left", geometry.Point{X: 10, Y: 100}},
		{"top", geometry.Point{X: 100, Y: 10}},
		// y = 1080-200-10
		{"bottom", geometry.Point{X: 100, Y: 870}},
	}

	for _, tt := range tests {
		t.Run(tt.edge, func(t *testing.T) {
			s, err := New("edge-dock", tuning, Options{DockEdge: tt.edge})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			got, err := s.Position(target, companion, monitors)
			if err != nil {
				t.Fatalf("Position failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Position = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRememberedStrategy(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "offset.json")
	monitors := singleFullHD()
	target := geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}
	companion := geometry.Size{Width: 300, Height: 200}
	tuning := DefaultTuning()

	r, err := NewRemembered(NewOffsetStore(statePath), tuning)
	if err != nil {
		t.Fatalf("NewRemembered failed: %v", err)
	}

	// With nothing observed yet it matches smart placement.
	smartPos, err := NewSmart(tuning).Position(target, companion, monitors)
	if err != nil {
		t.Fatalf("smart Position failed: %v", err)
	}
	got, err := r.Position(target, companion, monitors)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if got != smartPos {
		t.Errorf("unobserved Position = %+v, want smart's %+v", got, smartPos)
	}

	// Observe an applied placement, then expect the same relative offset on
	// a moved target.
	if err := r.Observe(target, geometry.Point{X: target.X + 42, Y: target.Y - 24}); err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	moved := geometry.Rect{X: 700, Y: 500, Width: 200, Height: 200}
	got, err = r.Position(moved, companion, monitors)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if want := (geometry.Point{X: 742, Y: 476}); got != want {
		t.Errorf("Position after Observe = %+v, want %+v", got, want)
	}

	// A fresh instance picks the offset back up from disk.
	r2, err := NewRemembered(NewOffsetStore(statePath), tuning)
	if err != nil {
		t.Fatalf("NewRemembered reload failed: %v", err)
	}
	got, err = r2.Position(moved, companion, monitors)
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if want := (geometry.Point{X: 742, Y: 476}); got != want {
		t.Errorf("reloaded Position = %+v, want %+v", got, want)
	}
}

func TestStrategiesDegradeWithoutMonitors(t *testing.T) {
	target := geometry.Rect{X: 100, Y: 200, Width: 300, Height: 150}
	companion := geometry.Size{Width: 300, Height: 200}
	tuning := DefaultTuning()

	strategies := []Strategy{
		NewSmart(tuning),
		&Center{tuning: tuning},
		&EdgeDock{tuning: tuning, Edge: EdgeRight},
	}

	// offset fallback: right of the target with the standard margin
	want := geometry.Point{X: 410, Y: 200}
	for _, s := range strategies {
		got, err := s.Position(target, companion, nil)
		if err != nil {
			t.Errorf("%s: Position failed: %v", s.Name(), err)
			continue
		}
		if got != want {
			t.Errorf("%s: Position = %+v, want %+v", s.Name(), got, want)
		}
	}
}
