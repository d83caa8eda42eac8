package placement

import (
	"testing"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

func fullHD() *monitor.Descriptor {
	bounds := geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	return &monitor.Descriptor{ID: "test", Bounds: bounds, WorkArea: bounds, Primary: true, DPIX: 96, DPIY: 96}
}

func TestSpaceAround(t *testing.T) {
	mon := fullHD()

	tests := []struct {
		name   string
		target geometry.Rect
		want   Space
	}{
		{
			name:   "interior window",
			target: geometry.Rect{X: 100, Y: 200, Width: 300, Height: 400},
			want:   Space{Left: 100, Right: 1520, Top: 200, Bottom: 480},
		},
		{
			name: "straddling the left edge goes negative",
			// left = -50 - 0 = -50
			target: geometry.Rect{X: -50, Y: 400, Width: 200, Height: 100},
			want:   Space{Left: -50, Right: 1770, Top: 400, Bottom: 580},
		},
		{
			name:   "wider than the monitor",
			target: geometry.Rect{X: -100, Y: 0, Width: 2200, Height: 1080},
			want:   Space{Left: -100, Right: -180, Top: 0, Bottom: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpaceAround(tt.target, mon); got != tt.want {
				t.Errorf("SpaceAround(%+v) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestDetectNearEdges(t *testing.T) {
	// 1920x1080 at 96 DPI: horizontal threshold 288, vertical 162,
	// right-edge threshold 288*1.25 = 360.
	mon := fullHD()
	tuning := DefaultTuning()

	tests := []struct {
		name  string
		space Space
		want  EdgeFlags
	}{
		{
			name:  "dead center",
			space: Space{Left: 810, Right: 810, Top: 440, Bottom: 440},
			want:  0,
		},
		{
			name: "right more sensitive than left",
			// 300 clears the 288 left threshold but not the 360 right one
			space: Space{Left: 300, Right: 300, Top: 400, Bottom: 400},
			want:  EdgeRight,
		},
		{
			name:  "negative space counts as near",
			space: Space{Left: -50, Right: 1770, Top: 400, Bottom: 580},
			want:  EdgeLeft,
		},
		{
			name:  "top-left corner",
			space: Space{Left: 100, Right: 1620, Top: 50, Bottom: 830},
			want:  EdgeLeft | EdgeTop,
		},
		{
			name:  "all edges on a tiny remaining gap",
			space: Space{Left: 10, Right: 10, Top: 10, Bottom: 10},
			want:  EdgeLeft | EdgeRight | EdgeTop | EdgeBottom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectNearEdges(tt.space, mon, tuning); got != tt.want {
				t.Errorf("DetectNearEdges(%+v) = %v, want %v", tt.space, got, tt.want)
			}
		})
	}
}

func TestDetectNearEdgesHighDPI(t *testing.T) {
	tuning := DefaultTuning()
	bounds := geometry.Rect{Width: 1920, Height: 1080}
	at96 := &monitor.Descriptor{ID: "lo", Bounds: bounds, WorkArea: bounds, DPIX: 96, DPIY: 96}
	// scale 1.5 inflates thresholds by 1+(1.5-1)*0.5 = 1.25:
	// right threshold becomes 288*1.25*1.25 = 450
	at144 := &monitor.Descriptor{ID: "hi", Bounds: bounds, WorkArea: bounds, DPIX: 144, DPIY: 144}

	space := Space{Left: 1000, Right: 400, Top: 500, Bottom: 480}

	if got := DetectNearEdges(space, at96, tuning); got != 0 {
		t.Errorf("96 DPI flags = %v, want none", got)
	}
	if got := DetectNearEdges(space, at144, tuning); got != EdgeRight {
		t.Errorf("144 DPI flags = %v, want %v", got, EdgeRight)
	}
}

func TestHorizontalSpaceBetter(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name      string
		space     Space
		companion geometry.Size
		want      bool
	}{
		{
			name: "wide open sides",
			// 1600/300*1.2 = 6.4 vs 780/200 = 3.9
			space:     Space{Left: 1600, Right: 20, Top: 100, Bottom: 780},
			companion: geometry.Size{Width: 300, Height: 200},
			want:      true,
		},
		{
			name: "tall open column",
			// 100/200*1.2 = 0.6 vs 800/100 = 8
			space:     Space{Left: 100, Right: 100, Top: 800, Bottom: 800},
			companion: geometry.Size{Width: 200, Height: 100},
			want:      false,
		},
		{
			name: "factor tips a close call",
			// raw space favors vertical (450 > 400) but 400/100*1.2 = 4.8 > 4.5
			space:     Space{Left: 400, Right: 0, Top: 450, Bottom: 0},
			companion: geometry.Size{Width: 100, Height: 100},
			want:      true,
		},
		{
			name:      "zero space everywhere ties horizontal",
			space:     Space{},
			companion: geometry.Size{Width: 100, Height: 100},
			want:      true,
		},
		{
			name:      "degenerate companion prefers horizontal",
			space:     Space{Left: 10, Right: 10, Top: 900, Bottom: 900},
			companion: geometry.Size{},
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HorizontalSpaceBetter(tt.space, tt.companion, tuning); got != tt.want {
				t.Errorf("HorizontalSpaceBetter(%+v, %+v) = %v, want %v", tt.space, tt.companion, got, tt.want)
			}
		})
	}
}

func TestEdgeFlagsString(t *testing.T) {
	tests := []struct {
		flags EdgeFlags
		want  string
	}{
		{0, "none"},
		{EdgeRight, "right"},
		{EdgeLeft | EdgeTop, "left,top"},
		{EdgeLeft | EdgeRight | EdgeTop | EdgeBottom, "left,right,top,bottom"},
	}

	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.want {
			t.Errorf("EdgeFlags(%d).String() = %q, want %q", tt.flags, got, tt.want)
		}
	}
}
