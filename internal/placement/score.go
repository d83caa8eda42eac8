package placement

import (
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

// SelectPosition picks the best absolute position for the companion window
// from an ordered candidate list.
//
// It walks the visibility ladder from strict to loose. At each level every
// candidate is located and filtered by IsPartiallyVisible at that level's
// fraction; the first level with any survivor wins and the highest-scoring
// survivor at that level is returned. Scores start at 1.0, gain x1.5 when
// the candidate's axis matches the free-space preference, and x2.0 when the
// target hugs the right edge and the candidate is a left variant. Ties keep
// the earlier candidate.
//
// When no candidate survives any level, the first candidate is constrained
// onto the screen and returned. With no monitors at all the companion goes
// to a plain offset right of the target; callers get a usable point in
// every case.
func SelectPosition(target geometry.Rect, companion geometry.Size, candidates []RelativePosition, monitors []monitor.Descriptor, t Tuning) geometry.Point {
	if len(monitors) == 0 {
		return geometry.Point{X: target.Right() + t.Margin, Y: target.Y}
	}
	if len(candidates) == 0 {
		candidates = AllPositions()
	}

	mon := monitor.Containing(target, monitors)
	space := SpaceAround(target, mon)
	near := DetectNearEdges(space, mon, t)
	horizontalBetter := HorizontalSpaceBetter(space, companion, t)

	for _, level := range t.VisibilityLadder {
		best := geometry.Point{}
		bestScore := 0.0
		found := false

		for _, cand := range candidates {
			p := Locate(cand, target, companion, t.Margin)
			rect := geometry.RectAt(p, companion)
			if !monitor.IsPartiallyVisible(rect, monitors, level) {
				continue
			}

			score := 1.0
			axisMatch := (cand.Horizontal() && horizontalBetter) || (cand.Vertical() && !horizontalBetter)
			if axisMatch {
				score *= 1.5
			}
			if near.Has(EdgeRight) && cand.leftVariant() {
				score *= 2.0
			}

			if !found || score > bestScore {
				best = p
				bestScore = score
				found = true
			}
		}

		if found {
			return best
		}
	}

	rect := geometry.RectAt(Locate(candidates[0], target, companion, t.Margin), companion)
	return monitor.ConstrainToScreen(rect, monitors).Origin()
}
