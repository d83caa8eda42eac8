package placement

import (
	"github.com/1broseidon/wingman/internal/geometry"
)

// Candidates produces the ordered list of positions to try for a companion
// of the given size. The list always contains every RelativePosition exactly
// once, so the scorer never runs out of fallbacks.
//
// Ordering rules, strongest first:
//   - Target near the right edge: left variants lead unconditionally. A
//     companion pushed past the right edge is the one placement users always
//     complain about, so this overrides every other signal.
//   - Target in a corner (two perpendicular edges near): the opposite
//     diagonal leads.
//   - Target near a single edge: the pair directly away from that edge
//     leads, centered variant first.
//
// Whatever the seed, the remaining positions follow ordered by free space:
// the preferred axis block first, and within each block the side with more
// room before the tighter one.
func Candidates(near EdgeFlags, space Space, companion geometry.Size, t Tuning) []RelativePosition {
	var seed []RelativePosition
	switch {
	case near.Has(EdgeRight):
		seed = []RelativePosition{PosLeftCentered, PosLeft}
	case near.Has(EdgeLeft | EdgeTop):
		seed = []RelativePosition{PosBottomRight}
	case near.Has(EdgeLeft | EdgeBottom):
		seed = []RelativePosition{PosTopRight}
	case near.Has(EdgeLeft):
		seed = []RelativePosition{PosRightCentered, PosRight}
	case near.Has(EdgeTop):
		seed = []RelativePosition{PosBelowCentered, PosBelow}
	case near.Has(EdgeBottom):
		seed = []RelativePosition{PosAboveCentered, PosAbove}
	}

	out := make([]RelativePosition, 0, positionCount)
	var seen [positionCount]bool
	add := func(p RelativePosition) {
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, p := range seed {
		add(p)
	}
	for _, p := range preferredOrder(space, companion, t) {
		add(p)
	}
	return out
}

// preferredOrder enumerates all twelve positions ordered purely by available
// space: preferred axis first, roomier side first, diagonals last.
func preferredOrder(space Space, companion geometry.Size, t Tuning) []RelativePosition {
	horizontal := []RelativePosition{PosRightCentered, PosRight, PosLeftCentered, PosLeft}
	if space.Left > space.Right {
		horizontal = []RelativePosition{PosLeftCentered, PosLeft, PosRightCentered, PosRight}
	}
	vertical := []RelativePosition{PosBelowCentered, PosBelow, PosAboveCentered, PosAbove}
	if space.Top > space.Bottom {
		vertical = []RelativePosition{PosAboveCentered, PosAbove, PosBelowCentered, PosBelow}
	}

	diagonals := orderedDiagonals(space)

	order := make([]RelativePosition, 0, positionCount)
	if HorizontalSpaceBetter(space, companion, t) {
		order = append(order, horizontal...)
		order = append(order, vertical...)
	} else {
		order = append(order, vertical...)
		order = append(order, horizontal...)
	}
	return append(order, diagonals...)
}

func orderedDiagonals(space Space) []RelativePosition {
	rightFirst := space.Right >= space.Left
	bottomFirst := space.Bottom >= space.Top
	switch {
	case rightFirst && bottomFirst:
		return []RelativePosition{PosBottomRight, PosBottomLeft, PosTopRight, PosTopLeft}
	case rightFirst:
		return []RelativePosition{PosTopRight, PosTopLeft, PosBottomRight, PosBottomLeft}
	case bottomFirst:
		return []RelativePosition{PosBottomLeft, PosBottomRight, PosTopLeft, PosTopRight}
	default:
		return []RelativePosition{PosTopLeft, PosTopRight, PosBottomLeft, PosBottomRight}
	}
}
