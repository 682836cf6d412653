// Package layout is the pure tiling-geometry engine: given a layout kind,
// a work area, a slot count, and a set of resize adjustments, it computes
// the target rectangle for every tiling slot. It holds no window state and
// makes no OS calls.
package layout

import (
	"fmt"

	"github.com/yatta-wm/yatta/internal/geom"
)

// Kind names a base tiling layout. Monocle is a view-only toggle over the
// active Kind, not a Kind itself (spec.md §4.3).
type Kind int

const (
	BSPV Kind = iota // default: recursive right-then-down bisection
	BSPH              // recursive down-then-right bisection
	Columns
	Rows
)

func (k Kind) String() string {
	switch k {
	case BSPV:
		return "bspv"
	case BSPH:
		return "bsph"
	case Columns:
		return "columns"
	case Rows:
		return "rows"
	default:
		return "unknown"
	}
}

// ParseKind parses the CLI/IPC spelling of a layout kind (spec.md §6).
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "bspv":
		return BSPV, true
	case "bsph":
		return BSPH, true
	case "columns":
		return Columns, true
	case "rows":
		return Rows, true
	default:
		return 0, false
	}
}

// MinSlotSize is the minimum width and height a resize adjustment may leave
// a slot with (spec.md §4.3).
const MinSlotSize = 100

// Adjustment is a user resize of one slot's edge, applied after the pure
// split (spec.md §4.3). The neighbouring slot absorbs DeltaPx.
type Adjustment struct {
	SlotIndex int
	Edge      geom.Edge
	DeltaPx   int
}

// Compute returns the n tiling-slot rectangles for kind within workArea,
// with adjustments applied and gapPx of spacing inset around every slot
// (internal/config.Config.GapSize, SPEC_FULL.md §10.3). It never returns
// an error for a known Kind — callers validate the Kind before calling
// (reconciler.ParseLayoutKind surfaces NoSuchLayout for bad input; this
// package only ever sees valid values).
func Compute(kind Kind, workArea geom.Rect, n int, adjustments []Adjustment, gapPx int) []geom.Rect {
	if n <= 0 {
		return nil
	}

	var rects []geom.Rect
	switch kind {
	case BSPV:
		rects = splitBSP(workArea, n, geom.AxisHorizontal)
	case BSPH:
		rects = splitBSP(workArea, n, geom.AxisVertical)
	case Columns:
		rects = splitEqual(workArea, n, geom.AxisHorizontal)
	case Rows:
		rects = splitEqual(workArea, n, geom.AxisVertical)
	default:
		rects = splitBSP(workArea, n, geom.AxisHorizontal)
	}

	rects = applyAdjustments(kind, rects, adjustments)
	return applyGap(rects, gapPx)
}

// applyGap insets every slot by gapPx/2 on each side, after adjacency-
// sensitive adjustments have already run (adjacentSlot assumes gapless,
// axis-aligned input). Halves round down; MinSlotSize isn't re-enforced
// here since the inset is symmetric and tiny relative to tiled windows.
func applyGap(rects []geom.Rect, gapPx int) []geom.Rect {
	if gapPx <= 0 {
		return rects
	}
	half := gapPx / 2
	for i := range rects {
		rects[i].X += half
		rects[i].Y += half
		rects[i].Width -= gapPx
		rects[i].Height -= gapPx
		if rects[i].Width < 1 {
			rects[i].Width = 1
		}
		if rects[i].Height < 1 {
			rects[i].Height = 1
		}
	}
	return rects
}

// splitBSP implements the recursive bisection described in spec.md §4.3:
// at recursion depth d the current rect is split along startAxis (d even)
// or the other axis (d odd); slot 0 of each recursion goes to the first
// child, the remaining n-1 slots recurse into the second child. n=1 fills
// the rect.
func splitBSP(r geom.Rect, n int, startAxis geom.Axis) []geom.Rect {
	rects := make([]geom.Rect, 0, n)
	bisect(r, n, startAxis, &rects)
	return rects
}

func bisect(r geom.Rect, n int, axis geom.Axis, out *[]geom.Rect) {
	if n <= 1 {
		*out = append(*out, r)
		return
	}
	first, second := geom.Split(r, axis, 0.5)
	*out = append(*out, first)
	bisect(second, n-1, otherAxis(axis), out)
}

func otherAxis(a geom.Axis) geom.Axis {
	if a == geom.AxisHorizontal {
		return geom.AxisVertical
	}
	return geom.AxisHorizontal
}

// splitEqual divides r into n equal slots along axis, in order (Columns /
// Rows, spec.md §4.3). Pixel remainder from integer division is absorbed
// by the last slot so the slots still sum exactly to r.
func splitEqual(r geom.Rect, n int, axis geom.Axis) []geom.Rect {
	rects := make([]geom.Rect, n)
	switch axis {
	case geom.AxisHorizontal:
		base := r.Width / n
		used := 0
		for i := 0; i < n; i++ {
			w := base
			if i == n-1 {
				w = r.Width - used
			}
			rects[i] = geom.Rect{X: r.X + used, Y: r.Y, Width: w, Height: r.Height}
			used += w
		}
	default:
		base := r.Height / n
		used := 0
		for i := 0; i < n; i++ {
			h := base
			if i == n-1 {
				h = r.Height - used
			}
			rects[i] = geom.Rect{X: r.X, Y: r.Y + used, Width: r.Width, Height: h}
			used += h
		}
	}
	return rects
}

// splitAxis reports which axis a layout kind's grid is split along, for
// the purpose of deciding which edges are adjustable (spec.md §4.3: "In
// non-BSP layouts, only edges along the split axis are adjustable").
// BSP layouts alternate axis per depth, so every edge is eligible there.
func splitAxis(kind Kind) (axis geom.Axis, isBSP bool) {
	switch kind {
	case Columns:
		return geom.AxisHorizontal, false
	case Rows:
		return geom.AxisVertical, false
	default:
		return 0, true
	}
}

// applyAdjustments grows/shrinks the named slot's edge by DeltaPx, with the
// adjacent slot absorbing the delta, clamped so neither slot falls below
// MinSlotSize. Adjustments against an out-of-range slot, a slot with no
// neighbour on that edge, or (in non-BSP layouts) an edge off the split
// axis are silently ignored (spec.md §4.3).
func applyAdjustments(kind Kind, rects []geom.Rect, adjustments []Adjustment) []geom.Rect {
	axis, isBSP := splitAxis(kind)

	for _, adj := range adjustments {
		if adj.SlotIndex < 0 || adj.SlotIndex >= len(rects) {
			continue
		}
		if !isBSP && adj.Edge.Axis() != axis {
			continue
		}

		neighbour := adjacentSlot(rects, adj.SlotIndex, adj.Edge)
		if neighbour < 0 {
			continue
		}

		applyOneAdjustment(rects, adj.SlotIndex, neighbour, adj.Edge, adj.DeltaPx)
	}

	return rects
}

// adjacentSlot finds the slot sharing the edge opposite adj.Edge with
// rects[slot] — i.e. the neighbour that would absorb a resize of that edge.
// Slots are assumed axis-aligned and gapless, as produced by Compute above.
func adjacentSlot(rects []geom.Rect, slot int, edge geom.Edge) int {
	r := rects[slot]
	for i, o := range rects {
		if i == slot {
			continue
		}
		switch edge {
		case geom.EdgeRight:
			if o.X == r.X+r.Width && overlapsVertically(r, o) {
				return i
			}
		case geom.EdgeLeft:
			if r.X == o.X+o.Width && overlapsVertically(r, o) {
				return i
			}
		case geom.EdgeBottom:
			if o.Y == r.Y+r.Height && overlapsHorizontally(r, o) {
				return i
			}
		case geom.EdgeTop:
			if r.Y == o.Y+o.Height && overlapsHorizontally(r, o) {
				return i
			}
		}
	}
	return -1
}

func overlapsVertically(a, b geom.Rect) bool {
	return a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func overlapsHorizontally(a, b geom.Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width
}

// applyOneAdjustment grows/shrinks slot's edge by deltaPx, shrinking/growing
// neighbour by the same amount, clamped to MinSlotSize on both sides.
func applyOneAdjustment(rects []geom.Rect, slot, neighbour int, edge geom.Edge, deltaPx int) {
	delta := deltaPx

	switch edge {
	case geom.EdgeRight, geom.EdgeLeft:
		delta = clampDelta(delta, rects[slot].Width, rects[neighbour].Width)
	default:
		delta = clampDelta(delta, rects[slot].Height, rects[neighbour].Height)
	}
	if delta == 0 {
		return
	}

	switch edge {
	case geom.EdgeRight:
		rects[slot].Width += delta
		rects[neighbour].X += delta
		rects[neighbour].Width -= delta
	case geom.EdgeLeft:
		rects[slot].X -= delta
		rects[slot].Width += delta
		rects[neighbour].Width -= delta
	case geom.EdgeBottom:
		rects[slot].Height += delta
		rects[neighbour].Y += delta
		rects[neighbour].Height -= delta
	case geom.EdgeTop:
		rects[slot].Y -= delta
		rects[slot].Height += delta
		rects[neighbour].Height -= delta
	}
}

// clampDelta limits a requested delta (positive grows growDim's slot and
// shrinks shrinkDim's slot; negative the reverse) so neither slot's
// affected dimension crosses MinSlotSize.
func clampDelta(delta, growDim, shrinkDim int) int {
	if delta > 0 {
		if max := shrinkDim - MinSlotSize; delta > max {
			delta = max
		}
		if delta < 0 {
			delta = 0
		}
		return delta
	}
	if delta < 0 {
		if min := -(growDim - MinSlotSize); delta < min {
			delta = min
		}
		if delta > 0 {
			delta = 0
		}
		return delta
	}
	return 0
}

// ValidationError reports an unrecognized layout kind string. Nothing in
// this module returns it: clients see an unrecognized kind as the
// NoSuchLayout error kind from reconciler.ParseLayoutKind.
type ValidationError struct {
	Kind string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("layout: unrecognized kind %q", e.Kind)
}
