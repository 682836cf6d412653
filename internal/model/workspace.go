package model

import (
	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/layout"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

// WorkspacesPerMonitor is the fixed workspace array size per monitor
// (spec.md §3: "default 9").
const WorkspacesPerMonitor = 9

// FloatSentinel is the focus-cursor value meaning "a floating window is
// focused" (spec.md §3: "or a sentinel for 'floating focused'").
const FloatSentinel = -1

// Workspace is a single monitor's tiling list plus its floating set
// (spec.md §3). Tiling holds only windows the layout engine currently
// computes a slot for; a minimized window is removed from Tiling and
// tracked in Minimized instead (spec.md §4.5: "remove from tiling list and
// mark minimized but retain in workspace membership under a 'minimized'
// set").
type Workspace struct {
	Tiling   []windowmodel.Hwnd
	Floating map[windowmodel.Hwnd]bool
	// Minimized maps a minimized window back to the Tiling slot index it
	// occupied, so Restored can reinsert it there (spec.md §4.5).
	Minimized map[windowmodel.Hwnd]int

	// FocusIndex indexes Tiling, or is FloatSentinel.
	FocusIndex int
	// FocusedFloat is the floating hwnd focused when FocusIndex ==
	// FloatSentinel.
	FocusedFloat windowmodel.Hwnd

	Layout      layout.Kind
	Monocle     bool
	Adjustments []layout.Adjustment
}

// NewWorkspace returns an empty workspace with the default layout.
func NewWorkspace() *Workspace {
	return &Workspace{
		Floating:   make(map[windowmodel.Hwnd]bool),
		Minimized:  make(map[windowmodel.Hwnd]int),
		FocusIndex: FloatSentinel,
		Layout:     layout.BSPV,
	}
}

// visibleTiling returns the tiling list the layout engine computes slots
// for. Minimized windows are never in Tiling, so this is just Tiling
// itself; it exists so call sites read the same as spec.md §4.5's "gather
// its tiling list (excluding minimized)".
func (w *Workspace) visibleTiling() []windowmodel.Hwnd {
	return w.Tiling
}

// Rects computes the target rectangle for every visible tiling slot in
// order (spec.md §4.3/§4.5), insetting each by gapPx
// (internal/config.Config.GapSize, SPEC_FULL.md §10.3). Under monocle, the
// focused slot fills workArea exactly (no gap against the screen edge) and
// every other slot gets a zero rect; visible still lists every tiling hwnd.
func (w *Workspace) Rects(workArea geom.Rect, gapPx int) (visible []windowmodel.Hwnd, rects []geom.Rect) {
	visible = w.visibleTiling()
	if len(visible) == 0 {
		return visible, nil
	}

	if w.Monocle {
		idx := w.FocusIndex
		if idx < 0 || idx >= len(visible) {
			idx = 0
		}
		rects = make([]geom.Rect, len(visible))
		rects[idx] = workArea
		return visible, rects
	}

	return visible, layout.Compute(w.Layout, workArea, len(visible), w.Adjustments, gapPx)
}

// indexOf returns the tiling-list index of hwnd, or -1.
func (w *Workspace) indexOf(h windowmodel.Hwnd) int {
	for i, x := range w.Tiling {
		if x == h {
			return i
		}
	}
	return -1
}

// clampFocus keeps FocusIndex within visibleTiling's bounds after a removal
// (spec.md §4.4: "When a tiling list shrinks, the focus cursor clamps to
// min(old, new_len-1)").
func (w *Workspace) clampFocus() {
	n := len(w.visibleTiling())
	if n == 0 {
		w.FocusIndex = FloatSentinel
		return
	}
	if w.FocusIndex == FloatSentinel {
		return
	}
	if w.FocusIndex >= n {
		w.FocusIndex = n - 1
	}
	if w.FocusIndex < 0 {
		w.FocusIndex = 0
	}
}

// removeFromTiling deletes h from Tiling if present, leaving Floating and
// Minimized untouched (callers that need those cleared do so explicitly).
func (w *Workspace) removeFromTiling(h windowmodel.Hwnd) {
	idx := w.indexOf(h)
	if idx < 0 {
		return
	}
	w.Tiling = append(w.Tiling[:idx], w.Tiling[idx+1:]...)
	w.clampFocus()
}

// Holds reports whether h is tracked anywhere in this workspace: tiling,
// minimized, or floating.
func (w *Workspace) Holds(h windowmodel.Hwnd) bool {
	if w.indexOf(h) >= 0 {
		return true
	}
	if _, ok := w.Minimized[h]; ok {
		return true
	}
	return w.Floating[h]
}

// FocusedTilingHwnd returns the hwnd at FocusIndex, if any tiling window is
// focused.
func (w *Workspace) FocusedTilingHwnd() (windowmodel.Hwnd, bool) {
	if w.FocusIndex == FloatSentinel || w.FocusIndex < 0 || w.FocusIndex >= len(w.Tiling) {
		return 0, false
	}
	return w.Tiling[w.FocusIndex], true
}

// insertTilingAfterFocus inserts h just after the current focus index, the
// default insertion policy (spec.md §4.4).
func (w *Workspace) insertTilingAfterFocus(h windowmodel.Hwnd) {
	pos := len(w.Tiling)
	if w.FocusIndex != FloatSentinel && w.FocusIndex >= 0 && w.FocusIndex < len(w.Tiling) {
		pos = w.FocusIndex + 1
	}
	w.Tiling = append(w.Tiling, 0)
	copy(w.Tiling[pos+1:], w.Tiling[pos:])
	w.Tiling[pos] = h
	w.FocusIndex = pos
}
