package model

import (
	"testing"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/layout"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

var fullHD = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

func newTestWorld() *World {
	w := NewWorld()
	w.Monitors = []*Monitor{NewMonitor(1, fullHD)}
	return w
}

func show(w *World, h windowmodel.Hwnd, manageable bool) {
	w.OnShown(&windowmodel.Window{Hwnd: h, Manageable: manageable, CurrentRect: fullHD})
}

// S3 + S5: insert A,B,C, focus right (A->B), move down -> order A,C,B with
// geometry {A:(0,0,960,1080), C:(960,0,960,540), B:(960,540,960,540)}.
func TestScenarioS5(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true) // A
	show(w, 2, true) // B
	show(w, 3, true) // C

	mon := w.Monitors[0]
	ws := mon.ActiveWorkspace()
	if got := ws.Tiling; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected insertion order A,B,C got %v", got)
	}

	// Focus starts on C (last shown, inserted after focus). Move focus to A first.
	ws.FocusIndex = 0 // simulate "focus A" directly: index 0 in Tiling is A

	if err := w.Focus(geom.DirRight); err != nil {
		t.Fatalf("focus right: %v", err)
	}
	// From A (slot 0, full-height left half), right neighbour should be B or C
	// depending on geometry; per S3 B occupies upper-right, C lower-right.
	// Centers: A(480,540) B(1440,270) C(1440,810). Going right from A should
	// pick whichever is nearest — both are "right", tie broken by Manhattan
	// distance: B dist=960+270=1230, C dist=960+270=1230 (symmetric); index
	// tiebreak picks the lower index, which is B (slot 1).
	focused := ws.Tiling[ws.FocusIndex]
	if focused != 2 {
		t.Fatalf("expected focus on B (hwnd 2) after focus-right from A, got hwnd %d", focused)
	}

	if err := w.Move(geom.DirDown); err != nil {
		t.Fatalf("move down: %v", err)
	}
	if got := ws.Tiling; len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 2 {
		t.Fatalf("expected order A,C,B (1,3,2) after move down, got %v", got)
	}

	_, rects := ws.Rects(fullHD, 0)
	want := []geom.Rect{
		{0, 0, 960, 1080},
		{960, 0, 960, 540},
		{960, 540, 960, 540},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Fatalf("slot %d: got %+v want %+v", i, rects[i], want[i])
		}
	}
}

// S6: layout columns from S3 -> three 640-wide full-height columns.
func TestScenarioS6(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	show(w, 3, true)

	if err := w.SetLayout(layout.Columns); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	_, rects := w.Monitors[0].ActiveWorkspace().Rects(fullHD, 0)
	want := []geom.Rect{
		{0, 0, 640, 1080},
		{640, 0, 640, 1080},
		{1280, 0, 640, 1080},
	}
	for i := range want {
		if rects[i] != want[i] {
			t.Fatalf("slot %d: got %+v want %+v", i, rects[i], want[i])
		}
	}
}

// Invariant 1: disjointness — no hwnd in two workspaces.
func TestInvariantDisjointness(t *testing.T) {
	w := newTestWorld()
	w.Monitors = append(w.Monitors, NewMonitor(2, fullHD))
	show(w, 1, true)

	if err := w.MoveWindowToWorkspace(3); err != nil {
		t.Fatalf("move to workspace: %v", err)
	}

	seen := 0
	for _, mon := range w.Monitors {
		for _, ws := range mon.Workspaces {
			if ws.indexOf(1) >= 0 || ws.Floating[1] {
				seen++
			}
		}
	}
	if seen != 1 {
		t.Fatalf("expected hwnd to appear in exactly 1 workspace, found %d", seen)
	}
}

// Invariant 2: focus cursor always refers to an existing window or sentinel.
func TestInvariantFocusValidAfterDestroy(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	w.OnDestroyed(2)

	ws := w.Monitors[0].ActiveWorkspace()
	if ws.FocusIndex != FloatSentinel {
		if ws.FocusIndex < 0 || ws.FocusIndex >= len(ws.Tiling) {
			t.Fatalf("focus index %d out of bounds for len %d", ws.FocusIndex, len(ws.Tiling))
		}
	}
}

// Invariant 3: a floating window is never in a tiling list.
func TestInvariantFloatingNeverInTiling(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	if err := w.ToggleFloat(); err != nil {
		t.Fatalf("toggle float: %v", err)
	}
	ws := w.Monitors[0].ActiveWorkspace()
	if ws.indexOf(1) >= 0 {
		t.Fatalf("floating window must not remain in Tiling")
	}
	if !ws.Floating[1] {
		t.Fatalf("expected window in Floating set")
	}
}

// Property 3: swap involution — move(d) then move(opposite(d)) restores order.
func TestSwapInvolution(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	show(w, 3, true)
	ws := w.Monitors[0].ActiveWorkspace()
	before := append([]windowmodel.Hwnd(nil), ws.Tiling...)

	ws.FocusIndex = 0
	if err := w.Move(geom.DirRight); err != nil {
		t.Fatalf("move right: %v", err)
	}
	if err := w.Move(geom.DirLeft); err != nil {
		t.Fatalf("move left: %v", err)
	}

	after := ws.Tiling
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("swap involution broken: before %v after %v", before, after)
		}
	}
}

// Property 4: promote twice on slots 0,1 is the identity.
func TestPromoteIdempotence(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	ws := w.Monitors[0].ActiveWorkspace()
	before := append([]windowmodel.Hwnd(nil), ws.Tiling...)

	if err := w.Promote(); err != nil {
		t.Fatalf("promote 1: %v", err)
	}
	if err := w.Promote(); err != nil {
		t.Fatalf("promote 2: %v", err)
	}

	after := ws.Tiling
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("promote twice should be identity: before %v after %v", before, after)
		}
	}
}

// Property 5: monocle reversibility.
func TestMonocleReversibility(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	ws := w.Monitors[0].ActiveWorkspace()

	_, before := ws.Rects(fullHD, 0)
	focusBefore := ws.FocusIndex

	if err := w.ToggleMonocle(); err != nil {
		t.Fatalf("monocle on: %v", err)
	}
	if err := w.ToggleMonocle(); err != nil {
		t.Fatalf("monocle off: %v", err)
	}

	_, after := ws.Rects(fullHD, 0)
	if ws.FocusIndex != focusBefore {
		t.Fatalf("focus changed across monocle round-trip: %d -> %d", focusBefore, ws.FocusIndex)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("geometry changed across monocle round-trip: %+v -> %+v", before, after)
		}
	}
}

// Property 6: float round-trip returns the window to the tiling list and
// clears its floating flag. Unfloating inserts it after the focus cursor
// (at the end while a float holds focus); its former slot index is not
// restored.
func TestFloatRoundTrip(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	ws := w.Monitors[0].ActiveWorkspace()
	ws.FocusIndex = 0

	if err := w.ToggleFloat(); err != nil {
		t.Fatalf("float: %v", err)
	}
	if err := w.ToggleFloat(); err != nil {
		t.Fatalf("unfloat: %v", err)
	}

	if ws.indexOf(1) < 0 {
		t.Fatalf("expected hwnd 1 back in tiling list")
	}
	if ws.Floating[1] {
		t.Fatalf("hwnd 1 should no longer be floating")
	}
}

// Property 7: workspace disjoint history after move_window_to_workspace.
func TestMoveWindowToWorkspaceDisjointHistory(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	srcWS := w.Monitors[0].ActiveWSIdx

	if err := w.MoveWindowToWorkspace(5); err != nil {
		t.Fatalf("move to workspace 5: %v", err)
	}

	mon := w.Monitors[0]
	if mon.Workspaces[srcWS].indexOf(1) >= 0 {
		t.Fatalf("hwnd should be absent from source workspace")
	}
	if mon.Workspaces[5].indexOf(1) < 0 {
		t.Fatalf("hwnd should be present in destination workspace")
	}
}

// Boundary: resize adjustments that would push a slot below 100x100 are
// clamped and the remainder discarded.
func TestResizeClampedAtMinimum(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	show(w, 2, true)
	ws := w.Monitors[0].ActiveWorkspace()
	ws.FocusIndex = 0

	for i := 0; i < 50; i++ {
		if err := w.Resize(geom.EdgeRight, true); err != nil {
			t.Fatalf("resize: %v", err)
		}
	}

	_, rects := ws.Rects(fullHD, 0)
	if rects[1].Width < layout.MinSlotSize {
		t.Fatalf("neighbour width %d fell below minimum", rects[1].Width)
	}
}

func TestPausedCommandsRejected(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	if err := w.TogglePause(); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	if err := w.Focus(geom.DirRight); err == nil || err.Kind != Paused {
		t.Fatalf("expected Paused error, got %v", err)
	}
}

func TestDestroyedRemovesFromModelEvenWhilePaused(t *testing.T) {
	w := newTestWorld()
	show(w, 1, true)
	if err := w.TogglePause(); err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	w.OnDestroyed(1)
	if _, ok := w.Windows[1]; ok {
		t.Fatalf("destroyed window must be removed from the model even while paused")
	}
}

func TestNoFocusedWindowError(t *testing.T) {
	w := newTestWorld()
	if err := w.Promote(); err == nil || err.Kind != NoFocusedWindow {
		t.Fatalf("expected NoFocusedWindow, got %v", err)
	}
}

func TestSetWorkspaceOutOfRange(t *testing.T) {
	w := newTestWorld()
	if err := w.SetWorkspace(9); err == nil || err.Kind != NoSuchWorkspace {
		t.Fatalf("expected NoSuchWorkspace, got %v", err)
	}
}

func TestMoveToDisplayWrapsCyclically(t *testing.T) {
	w := newTestWorld()
	w.Monitors = append(w.Monitors, NewMonitor(2, fullHD))
	show(w, 1, true)

	if err := w.MoveToDisplay(false); err != nil { // "previous" from monitor 0 wraps to monitor 1
		t.Fatalf("move to display previous: %v", err)
	}
	if w.Monitors[1].ActiveWorkspace().indexOf(1) < 0 {
		t.Fatalf("expected hwnd moved to wrapped-around monitor")
	}
}
