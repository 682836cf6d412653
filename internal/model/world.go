// Package model is the mutable workspace/monitor model (component D):
// invariant-preserving command application over a tree of monitors,
// workspaces, and managed windows. It makes no OS calls and owns no
// goroutines — internal/reconciler drives it from the single event loop
// and issues the OS calls its commands imply.
package model

import (
	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/layout"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

// ResizeStep is the default per-call resize delta in pixels (spec.md §4.4).
const ResizeStep = 50

// Monitor is one physical display: its work area and its fixed array of
// workspaces (spec.md §3).
type Monitor struct {
	ID       int
	WorkArea geom.Rect

	Workspaces   [WorkspacesPerMonitor]*Workspace
	ActiveWSIdx  int
}

// NewMonitor returns a monitor with WorkspacesPerMonitor freshly
// initialized empty workspaces.
func NewMonitor(id int, workArea geom.Rect) *Monitor {
	m := &Monitor{ID: id, WorkArea: workArea}
	for i := range m.Workspaces {
		m.Workspaces[i] = NewWorkspace()
	}
	return m
}

// ActiveWorkspace returns the monitor's currently visible workspace.
func (m *Monitor) ActiveWorkspace() *Workspace {
	return m.Workspaces[m.ActiveWSIdx]
}

// World is the root model: the ordered monitor list plus the window arena
// and global float-rule table (spec.md §3). Windows are referenced
// elsewhere only by hwnd, per spec.md §9's arena-key discipline; the only
// place a *windowmodel.Window lives is World.Windows.
type World struct {
	Monitors []*Monitor
	Windows  map[windowmodel.Hwnd]*windowmodel.Window

	// ActiveMonitorIdx is the monitor commands without an explicit target
	// apply to; the reconciler keeps it in sync with OS focus/foreground
	// events.
	ActiveMonitorIdx int

	Paused     bool
	FloatRules []windowmodel.FloatRule

	// GapPx is the pixel gap inset around every tiling slot
	// (internal/config.Config.GapSize, SPEC_FULL.md §10.3).
	GapPx int

	// pendingReconcile holds hwnds whose Shown/LocationChanged arrived
	// while paused, so a single coalesced retile can be issued for them
	// on unpause (SPEC_FULL.md §12, "Pause vs. pending events").
	pendingReconcile map[windowmodel.Hwnd]bool
}

// NewWorld returns an empty world with no monitors.
func NewWorld() *World {
	return &World{
		Windows:          make(map[windowmodel.Hwnd]*windowmodel.Window),
		pendingReconcile: make(map[windowmodel.Hwnd]bool),
	}
}

func (w *World) activeMonitor() (*Monitor, *CommandError) {
	if w.ActiveMonitorIdx < 0 || w.ActiveMonitorIdx >= len(w.Monitors) {
		return nil, newErr(NoSuchMonitor, "no active monitor")
	}
	return w.Monitors[w.ActiveMonitorIdx], nil
}

func (w *World) monitorByID(id int) (*Monitor, int, *CommandError) {
	for i, m := range w.Monitors {
		if m.ID == id {
			return m, i, nil
		}
	}
	return nil, -1, newErr(NoSuchMonitor, "monitor %d not found", id)
}

// MonitorByID returns the monitor with the given stable id, or nil.
func (w *World) MonitorByID(id int) *Monitor {
	m, _, err := w.monitorByID(id)
	if err != nil {
		return nil
	}
	return m
}

func (w *World) requireUnpaused() *CommandError {
	if w.Paused {
		return newErr(Paused, "world is paused")
	}
	return nil
}

// MonitorContaining returns the monitor whose work area contains the
// rectangle's center (spec.md §3 lifecycle: "the monitor that contains
// its rectangle's center"), or the active monitor if none does.
func (w *World) MonitorContaining(r geom.Rect) *Monitor {
	cx, cy := r.Center()
	for _, m := range w.Monitors {
		if m.WorkArea.Contains(cx, cy) {
			return m
		}
	}
	if mon, err := w.activeMonitor(); err == nil {
		return mon
	}
	if len(w.Monitors) > 0 {
		return w.Monitors[0]
	}
	return nil
}

// focusedRectsAndIndex returns the active workspace's visible tiling hwnds,
// their post-adjustment rectangles, and the index of the focused one
// (spec.md §4.4: "Direction resolution uses the geometry after
// adjustments"). ok is false when there is no focused tiling window.
func (ws *Workspace) focusedRectsAndIndex(workArea geom.Rect, gapPx int) (visible []windowmodel.Hwnd, rects []geom.Rect, idx int, ok bool) {
	visible, rects = ws.Rects(workArea, gapPx)
	if ws.FocusIndex == FloatSentinel || ws.FocusIndex < 0 || ws.FocusIndex >= len(visible) {
		return visible, rects, -1, false
	}
	return visible, rects, ws.FocusIndex, true
}

// Focus moves the active workspace's focus cursor to the nearest tiling
// slot in direction dir (spec.md §4.4). No-op at the edge.
func (w *World) Focus(dir geom.Direction) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()
	_, rects, idx, ok := ws.focusedRectsAndIndex(mon.WorkArea, w.GapPx)
	if !ok {
		return newErr(NoFocusedWindow, "no focused tiling window")
	}
	target := geom.NearestInDirection(rects, idx, dir)
	if target < 0 {
		return nil // no-op at the edge
	}
	ws.FocusIndex = target
	return nil
}

// Move swaps the focused slot with the slot Focus(dir) would target; focus
// follows the window (spec.md §4.4).
func (w *World) Move(dir geom.Direction) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()
	visible, rects, idx, ok := ws.focusedRectsAndIndex(mon.WorkArea, w.GapPx)
	if !ok {
		return newErr(NoFocusedWindow, "no focused tiling window")
	}
	target := geom.NearestInDirection(rects, idx, dir)
	if target < 0 {
		return nil
	}
	a, b := visible[idx], visible[target]
	ia, ib := ws.indexOf(a), ws.indexOf(b)
	ws.Tiling[ia], ws.Tiling[ib] = ws.Tiling[ib], ws.Tiling[ia]
	ws.FocusIndex = ib
	return nil
}

// Promote swaps the focused slot with slot 0; if focus is already at 0, it
// swaps 0 and 1 instead (spec.md §4.4).
func (w *World) Promote() *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()
	visible := ws.visibleTiling()
	if ws.FocusIndex == FloatSentinel || ws.FocusIndex < 0 || ws.FocusIndex >= len(visible) {
		return newErr(NoFocusedWindow, "no focused tiling window")
	}
	if len(visible) < 2 {
		return nil
	}

	focusedHwnd := visible[ws.FocusIndex]
	other := 0
	if ws.FocusIndex == 0 {
		other = 1
	}
	otherHwnd := visible[other]

	ia, ib := ws.indexOf(focusedHwnd), ws.indexOf(otherHwnd)
	ws.Tiling[ia], ws.Tiling[ib] = ws.Tiling[ib], ws.Tiling[ia]
	ws.FocusIndex = ib
	return nil
}

// Resize appends or merges a resize adjustment of +/-ResizeStep px on the
// focused slot's named edge (spec.md §4.4).
func (w *World) Resize(edge geom.Edge, increase bool) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()
	visible := ws.visibleTiling()
	if ws.FocusIndex == FloatSentinel || ws.FocusIndex < 0 || ws.FocusIndex >= len(visible) {
		return newErr(NoFocusedWindow, "no focused tiling window")
	}

	delta := ResizeStep
	if !increase {
		delta = -ResizeStep
	}

	for i := range ws.Adjustments {
		if ws.Adjustments[i].SlotIndex == ws.FocusIndex && ws.Adjustments[i].Edge == edge {
			ws.Adjustments[i].DeltaPx += delta
			return nil
		}
	}
	ws.Adjustments = append(ws.Adjustments, layout.Adjustment{
		SlotIndex: ws.FocusIndex, Edge: edge, DeltaPx: delta,
	})
	return nil
}

// SetLayout sets the active workspace's layout kind, clearing adjustments
// (spec.md §4.4). kind must already have been validated by the caller
// (internal/ipc) against layout.ParseKind; an unrecognized kind string is
// NoSuchLayout there, not here.
func (w *World) SetLayout(kind layout.Kind) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()
	ws.Layout = kind
	ws.Adjustments = nil
	return nil
}

// ToggleMonocle flips the active workspace's monocle flag (spec.md §4.4).
func (w *World) ToggleMonocle() *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	mon.ActiveWorkspace().Monocle = !mon.ActiveWorkspace().Monocle
	return nil
}

// ToggleFloat moves the focused window between the tiling list and the
// floating set (spec.md §4.4). A floating window regains its last-known
// rect; one with none recorded gets a centered default 60% of the work
// area.
func (w *World) ToggleFloat() *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	ws := mon.ActiveWorkspace()

	if ws.FocusIndex != FloatSentinel {
		visible := ws.visibleTiling()
		if ws.FocusIndex < 0 || ws.FocusIndex >= len(visible) {
			return newErr(NoFocusedWindow, "no focused tiling window")
		}
		h := visible[ws.FocusIndex]
		ws.removeFromTiling(h)
		ws.Floating[h] = true
		ws.FocusedFloat = h
		ws.FocusIndex = FloatSentinel

		win := w.Windows[h]
		if win != nil {
			win.Floating = true
			if win.CurrentRect == (geom.Rect{}) {
				win.CurrentRect = defaultFloatRect(mon.WorkArea)
			}
		}
		return nil
	}

	h := ws.FocusedFloat
	if h == 0 {
		return newErr(NoFocusedWindow, "no focused floating window")
	}
	if !ws.Floating[h] {
		return newErr(NoFocusedWindow, "focused floating window no longer tracked")
	}
	delete(ws.Floating, h)
	ws.insertTilingAfterFocus(h)
	if win := w.Windows[h]; win != nil {
		win.Floating = false
	}
	return nil
}

func defaultFloatRect(workArea geom.Rect) geom.Rect {
	width := workArea.Width * 60 / 100
	height := workArea.Height * 60 / 100
	return geom.Rect{
		X:      workArea.X + (workArea.Width-width)/2,
		Y:      workArea.Y + (workArea.Height-height)/2,
		Width:  width,
		Height: height,
	}
}

// Retile is a no-op at the model layer: it exists so the reconciler has an
// explicit command to force a geometry recompute without any other state
// change (spec.md §4.4).
func (w *World) Retile() *CommandError {
	return w.requireUnpaused()
}

// SetWorkspace switches the active monitor's visible workspace to index i
// (spec.md §4.4).
func (w *World) SetWorkspace(i int) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	if i < 0 || i >= WorkspacesPerMonitor {
		return newErr(NoSuchWorkspace, "workspace %d out of range", i)
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	mon.ActiveWSIdx = i
	return nil
}

// MoveWindowToWorkspace removes the focused window from the active
// workspace and appends it to workspace i on the same monitor (spec.md
// §4.4). Only the model changes: the window is not hidden or minimized on
// screen, and it stays where it was last placed until that workspace is
// next retiled.
func (w *World) MoveWindowToWorkspace(i int) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	if i < 0 || i >= WorkspacesPerMonitor {
		return newErr(NoSuchWorkspace, "workspace %d out of range", i)
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	src := mon.ActiveWorkspace()
	if i == mon.ActiveWSIdx {
		return nil
	}

	h, cerr := focusedHwnd(src)
	if cerr != nil {
		return cerr
	}

	dst := mon.Workspaces[i]
	if src.Floating[h] {
		delete(src.Floating, h)
		dst.Floating[h] = true
	} else {
		src.removeFromTiling(h)
		dst.Tiling = append(dst.Tiling, h)
	}
	return nil
}

// MoveToDisplay moves the focused window to the visible workspace of the
// adjacent monitor, treating World.Monitors as a cyclic ring in list order
// (SPEC_FULL.md §12 REDESIGN FLAGS, resolving spec.md §9's open question).
func (w *World) MoveToDisplay(next bool) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	if len(w.Monitors) < 2 {
		return newErr(NoSuchMonitor, "no adjacent monitor")
	}
	mon, err := w.activeMonitor()
	if err != nil {
		return err
	}
	src := mon.ActiveWorkspace()
	h, cerr := focusedHwnd(src)
	if cerr != nil {
		return cerr
	}

	n := len(w.Monitors)
	targetIdx := (w.ActiveMonitorIdx + 1) % n
	if !next {
		targetIdx = (w.ActiveMonitorIdx - 1 + n) % n
	}
	dstMon := w.Monitors[targetIdx]
	dst := dstMon.ActiveWorkspace()

	if src.Floating[h] {
		delete(src.Floating, h)
		dst.Floating[h] = true
	} else {
		src.removeFromTiling(h)
		dst.Tiling = append(dst.Tiling, h)
	}
	return nil
}

func focusedHwnd(ws *Workspace) (windowmodel.Hwnd, *CommandError) {
	if ws.FocusIndex != FloatSentinel {
		visible := ws.visibleTiling()
		if ws.FocusIndex < 0 || ws.FocusIndex >= len(visible) {
			return 0, newErr(NoFocusedWindow, "no focused tiling window")
		}
		return visible[ws.FocusIndex], nil
	}
	if ws.FocusedFloat == 0 || !ws.Floating[ws.FocusedFloat] {
		return 0, newErr(NoFocusedWindow, "no focused window")
	}
	return ws.FocusedFloat, nil
}

// FloatClass installs a class-matching float rule (spec.md §4.4).
func (w *World) FloatClass(pattern string) *CommandError {
	return w.addFloatRule(windowmodel.RuleClass, pattern)
}

// FloatTitle installs a title-substring float rule (spec.md §4.4).
func (w *World) FloatTitle(pattern string) *CommandError {
	return w.addFloatRule(windowmodel.RuleTitle, pattern)
}

// FloatExe installs an executable-basename float rule (spec.md §4.4).
func (w *World) FloatExe(pattern string) *CommandError {
	return w.addFloatRule(windowmodel.RuleExe, pattern)
}

func (w *World) addFloatRule(field windowmodel.RuleField, pattern string) *CommandError {
	if err := w.requireUnpaused(); err != nil {
		return err
	}
	if pattern == "" {
		return newErr(InvalidArgument, "empty float rule pattern")
	}
	w.FloatRules = append(w.FloatRules, windowmodel.FloatRule{Field: field, Pattern: pattern})
	return nil
}

// TogglePause flips the world's paused flag (spec.md §4.4). While paused,
// commands other than toggle-pause are refused with Paused.
func (w *World) TogglePause() *CommandError {
	w.Paused = !w.Paused
	if !w.Paused {
		w.pendingReconcile = make(map[windowmodel.Hwnd]bool)
	}
	return nil
}

// MarkPendingReconcile records hwnd as needing a retile once the world
// unpauses (SPEC_FULL.md §12, "Pause vs. pending events").
func (w *World) MarkPendingReconcile(h windowmodel.Hwnd) {
	w.pendingReconcile[h] = true
}

// PendingReconcile reports whether any event arrived while paused that
// still needs a retile.
func (w *World) PendingReconcile() bool {
	return len(w.pendingReconcile) > 0
}
