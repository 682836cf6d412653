package model

import (
	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

// OnShown handles a manageable window appearing: it is inserted into the
// currently visible workspace of the monitor containing its center, float
// rules are applied, and it becomes focused (spec.md §3 lifecycle,
// §4.5 "Shown"). A window already tracked is ignored.
func (w *World) OnShown(win *windowmodel.Window) {
	if _, tracked := w.Windows[win.Hwnd]; tracked {
		return
	}
	if !win.Manageable {
		return
	}

	mon := w.MonitorContaining(win.CurrentRect)
	if mon == nil {
		return
	}

	win.ApplyFloatRules(w.FloatRules)
	w.Windows[win.Hwnd] = win

	ws := mon.ActiveWorkspace()
	if win.Floating {
		ws.Floating[win.Hwnd] = true
		ws.FocusedFloat = win.Hwnd
		ws.FocusIndex = FloatSentinel
	} else {
		ws.insertTilingAfterFocus(win.Hwnd)
	}
}

// OnDestroyed removes hwnd from whichever workspace holds it and clamps
// focus (spec.md §4.5 "Destroyed"). Safe to call for an untracked hwnd.
func (w *World) OnDestroyed(h windowmodel.Hwnd) {
	if _, tracked := w.Windows[h]; !tracked {
		return
	}
	delete(w.Windows, h)
	delete(w.pendingReconcile, h)

	for _, mon := range w.Monitors {
		for _, ws := range mon.Workspaces {
			if ws.Floating[h] {
				delete(ws.Floating, h)
				if ws.FocusedFloat == h {
					ws.FocusedFloat = 0
				}
			}
			delete(ws.Minimized, h)
			if ws.indexOf(h) >= 0 {
				ws.removeFromTiling(h)
			}
		}
	}
}

// OnMinimized removes a tracked tiling window from Tiling while retaining
// its workspace membership, recording the slot it vacated so OnRestored
// can reinsert it there (spec.md §4.5 "Minimized").
func (w *World) OnMinimized(h windowmodel.Hwnd) {
	win, ok := w.Windows[h]
	if !ok {
		return
	}
	win.Minimized = true

	for _, mon := range w.Monitors {
		for _, ws := range mon.Workspaces {
			idx := ws.indexOf(h)
			if idx < 0 {
				continue
			}
			ws.Minimized[h] = idx
			ws.removeFromTiling(h)
			return
		}
	}
}

// OnRestored reinserts hwnd at its former slot index (clamped to the
// current length) and clears the minimized flag (spec.md §4.5 "Restored").
func (w *World) OnRestored(h windowmodel.Hwnd) {
	win, ok := w.Windows[h]
	if !ok {
		return
	}
	win.Minimized = false

	for _, mon := range w.Monitors {
		for _, ws := range mon.Workspaces {
			slot, wasMin := ws.Minimized[h]
			if !wasMin {
				continue
			}
			delete(ws.Minimized, h)

			if slot > len(ws.Tiling) {
				slot = len(ws.Tiling)
			}
			ws.Tiling = append(ws.Tiling, 0)
			copy(ws.Tiling[slot+1:], ws.Tiling[slot:])
			ws.Tiling[slot] = h
			return
		}
	}
}

// OnLocationChanged records a user-initiated drag: the window is converted
// to floating at its new rect (spec.md §4.5 "LocationChanged ... not under
// suppression: treat as user-initiated drag"). Suppressed events never
// reach this method — the reconciler filters them first. Under monocle,
// an event for a tiling window other than the focused one (a window
// monocle is hiding) only updates its CurrentRect.
func (w *World) OnLocationChanged(h windowmodel.Hwnd, rect geom.Rect) {
	win, ok := w.Windows[h]
	if !ok {
		return
	}
	win.CurrentRect = rect

	if win.Floating {
		return
	}

	for _, mon := range w.Monitors {
		for _, ws := range mon.Workspaces {
			idx := ws.indexOf(h)
			if idx < 0 {
				continue
			}
			if focused, ok := ws.FocusedTilingHwnd(); ws.Monocle && (!ok || focused != h) {
				return
			}
			wasFocused := ws.FocusIndex == idx
			ws.removeFromTiling(h)
			ws.Floating[h] = true
			ws.FocusedFloat = h
			if wasFocused {
				ws.FocusIndex = FloatSentinel
			}
			win.Floating = true
			return
		}
	}
}

// OnFocusChanged updates the focus cursor to hwnd if it is tracked
// (spec.md §4.5 "FocusChanged/ForegroundChanged"). Untracked hwnds are
// ignored. Also updates World.ActiveMonitorIdx to the monitor owning hwnd.
func (w *World) OnFocusChanged(h windowmodel.Hwnd) {
	if _, ok := w.Windows[h]; !ok {
		return
	}
	for mi, mon := range w.Monitors {
		for wi, ws := range mon.Workspaces {
			if wi != mon.ActiveWSIdx {
				continue
			}
			if ws.Floating[h] {
				ws.FocusedFloat = h
				ws.FocusIndex = FloatSentinel
				w.ActiveMonitorIdx = mi
				return
			}
			if idx := ws.indexOf(h); idx >= 0 {
				ws.FocusIndex = idx
				w.ActiveMonitorIdx = mi
				return
			}
		}
	}
}

// OnTopologyChange remaps workspaces to monitors by stable id, merging any
// disappeared monitor's active workspace into monitor 0's active workspace
// (spec.md §4.5 "Topology change").
func (w *World) OnTopologyChange(monitors []Monitor) {
	next := make([]*Monitor, 0, len(monitors))
	seen := make(map[int]bool)

	for _, nm := range monitors {
		seen[nm.ID] = true
		if existing, _, err := w.monitorByID(nm.ID); err == nil {
			existing.WorkArea = nm.WorkArea
			next = append(next, existing)
			continue
		}
		next = append(next, NewMonitor(nm.ID, nm.WorkArea))
	}

	var survivor *Monitor
	if len(next) > 0 {
		survivor = next[0]
	}
	for _, old := range w.Monitors {
		if seen[old.ID] || survivor == nil {
			continue
		}
		mergeWorkspace(old.ActiveWorkspace(), survivor.ActiveWorkspace())
	}

	w.Monitors = next
	if w.ActiveMonitorIdx >= len(w.Monitors) {
		w.ActiveMonitorIdx = 0
	}
}

func mergeWorkspace(src, dst *Workspace) {
	for _, h := range src.Tiling {
		if _, min := src.Minimized[h]; !min {
			dst.Tiling = append(dst.Tiling, h)
		}
	}
	for h := range src.Floating {
		dst.Floating[h] = true
	}
}
