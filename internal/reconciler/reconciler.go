// Package reconciler is the single-threaded event loop (spec.md §4.5):
// one serialized queue fed by OS window events, client commands, and
// monitor topology changes, a suppression table for self-induced events,
// and the debounced retile procedure that turns model state into OS calls.
// Grounded on termtile's internal/daemon package for the ticker/logger/
// panic-recovery shape of a long-running core loop (internal/daemon/
// reconciler.go, internal/daemon/sync.go), generalized from its 10s
// tmux-session poll to spec.md's event-driven, millisecond-scale queue.
package reconciler

import (
	"context"
	"log/slog"
	"time"

	"github.com/yatta-wm/yatta/internal/config"
	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/layout"
	"github.com/yatta-wm/yatta/internal/model"
	"github.com/yatta-wm/yatta/internal/platform"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

const (
	// DefaultSuppressionWindow is how long a recorded expected rect
	// remains eligible to discard a matching LocationChanged (spec.md
	// §4.5), used when New is given a nil *config.Config.
	DefaultSuppressionWindow = 150 * time.Millisecond
	// SuppressionTolerancePx is the ±1px rect-equality tolerance applied
	// when matching a LocationChanged against a suppression record.
	SuppressionTolerancePx = 1
	// DefaultDebounceWindow coalesces retile requests arriving this close
	// together on the same workspace into a single deferred retile, used
	// when New is given a nil *config.Config.
	DefaultDebounceWindow = 10 * time.Millisecond
)

// Command is a client-issued request to run against the model. It is
// queued alongside OS events so every mutation is strictly FIFO
// (spec.md §5).
type Command struct {
	Run  func(w *model.World) *model.CommandError
	Done chan *model.CommandError
}

type workspaceKey struct {
	monitorID int
	wsIndex   int
}

type suppressionRecord struct {
	rect     geom.Rect
	deadline time.Time
}

// Reconciler owns the model and the Backend, and is the only goroutine
// that ever mutates World (spec.md §5's "single-threaded cooperative
// core").
type Reconciler struct {
	world   *model.World
	backend platform.Backend
	logger  *slog.Logger

	suppressionWindow time.Duration
	debounceWindow    time.Duration

	events   chan platform.Event
	commands chan Command
	topology chan platform.TopologyChange

	suppression map[windowmodel.Hwnd]suppressionRecord
	lastRetile  map[workspaceKey]time.Time
	pending     map[workspaceKey]*time.Timer
	lastApplied map[windowmodel.Hwnd]geom.Rect

	retileRequests chan workspaceKey

	// pausedEvents buffers OS events (other than Destroyed) that arrive
	// while the world is paused, for replay on unpause.
	pausedEvents []platform.Event
}

// New constructs a Reconciler. cfg may be nil, in which case
// DefaultSuppressionWindow and DefaultDebounceWindow apply. Call Run to
// start the event loop; submit client commands via Submit.
func New(world *model.World, backend platform.Backend, logger *slog.Logger, cfg *config.Config) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	suppressionWindow := DefaultSuppressionWindow
	debounceWindow := DefaultDebounceWindow
	if cfg != nil {
		suppressionWindow = cfg.SuppressionWindow()
		debounceWindow = cfg.DebounceWindow()
	}
	return &Reconciler{
		world:             world,
		backend:           backend,
		logger:            logger,
		suppressionWindow: suppressionWindow,
		debounceWindow:    debounceWindow,
		events:            make(chan platform.Event, 256),
		commands:          make(chan Command, 64),
		topology:          make(chan platform.TopologyChange, 4),
		suppression:       make(map[windowmodel.Hwnd]suppressionRecord),
		lastRetile:        make(map[workspaceKey]time.Time),
		pending:           make(map[workspaceKey]*time.Timer),
		lastApplied:       make(map[windowmodel.Hwnd]geom.Rect),
		retileRequests:    make(chan workspaceKey, 64),
	}
}

// Submit enqueues a client command and blocks until it has been applied.
func (r *Reconciler) Submit(run func(w *model.World) *model.CommandError) *model.CommandError {
	done := make(chan *model.CommandError, 1)
	r.commands <- Command{Run: run, Done: done}
	return <-done
}

// Run pumps backend events, client commands, topology changes, and
// debounce timers until ctx is cancelled. Panics are fatal (spec.md §7:
// "the agent exits with a non-zero code so a supervisor may restart
// it"), mirroring termtile's reconciler which instead recovers —
// deliberately not reused here since spec.md requires the opposite
// policy for this loop.
func (r *Reconciler) Run(ctx context.Context) {
	r.logger.Info("reconciler started")
	defer r.logger.Info("reconciler stopped")

	go r.pumpBackend(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			r.handleOSEvent(ev)
		case cmd := <-r.commands:
			wasPaused := r.world.Paused
			err := cmd.Run(r.world)
			cmd.Done <- err
			if wasPaused && !r.world.Paused {
				r.flushPendingEvents()
			} else if err == nil && !r.world.Paused {
				for _, m := range r.world.Monitors {
					r.requestRetile(workspaceKey{monitorID: m.ID, wsIndex: m.ActiveWSIdx})
				}
			}
		case tc := <-r.topology:
			r.handleTopologyChange(tc)
		case key := <-r.retileRequests:
			r.retileWorkspace(key)
		}
	}
}

func (r *Reconciler) pumpBackend(ctx context.Context) {
	events := r.backend.Events()
	topology := r.backend.Topology()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			select {
			case r.events <- ev:
			case <-ctx.Done():
				return
			}
		case tc := <-topology:
			select {
			case r.topology <- tc:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleOSEvent applies ev to the model. While paused, only Destroyed is
// applied immediately (SPEC_FULL.md §12 "Pause vs. pending events":
// bookkeeping that costs nothing to keep honest); every other kind is
// buffered and replayed, in order, on the next unpause.
func (r *Reconciler) handleOSEvent(ev platform.Event) {
	if r.world.Paused && ev.Kind != platform.Destroyed {
		r.pausedEvents = append(r.pausedEvents, ev)
		r.world.MarkPendingReconcile(ev.Hwnd)
		return
	}
	r.applyEvent(ev)
}

// flushPendingEvents replays events buffered while paused, then retiles
// every active workspace once, coalescing what would otherwise have been
// many separate retiles (spec.md §4.5 debounce in spirit).
func (r *Reconciler) flushPendingEvents() {
	events := r.pausedEvents
	r.pausedEvents = nil
	for _, ev := range events {
		r.applyEvent(ev)
	}
	for _, m := range r.world.Monitors {
		r.requestRetile(workspaceKey{monitorID: m.ID, wsIndex: m.ActiveWSIdx})
	}
}

func (r *Reconciler) applyEvent(ev platform.Event) {
	switch ev.Kind {
	case platform.Shown:
		r.onShown(ev.Hwnd)
	case platform.Destroyed:
		r.world.OnDestroyed(ev.Hwnd)
		delete(r.suppression, ev.Hwnd)
		delete(r.lastApplied, ev.Hwnd)
		r.retileAllHolding(ev.Hwnd)
	case platform.Minimized:
		r.world.OnMinimized(ev.Hwnd)
		r.requestRetileFor(ev.Hwnd)
	case platform.Restored:
		r.world.OnRestored(ev.Hwnd)
		r.requestRetileFor(ev.Hwnd)
	case platform.LocationChanged:
		if r.consumeSuppression(ev.Hwnd, ev.Rect) {
			return
		}
		r.world.OnLocationChanged(ev.Hwnd, ev.Rect)
		r.requestRetileFor(ev.Hwnd)
	case platform.FocusChanged, platform.ForegroundChanged:
		r.world.OnFocusChanged(ev.Hwnd)
	}
}

func (r *Reconciler) onShown(h windowmodel.Hwnd) {
	manageable, err := r.backend.IsManageable(h)
	if err != nil || !manageable {
		return
	}
	info, err := r.backend.GetWindowInfo(h)
	if err != nil {
		r.logger.Warn("get-window-info failed", "hwnd", h, "error", err)
		return
	}
	win := &windowmodel.Window{
		Hwnd:        h,
		Title:       info.Title,
		Class:       info.Class,
		Exe:         info.Exe,
		CurrentRect: info.Rect,
		ManagedRect: info.Rect,
		Manageable:  true,
	}
	r.world.OnShown(win)
	r.requestRetileFor(h)
}

func (r *Reconciler) handleTopologyChange(tc platform.TopologyChange) {
	monitors := make([]model.Monitor, 0, len(tc.Monitors))
	for _, m := range tc.Monitors {
		monitors = append(monitors, model.Monitor{ID: m.ID, WorkArea: m.WorkArea})
	}
	r.world.OnTopologyChange(monitors)
	for i := range r.world.Monitors {
		r.requestRetile(workspaceKey{monitorID: r.world.Monitors[i].ID, wsIndex: r.world.Monitors[i].ActiveWSIdx})
	}
}

// requestRetileFor finds every monitor whose active workspace holds h
// and requests a retile for each; used for events that target a hwnd
// rather than a monitor directly.
func (r *Reconciler) requestRetileFor(h windowmodel.Hwnd) {
	for _, m := range r.world.Monitors {
		ws := m.Workspaces[m.ActiveWSIdx]
		if ws == nil {
			continue
		}
		if ws.Holds(h) {
			r.requestRetile(workspaceKey{monitorID: m.ID, wsIndex: m.ActiveWSIdx})
		}
	}
}

// retileAllHolding requests a retile for every active workspace,
// because after a Destroyed event we no longer know which workspace
// used to hold h (OnDestroyed has already removed it from the model).
func (r *Reconciler) retileAllHolding(_ windowmodel.Hwnd) {
	for _, m := range r.world.Monitors {
		r.requestRetile(workspaceKey{monitorID: m.ID, wsIndex: m.ActiveWSIdx})
	}
}

// requestRetile implements the feedback-loop guard's debounce half
// (spec.md §4.5): a retile requested within the configured debounce
// window of the previous one on the same workspace is coalesced into a
// single deferred retile after the quiet period elapses.
func (r *Reconciler) requestRetile(key workspaceKey) {
	if last, ok := r.lastRetile[key]; ok && time.Since(last) < r.debounceWindow {
		if t, pending := r.pending[key]; pending {
			t.Stop()
		}
		r.pending[key] = time.AfterFunc(r.debounceWindow, func() {
			r.retileRequests <- key
		})
		return
	}
	r.retileRequests <- key
}

// retileWorkspace is the retile procedure (spec.md §4.5): compute
// layout, diff against last-applied rects, issue OS calls only for
// windows that moved, each preceded by a suppression record.
func (r *Reconciler) retileWorkspace(key workspaceKey) {
	r.lastRetile[key] = time.Now()
	delete(r.pending, key)

	if r.world.Paused {
		return
	}

	mon := r.world.MonitorByID(key.monitorID)
	if mon == nil {
		return
	}
	ws := mon.Workspaces[key.wsIndex]
	if ws == nil || mon.ActiveWSIdx != key.wsIndex {
		return
	}

	visible, rects := ws.Rects(mon.WorkArea, r.world.GapPx)
	for i, h := range visible {
		rect := rects[i]
		if ws.Monocle && h != focusedHwndOf(ws) {
			if r.lastApplied[h] != (geom.Rect{}) {
				if err := r.backend.Hide(h); err != nil {
					r.logger.Warn("hide failed", "hwnd", h, "error", err)
				}
				r.lastApplied[h] = geom.Rect{}
			}
			continue
		}
		if last, ok := r.lastApplied[h]; ok && last.Equal(rect, 0) {
			continue
		}
		r.recordSuppression(h, rect)
		if err := r.backend.SetWindowPos(h, rect); err != nil {
			r.logger.Warn("set-window-pos failed", "hwnd", h, "error", err)
			continue
		}
		if ws.Monocle {
			if err := r.backend.Show(h); err != nil {
				r.logger.Warn("show failed", "hwnd", h, "error", err)
			}
		}
		r.lastApplied[h] = rect
	}
}

func focusedHwndOf(ws *model.Workspace) windowmodel.Hwnd {
	h, ok := ws.FocusedTilingHwnd()
	if !ok {
		return 0
	}
	return h
}

// recordSuppression records the expected post-call rect so the
// LocationChanged it will trigger is discarded rather than
// misinterpreted as a user drag.
func (r *Reconciler) recordSuppression(h windowmodel.Hwnd, rect geom.Rect) {
	r.suppression[h] = suppressionRecord{rect: rect, deadline: time.Now().Add(r.suppressionWindow)}
}

// consumeSuppression reports whether ev should be discarded as
// self-induced, purging expired entries as it goes (spec.md §4.5).
func (r *Reconciler) consumeSuppression(h windowmodel.Hwnd, rect geom.Rect) bool {
	rec, ok := r.suppression[h]
	if !ok {
		return false
	}
	if time.Now().After(rec.deadline) {
		delete(r.suppression, h)
		return false
	}
	if rec.rect.Equal(rect, SuppressionTolerancePx) {
		delete(r.suppression, h)
		return true
	}
	return false
}

// ParseLayoutKind validates a layout-kind string at the boundary where
// client input enters the system, surfacing model.NoSuchLayout on
// failure (the REDESIGN FLAG decision recorded in SPEC_FULL.md §12).
func ParseLayoutKind(s string) (layout.Kind, *model.CommandError) {
	kind, ok := layout.ParseKind(s)
	if !ok {
		return 0, &model.CommandError{Kind: model.NoSuchLayout, Msg: "unrecognized layout kind: " + s}
	}
	return kind, nil
}
