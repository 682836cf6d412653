// Package platform is the OS shim boundary (spec.md §6): the set of
// operations the reconciler needs from the host window system, and the OS
// event kinds it delivers back. internal/reconciler depends only on the
// Backend interface; backend_linux.go is the one production implementation.
package platform

import (
	"context"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

// MonitorInfo is one entry from Backend.EnumerateMonitors.
type MonitorInfo struct {
	ID       int
	WorkArea geom.Rect
}

// WindowInfo is what the OS reports about a window at observation time
// (spec.md §6: "get_window_info(hwnd) -> {title, class, exe, rect,
// minimized}").
type WindowInfo struct {
	Title     string
	Class     string
	Exe       string
	Rect      geom.Rect
	Minimized bool
}

// EventKind is one of the seven OS event kinds the reconciler's queue
// consumes (spec.md §4.5).
type EventKind int

const (
	Shown EventKind = iota
	Destroyed
	Minimized
	Restored
	LocationChanged
	FocusChanged
	ForegroundChanged
)

func (k EventKind) String() string {
	switch k {
	case Shown:
		return "shown"
	case Destroyed:
		return "destroyed"
	case Minimized:
		return "minimized"
	case Restored:
		return "restored"
	case LocationChanged:
		return "location-changed"
	case FocusChanged:
		return "focus-changed"
	case ForegroundChanged:
		return "foreground-changed"
	default:
		return "unknown"
	}
}

// Event is one OS window-lifecycle notification (spec.md §4.5: "{kind,
// hwnd, rect?}").
type Event struct {
	Kind EventKind
	Hwnd windowmodel.Hwnd
	Rect geom.Rect // populated for LocationChanged
}

// TopologyChange reports a new monitor list (spec.md §4.5: "Monitor
// topology change: {monitors} with new work-area list").
type TopologyChange struct {
	Monitors []MonitorInfo
}

// Backend abstracts the host window system's operations (spec.md §6's OS
// shim). Every method that can fail against a since-vanished window
// returns an error; the reconciler logs it and does not retry inline
// (spec.md §7). The window is not marked stale or removed from the model.
type Backend interface {
	EnumerateMonitors() ([]MonitorInfo, error)
	IsManageable(h windowmodel.Hwnd) (bool, error)
	GetWindowInfo(h windowmodel.Hwnd) (WindowInfo, error)

	SetWindowPos(h windowmodel.Hwnd, rect geom.Rect) error
	Show(h windowmodel.Hwnd) error
	Hide(h windowmodel.Hwnd) error
	Minimize(h windowmodel.Hwnd) error
	Restore(h windowmodel.Hwnd) error
	Focus(h windowmodel.Hwnd) error

	// Events returns the channel OS window-lifecycle notifications are
	// delivered on. Run must be started first.
	Events() <-chan Event
	// Topology returns the channel monitor topology changes are
	// delivered on.
	Topology() <-chan TopologyChange

	// Run pumps the host event loop until ctx is cancelled, publishing
	// onto Events()/Topology(). It returns when the connection closes or
	// ctx is done.
	Run(ctx context.Context) error
}
