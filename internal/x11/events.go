package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// RootEventKind names one of the root-window notifications the reconciler
// subscribes to (spec.md §4.5's seven OS event kinds, minus Restored and
// Minimized which are derived from WM_STATE property changes rather than a
// distinct X11 event type).
type RootEventKind int

const (
	EventCreated RootEventKind = iota
	EventDestroyed
	EventConfigured
	EventMapped
	EventUnmapped
	EventActiveWindowChanged
	EventWMStateChanged
)

// RootEvent is a single root-window notification, normalized across the
// underlying CreateNotify/DestroyNotify/ConfigureNotify/MapNotify/
// UnmapNotify/PropertyNotify X11 event types.
type RootEvent struct {
	Kind   RootEventKind
	Window xproto.Window
}

// SubscribeRootEvents registers for SubstructureNotify on the root window
// (delivering Create/Destroy/Configure/Map/Unmap for every child) plus
// PropertyNotify for EWMH/ICCCM attribute changes, and forwards normalized
// events to out. Termtile never needed this — it polls instead — so this
// is new code grounded in xgbutil/xevent's documented Connect-function
// pattern rather than adapted from an existing termtile file.
func (c *Connection) SubscribeRootEvents(out chan<- RootEvent) error {
	if err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(), c.Root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureNotify | xproto.EventMaskPropertyChange},
	).Check(); err != nil {
		return err
	}

	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		out <- RootEvent{Kind: EventCreated, Window: ev.Window}
	}).Connect(c.XUtil, c.Root)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		out <- RootEvent{Kind: EventDestroyed, Window: ev.Window}
	}).Connect(c.XUtil, c.Root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		out <- RootEvent{Kind: EventConfigured, Window: ev.Window}
	}).Connect(c.XUtil, c.Root)

	xevent.MapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		out <- RootEvent{Kind: EventMapped, Window: ev.Window}
	}).Connect(c.XUtil, c.Root)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		out <- RootEvent{Kind: EventUnmapped, Window: ev.Window}
	}).Connect(c.XUtil, c.Root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(c.XUtil, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_ACTIVE_WINDOW":
			active, err := ewmh.ActiveWindowGet(c.XUtil)
			if err == nil {
				out <- RootEvent{Kind: EventActiveWindowChanged, Window: active}
			}
		case "WM_STATE", "_NET_WM_STATE":
			out <- RootEvent{Kind: EventWMStateChanged, Window: ev.Window}
		}
	}).Connect(c.XUtil, c.Root)

	return nil
}
