//go:build linux

package platform

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/windowmodel"
	"github.com/yatta-wm/yatta/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform.Backend
// interface (adapted from termtile's internal/platform/backend_linux.go,
// generalized from termtile's narrower ListWindowsOnDisplay/MoveResize
// surface to spec.md §6's OS shim, and extended with the root-event
// subscription termtile's own polling model never needed).
type LinuxBackend struct {
	conn *x11.Connection

	events   chan Event
	topology chan TopologyChange
	raw      chan x11.RootEvent
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{
		conn:     conn,
		events:   make(chan Event, 64),
		topology: make(chan TopologyChange, 1),
		raw:      make(chan x11.RootEvent, 64),
	}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection and wraps it.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

func (b *LinuxBackend) EnumerateMonitors() ([]MonitorInfo, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	out := make([]MonitorInfo, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, MonitorInfo{
			ID:       m.ID,
			WorkArea: geom.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		})
	}
	return out, nil
}

func (b *LinuxBackend) IsManageable(h windowmodel.Hwnd) (bool, error) {
	return b.conn.IsManageableWindow(xproto.Window(h)), nil
}

func (b *LinuxBackend) GetWindowInfo(h windowmodel.Hwnd) (WindowInfo, error) {
	win := xproto.Window(h)
	x, y, width, height, err := b.conn.WindowGeometry(win)
	if err != nil {
		return WindowInfo{}, err
	}
	class, _ := b.conn.WindowClass(win)
	return WindowInfo{
		Title:     b.conn.WindowTitle(win),
		Class:     class,
		Exe:       b.conn.WindowExecutable(win),
		Rect:      geom.Rect{X: x, Y: y, Width: width, Height: height},
		Minimized: b.conn.WindowMinimized(win),
	}, nil
}

func (b *LinuxBackend) SetWindowPos(h windowmodel.Hwnd, rect geom.Rect) error {
	return b.conn.MoveResizeWindow(xproto.Window(h), rect.X, rect.Y, rect.Width, rect.Height)
}

func (b *LinuxBackend) Show(h windowmodel.Hwnd) error {
	return xproto.MapWindowChecked(b.conn.XUtil.Conn(), xproto.Window(h)).Check()
}

func (b *LinuxBackend) Hide(h windowmodel.Hwnd) error {
	return xproto.UnmapWindowChecked(b.conn.XUtil.Conn(), xproto.Window(h)).Check()
}

func (b *LinuxBackend) Minimize(h windowmodel.Hwnd) error {
	return sendWMChangeState(b.conn, xproto.Window(h), 3) // IconicState
}

func (b *LinuxBackend) Restore(h windowmodel.Hwnd) error {
	return sendWMChangeState(b.conn, xproto.Window(h), 1) // NormalState
}

func (b *LinuxBackend) Focus(h windowmodel.Hwnd) error {
	return b.conn.FocusWindow(uint32(h))
}

func (b *LinuxBackend) Events() <-chan Event {
	return b.events
}

func (b *LinuxBackend) Topology() <-chan TopologyChange {
	return b.topology
}

// Run subscribes to root-window events and pumps the xgbutil event loop
// until ctx is cancelled, translating raw X11 events into spec.md §4.5's
// seven OS event kinds on Events().
func (b *LinuxBackend) Run(ctx context.Context) error {
	if err := b.conn.SubscribeRootEvents(b.raw); err != nil {
		return fmt.Errorf("subscribe root events: %w", err)
	}

	go func() {
		<-ctx.Done()
		xevent.Quit(b.conn.XUtil)
	}()

	go b.translateLoop(ctx)

	b.conn.EventLoop() // blocks until xevent.Quit
	return ctx.Err()
}

func (b *LinuxBackend) translateLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.raw:
			b.translate(ev)
		}
	}
}

func (b *LinuxBackend) translate(ev x11.RootEvent) {
	h := windowmodel.Hwnd(ev.Window)
	switch ev.Kind {
	case x11.EventMapped:
		b.events <- Event{Kind: Shown, Hwnd: h}
	case x11.EventDestroyed:
		b.events <- Event{Kind: Destroyed, Hwnd: h}
	case x11.EventUnmapped:
		if b.conn.WindowMinimized(ev.Window) {
			b.events <- Event{Kind: Minimized, Hwnd: h}
		}
	case x11.EventConfigured:
		x, y, width, height, err := b.conn.WindowGeometry(ev.Window)
		if err != nil {
			return
		}
		b.events <- Event{Kind: LocationChanged, Hwnd: h, Rect: geom.Rect{X: x, Y: y, Width: width, Height: height}}
	case x11.EventActiveWindowChanged:
		b.events <- Event{Kind: ForegroundChanged, Hwnd: h}
	case x11.EventWMStateChanged:
		if b.conn.WindowMinimized(ev.Window) {
			b.events <- Event{Kind: Minimized, Hwnd: h}
		} else {
			b.events <- Event{Kind: Restored, Hwnd: h}
		}
	case x11.EventCreated:
		// Not manageable until mapped; spec.md §4.5 only reacts to Shown.
	}
}

func sendWMChangeState(conn *x11.Connection, win xproto.Window, state uint32) error {
	reply, err := xproto.InternAtom(conn.XUtil.Conn(), false, uint16(len("WM_CHANGE_STATE")), "WM_CHANGE_STATE").Reply()
	if err != nil {
		return err
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   reply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{state, 0, 0, 0, 0}),
	}
	return xproto.SendEvent(
		conn.XUtil.Conn(), false, conn.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
