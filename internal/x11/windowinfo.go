package x11

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WindowGeometry is the on-screen rectangle of windowID, relative to the
// root window.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	translated, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return int(geom.X), int(geom.Y), int(geom.Width), int(geom.Height), nil
	}
	return int(translated.DstX), int(translated.DstY), int(geom.Width), int(geom.Height), nil
}

// WindowClass returns the class string of WM_CLASS (not the instance).
func (c *Connection) WindowClass(windowID xproto.Window) (class string, err error) {
	classes, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil || classes == nil {
		return "", fmt.Errorf("failed to get WM_CLASS: %w", err)
	}
	return classes.Class, nil
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if name, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return name
	}
	return ""
}

// WindowExecutable returns the basename of the binary that owns windowID,
// resolved via _NET_WM_PID and /proc/<pid>/exe.
func (c *Connection) WindowExecutable(windowID xproto.Window) string {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil || pid == 0 {
		return ""
	}
	exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return ""
	}
	return filepath.Base(exe)
}

// WindowMinimized reports whether _NET_WM_STATE includes
// _NET_WM_STATE_HIDDEN.
func (c *Connection) WindowMinimized(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

// IsManageableWindow reports whether windowID is a top-level, non-tool,
// non-transient, visible application window (spec.md §3: "Manageable").
func (c *Connection) IsManageableWindow(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	if attrs.OverrideRedirect {
		return false
	}
	if attrs.MapState != xproto.MapStateViewable {
		return false
	}
	if transientFor, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && transientFor != 0 {
		return false
	}
	return c.IsNormalWindow(windowID)
}
