package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/model"
	"github.com/yatta-wm/yatta/internal/reconciler"
	"github.com/yatta-wm/yatta/internal/runtimepath"
	"github.com/yatta-wm/yatta/internal/windowmodel"
)

// Submitter is the subset of *reconciler.Reconciler the IPC server needs:
// a way to run a command against the live model from the single event
// loop goroutine, and a read-only snapshot for get-tree. Defined as an
// interface so server_test.go can exercise dispatch without a real
// reconciler/backend.
type Submitter interface {
	Submit(run func(w *model.World) *model.CommandError) *model.CommandError
}

// Server accepts IPC connections on a Unix-domain socket and dispatches
// one JSON line per request to the reconciler's command queue (spec.md
// §6). Adapted from termtile's internal/ipc.Server (accept loop +
// line-framed handleConnection), generalized from its ad hoc command
// switch to dispatch over every spec.md §4.4 command against
// internal/model.World via the reconciler.
type Server struct {
	socketPath string
	listener   net.Listener
	reconciler Submitter
	logger     *slog.Logger

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates an IPC server bound to the default runtime socket
// path, removing any stale socket left by a prior run.
func NewServer(rec Submitter, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("resolve IPC socket path: %w", err)
	}
	return NewServerAtPath(socketPath, rec, logger)
}

// NewServerAtPath creates an IPC server bound to an explicit socket
// path (internal/config.Config.SocketPath's override, and tests that
// isolate themselves from the real XDG runtime dir), removing any stale
// socket left by a prior run.
func NewServerAtPath(socketPath string, rec Submitter, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	os.Remove(socketPath)
	return &Server{socketPath: socketPath, reconciler: rec, logger: logger}, nil
}

// Start begins listening and accepting connections in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("create IPC socket: %w", err)
	}
	s.listener = listener
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("set socket permissions: %w", err)
	}
	s.logger.Info("ipc server listening", "socket", s.socketPath)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and removes the socket file.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			down := s.shuttingDown
			s.shutdownMu.Unlock()
			if down {
				return
			}
			s.logger.Warn("ipc accept error", "error", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(model.InvalidArgument.String(), err.Error()))
		return
	}

	resp := s.Dispatch(req)
	s.writeResponse(conn, resp)
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Warn("ipc marshal response failed", "error", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("ipc write response failed", "error", err)
	}
}

// Dispatch routes one parsed request to the matching command handler.
// Exported so tests (and an in-process client) can bypass the socket.
func (s *Server) Dispatch(req *Request) *Response {
	switch req.Cmd {
	case CmdFocus:
		return s.dirCommand(req, func(w *model.World, d geom.Direction) *model.CommandError { return w.Focus(d) })
	case CmdMove:
		return s.dirCommand(req, func(w *model.World, d geom.Direction) *model.CommandError { return w.Move(d) })
	case CmdMoveToDisplay:
		return s.moveToDisplay(req)
	case CmdResize:
		return s.resize(req)
	case CmdPromote:
		return s.runCommand(func(w *model.World) *model.CommandError { return w.Promote() })
	case CmdLayout:
		return s.layout(req)
	case CmdToggleMonocle:
		return s.runCommand(func(w *model.World) *model.CommandError { return w.ToggleMonocle() })
	case CmdToggleFloat:
		return s.runCommand(func(w *model.World) *model.CommandError { return w.ToggleFloat() })
	case CmdTogglePause:
		return s.runCommand(func(w *model.World) *model.CommandError { return w.TogglePause() })
	case CmdRetile:
		return s.runCommand(func(w *model.World) *model.CommandError { return w.Retile() })
	case CmdSetWorkspace:
		return s.workspaceIndexCommand(req, func(w *model.World, i int) *model.CommandError { return w.SetWorkspace(i) })
	case CmdMoveWindowToWorkspace:
		return s.workspaceIndexCommand(req, func(w *model.World, i int) *model.CommandError { return w.MoveWindowToWorkspace(i) })
	case CmdFloatClass:
		return s.patternCommand(req, func(w *model.World, p string) *model.CommandError { return w.FloatClass(p) })
	case CmdFloatTitle:
		return s.patternCommand(req, func(w *model.World, p string) *model.CommandError { return w.FloatTitle(p) })
	case CmdFloatExe:
		return s.patternCommand(req, func(w *model.World, p string) *model.CommandError { return w.FloatExe(p) })
	case CmdGetTree:
		return s.getTree()
	default:
		return NewErrorResponse(model.InvalidArgument.String(), fmt.Sprintf("unknown command: %s", req.Cmd))
	}
}

func (s *Server) runCommand(run func(w *model.World) *model.CommandError) *Response {
	if err := s.reconciler.Submit(run); err != nil {
		return NewErrorResponse(err.Kind.String(), err.Msg)
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) dirCommand(req *Request, run func(w *model.World, d geom.Direction) *model.CommandError) *Response {
	var args DirectionArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	dir, ok := geom.ParseDirection(args.Direction)
	if !ok {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid direction: "+args.Direction)
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return run(w, dir) })
}

func (s *Server) moveToDisplay(req *Request) *Response {
	var args MoveToDisplayArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	var next bool
	switch args.Target {
	case "next":
		next = true
	case "previous":
		next = false
	default:
		return NewErrorResponse(model.InvalidArgument.String(), "target must be previous|next")
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return w.MoveToDisplay(next) })
}

func (s *Server) resize(req *Request) *Response {
	var args ResizeArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	edge, ok := parseEdge(args.Edge)
	if !ok {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid edge: "+args.Edge)
	}
	var increase bool
	switch args.Direction {
	case "increase":
		increase = true
	case "decrease":
		increase = false
	default:
		return NewErrorResponse(model.InvalidArgument.String(), "direction must be increase|decrease")
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return w.Resize(edge, increase) })
}

func parseEdge(s string) (geom.Edge, bool) {
	switch s {
	case "left":
		return geom.EdgeLeft, true
	case "right":
		return geom.EdgeRight, true
	case "top":
		return geom.EdgeTop, true
	case "bottom":
		return geom.EdgeBottom, true
	default:
		return 0, false
	}
}

func (s *Server) layout(req *Request) *Response {
	var args LayoutArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	kind, cerr := reconciler.ParseLayoutKind(args.Kind)
	if cerr != nil {
		return NewErrorResponse(cerr.Kind.String(), cerr.Msg)
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return w.SetLayout(kind) })
}

func (s *Server) workspaceIndexCommand(req *Request, run func(w *model.World, i int) *model.CommandError) *Response {
	var args WorkspaceArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return run(w, args.Index) })
}

func (s *Server) patternCommand(req *Request, run func(w *model.World, p string) *model.CommandError) *Response {
	var args PatternArgs
	if err := json.Unmarshal(req.Args, &args); err != nil {
		return NewErrorResponse(model.InvalidArgument.String(), "invalid args: "+err.Error())
	}
	return s.runCommand(func(w *model.World) *model.CommandError { return run(w, args.Pattern) })
}

func (s *Server) getTree() *Response {
	var tree TreeData
	s.reconciler.Submit(func(w *model.World) *model.CommandError {
		tree = buildTree(w)
		return nil
	})
	resp, _ := NewOKResponse(tree)
	return resp
}

func buildTree(w *model.World) TreeData {
	tree := TreeData{Paused: w.Paused}
	for _, mon := range w.Monitors {
		tm := TreeMonitor{
			ID:     mon.ID,
			Active: mon == activeMonitorOf(w),
			X:      mon.WorkArea.X, Y: mon.WorkArea.Y,
			Width: mon.WorkArea.Width, Height: mon.WorkArea.Height,
		}
		for i, ws := range mon.Workspaces {
			if len(ws.Tiling) == 0 && len(ws.Floating) == 0 && len(ws.Minimized) == 0 {
				continue
			}
			tw := TreeWorkspace{
				Index: i, Active: i == mon.ActiveWSIdx,
				Layout: ws.Layout.String(), Monocle: ws.Monocle,
			}
			visible, rects := ws.Rects(mon.WorkArea, w.GapPx)
			for idx, h := range visible {
				tw.Windows = append(tw.Windows, treeWindow(w, h, rects[idx], false, i == mon.ActiveWSIdx && idx == ws.FocusIndex))
			}
			for h := range ws.Minimized {
				tw.Windows = append(tw.Windows, treeWindow(w, h, geom.Rect{}, true, false))
			}
			for h := range ws.Floating {
				tr := geom.Rect{}
				if win := w.Windows[h]; win != nil {
					tr = win.CurrentRect
				}
				tw.Windows = append(tw.Windows, treeWindow(w, h, tr, false, h == ws.FocusedFloat && i == mon.ActiveWSIdx))
			}
			tm.Workspaces = append(tm.Workspaces, tw)
		}
		tree.Monitors = append(tree.Monitors, tm)
	}
	return tree
}

func treeWindow(w *model.World, h windowmodel.Hwnd, rect geom.Rect, minimized, focused bool) TreeWindow {
	win := w.Windows[h]
	tw := TreeWindow{Hwnd: uint32(h), X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height, Minimized: minimized, Focused: focused}
	if win != nil {
		tw.Title = win.Title
		tw.Class = win.Class
		tw.Exe = win.Exe
		tw.Floating = win.Floating
	}
	return tw
}

func activeMonitorOf(w *model.World) *model.Monitor {
	if w.ActiveMonitorIdx < 0 || w.ActiveMonitorIdx >= len(w.Monitors) {
		return nil
	}
	return w.Monitors[w.ActiveMonitorIdx]
}
