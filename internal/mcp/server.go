// Package mcp exposes every spec.md §4.4 window-management command as an
// MCP tool, so an LLM agent can drive a live yatta session as a second
// control client alongside yattactl (SPEC_FULL.md §11's domain-stack
// entry for github.com/modelcontextprotocol/go-sdk). Grounded on
// termtile's internal/mcp.Server (server.go: NewServer/registerTools/
// Run/Close over mcpsdk.Server + StdioTransport), generalized from its
// tmux-agent-orchestration tool set to a thin wrapper over
// internal/ipc.Client.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yatta-wm/yatta/internal/ipc"
)

const (
	ServerName    = "yatta"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for yatta window-management commands.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server backed by an IPC client dialing the
// running yattad daemon.
func NewServer(client *ipc.Client) *Server {
	s := &Server{
		client: client,
		mcpServer: mcpsdk.NewServer(
			&mcpsdk.Implementation{Name: ServerName, Version: ServerVersion},
			nil,
		),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus",
		Description: "Move keyboard focus to the tiling neighbor in the given direction within the active workspace.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move",
		Description: "Move the focused window to swap with its tiling neighbor in the given direction.",
	}, s.handleMove)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_display",
		Description: "Move the focused window to the previous or next monitor, inserting it into that monitor's active workspace.",
	}, s.handleMoveToDisplay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize",
		Description: "Grow or shrink the focused window's slot along one edge, moving the shared split between it and its neighbor.",
	}, s.handleResize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "promote",
		Description: "Promote the focused window to the layout's master/first slot.",
	}, s.handlePromote)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Change the active workspace's tiling layout kind (bspv, bsph, columns, or rows).",
	}, s.handleSetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_monocle",
		Description: "Toggle monocle mode on the active workspace: show only the focused window, full work area.",
	}, s.handleToggleMonocle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_float",
		Description: "Toggle the focused window between tiled and floating.",
	}, s.handleToggleFloat)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_pause",
		Description: "Toggle the daemon's paused state. While paused, OS events are buffered and no window positions are applied.",
	}, s.handleTogglePause)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "retile",
		Description: "Force an immediate retile of the active workspace.",
	}, s.handleRetile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_workspace",
		Description: "Switch the active monitor's visible workspace to the given index (0-8).",
	}, s.handleSetWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window_to_workspace",
		Description: "Move the focused window to the given workspace index (0-8) on the same monitor. The window is not hidden on screen by the move.",
	}, s.handleMoveWindowToWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "float_class",
		Description: "Add a standing rule: windows whose WM class matches the pattern always open floating.",
	}, s.handleFloatClass)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "float_title",
		Description: "Add a standing rule: windows whose title matches the pattern always open floating.",
	}, s.handleFloatTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "float_exe",
		Description: "Add a standing rule: windows whose executable base name equals the pattern always open floating.",
	}, s.handleFloatExe)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_tree",
		Description: "Read the full monitor/workspace/window tree: layout kinds, pause state, and every tiling/floating/minimized window with its geometry and focus state.",
	}, s.handleGetTree)
}
