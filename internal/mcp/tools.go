package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yatta-wm/yatta/internal/ipc"
)

// statusFrom converts an internal/ipc.Response plus transport error into
// the tool's StatusOutput, matching the {"ok","error","msg"} wire shape
// (spec.md §6) exactly.
func statusFrom(resp *ipc.Response, err error) (*mcpsdk.CallToolResult, StatusOutput, error) {
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{OK: resp.OK, Error: resp.Error, Msg: resp.Msg}, nil
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Focus(args.Direction))
}

func (s *Server) handleMove(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Move(args.Direction))
}

func (s *Server) handleMoveToDisplay(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveToDisplayInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.MoveToDisplay(args.Target))
}

func (s *Server) handleResize(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Resize(args.Edge, args.Direction))
}

func (s *Server) handlePromote(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Promote())
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args LayoutInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Layout(args.Kind))
}

func (s *Server) handleToggleMonocle(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.ToggleMonocle())
}

func (s *Server) handleToggleFloat(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.ToggleFloat())
}

func (s *Server) handleTogglePause(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.TogglePause())
}

func (s *Server) handleRetile(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.Retile())
}

func (s *Server) handleSetWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.SetWorkspace(args.Index))
}

func (s *Server) handleMoveWindowToWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.MoveWindowToWorkspace(args.Index))
}

func (s *Server) handleFloatClass(_ context.Context, _ *mcpsdk.CallToolRequest, args PatternInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.FloatClass(args.Pattern))
}

func (s *Server) handleFloatTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args PatternInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.FloatTitle(args.Pattern))
}

func (s *Server) handleFloatExe(_ context.Context, _ *mcpsdk.CallToolRequest, args PatternInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	return statusFrom(s.client.FloatExe(args.Pattern))
}

func (s *Server) handleGetTree(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, TreeOutput, error) {
	tree, err := s.client.GetTree()
	if err != nil {
		return nil, TreeOutput{}, err
	}
	out := TreeOutput{Paused: tree.Paused}
	for _, mon := range tree.Monitors {
		tm := TreeMonitor{ID: mon.ID, Active: mon.Active, X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}
		for _, ws := range mon.Workspaces {
			tw := TreeWorkspace{Index: ws.Index, Active: ws.Active, Layout: ws.Layout, Monocle: ws.Monocle}
			for _, win := range ws.Windows {
				tw.Windows = append(tw.Windows, TreeWindow{
					Hwnd: win.Hwnd, Title: win.Title, Class: win.Class, Exe: win.Exe,
					X: win.X, Y: win.Y, Width: win.Width, Height: win.Height,
					Floating: win.Floating, Minimized: win.Minimized, Focused: win.Focused,
				})
			}
			tm.Workspaces = append(tm.Workspaces, tw)
		}
		out.Monitors = append(out.Monitors, tm)
	}
	return nil, out, nil
}
