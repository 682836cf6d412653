package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/yatta-wm/yatta/internal/runtimepath"
)

// Client dials the daemon's Unix-domain socket and issues one request per
// connection, line-JSON framed (spec.md §6). Adapted from termtile's
// internal/ipc.Client dial/write/read sequence, generalized from its
// fixed method-per-command set to a single generic Send plus typed
// argument builders for every spec.md §4.4 command.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// defaultClientTimeout bounds how long a CLI invocation waits for the
// daemon before reporting it unreachable.
const defaultClientTimeout = 5 * time.Second

// NewClient returns a client bound to the default runtime socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		socketPath = ""
	}
	return &Client{socketPath: socketPath, timeout: defaultClientTimeout}
}

// NewClientAtPath returns a client bound to an explicit socket path, for
// tests that isolate themselves from the real XDG runtime dir. yattactl
// does not use it: it always dials the default path via NewClient.
func NewClientAtPath(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: defaultClientTimeout}
}

// Send issues a request and returns the parsed response, or a transport
// error (exit code 2 at the CLI layer: "agent not running").
func (c *Client) Send(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &resp, nil
}

func argsJSON(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

// Focus sends the focus <dir> command.
func (c *Client) Focus(direction string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdFocus, Args: argsJSON(DirectionArgs{Direction: direction})})
}

// Move sends the move <dir> command.
func (c *Client) Move(direction string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdMove, Args: argsJSON(DirectionArgs{Direction: direction})})
}

// MoveToDisplay sends move-to-display <previous|next>.
func (c *Client) MoveToDisplay(target string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdMoveToDisplay, Args: argsJSON(MoveToDisplayArgs{Target: target})})
}

// Resize sends resize <edge> <increase|decrease>.
func (c *Client) Resize(edge, direction string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdResize, Args: argsJSON(ResizeArgs{Edge: edge, Direction: direction})})
}

// Promote sends the promote command.
func (c *Client) Promote() (*Response, error) {
	return c.Send(&Request{Cmd: CmdPromote})
}

// Layout sends layout <kind>.
func (c *Client) Layout(kind string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdLayout, Args: argsJSON(LayoutArgs{Kind: kind})})
}

// ToggleMonocle sends the toggle-monocle command.
func (c *Client) ToggleMonocle() (*Response, error) {
	return c.Send(&Request{Cmd: CmdToggleMonocle})
}

// ToggleFloat sends the toggle-float command.
func (c *Client) ToggleFloat() (*Response, error) {
	return c.Send(&Request{Cmd: CmdToggleFloat})
}

// TogglePause sends the toggle-pause command.
func (c *Client) TogglePause() (*Response, error) {
	return c.Send(&Request{Cmd: CmdTogglePause})
}

// Retile sends the retile command.
func (c *Client) Retile() (*Response, error) {
	return c.Send(&Request{Cmd: CmdRetile})
}

// SetWorkspace sends set-workspace <0..8>.
func (c *Client) SetWorkspace(index int) (*Response, error) {
	return c.Send(&Request{Cmd: CmdSetWorkspace, Args: argsJSON(WorkspaceArgs{Index: index})})
}

// MoveWindowToWorkspace sends move-window-to-workspace <0..8>.
func (c *Client) MoveWindowToWorkspace(index int) (*Response, error) {
	return c.Send(&Request{Cmd: CmdMoveWindowToWorkspace, Args: argsJSON(WorkspaceArgs{Index: index})})
}

// FloatClass sends float-class <pattern>.
func (c *Client) FloatClass(pattern string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdFloatClass, Args: argsJSON(PatternArgs{Pattern: pattern})})
}

// FloatTitle sends float-title <pattern>.
func (c *Client) FloatTitle(pattern string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdFloatTitle, Args: argsJSON(PatternArgs{Pattern: pattern})})
}

// FloatExe sends float-exe <pattern>.
func (c *Client) FloatExe(pattern string) (*Response, error) {
	return c.Send(&Request{Cmd: CmdFloatExe, Args: argsJSON(PatternArgs{Pattern: pattern})})
}

// GetTree retrieves the full monitor/workspace/window tree for the
// yattactl monitor dashboard.
func (c *Client) GetTree() (*TreeData, error) {
	resp, err := c.Send(&Request{Cmd: CmdGetTree})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("daemon error: %s: %s", resp.Error, resp.Msg)
	}
	var tree TreeData
	if err := json.Unmarshal(resp.Data, &tree); err != nil {
		return nil, fmt.Errorf("parse tree data: %w", err)
	}
	return &tree, nil
}

// Ping checks whether the daemon is reachable.
func (c *Client) Ping() error {
	_, err := c.GetTree()
	return err
}
