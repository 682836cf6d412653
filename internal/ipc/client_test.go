package ipc

import (
	"path/filepath"
	"testing"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/model"
)

// newTestServerOnSocket starts a real Server listening on a temp socket
// and returns a Client dialing it directly, bypassing runtimepath so the
// test doesn't touch the real XDG runtime dir.
func newTestServerOnSocket(t *testing.T) (*Server, *Client, *model.World) {
	t.Helper()
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "yatta.sock")

	world := model.NewWorld()
	world.Monitors = append(world.Monitors, model.NewMonitor(1, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}))

	s, err := NewServerAtPath(socketPath, &fakeSubmitter{world: world}, nil)
	if err != nil {
		t.Fatalf("NewServerAtPath: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Stop)

	return s, NewClientAtPath(socketPath), world
}

func TestClient_TogglePauseAndGetTree(t *testing.T) {
	_, client, world := newTestServerOnSocket(t)

	resp, err := client.TogglePause()
	if err != nil {
		t.Fatalf("TogglePause transport error: %v", err)
	}
	if !resp.OK {
		t.Fatalf("TogglePause failed: %s: %s", resp.Error, resp.Msg)
	}
	if !world.Paused {
		t.Fatal("expected world.Paused = true")
	}

	tree, err := client.GetTree()
	if err != nil {
		t.Fatalf("GetTree error: %v", err)
	}
	if !tree.Paused {
		t.Fatal("expected tree.Paused = true")
	}
}

func TestClient_FocusInvalidDirectionReturnsError(t *testing.T) {
	_, client, _ := newTestServerOnSocket(t)

	resp, err := client.Focus("sideways")
	if err != nil {
		t.Fatalf("Focus transport error: %v", err)
	}
	if resp.OK {
		t.Fatal("expected error response for invalid direction")
	}
}

func TestClient_PingFailsWhenDaemonUnreachable(t *testing.T) {
	client := NewClientAtPath("/nonexistent/yatta.sock")
	if err := client.Ping(); err == nil {
		t.Fatal("expected Ping() error when daemon is unreachable")
	}
}
