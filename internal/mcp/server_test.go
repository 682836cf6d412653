package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/ipc"
	"github.com/yatta-wm/yatta/internal/model"
)

// fakeSubmitter mirrors internal/ipc's test helper: runs commands
// directly against an in-memory world.
type fakeSubmitter struct {
	world *model.World
}

func (f *fakeSubmitter) Submit(run func(w *model.World) *model.CommandError) *model.CommandError {
	return run(f.world)
}

// newTestServer starts a real IPC server on a temp socket and returns
// an mcp.Server dialing it, the same way a real yattad/yattactl pair
// would communicate.
func newTestServer(t *testing.T) (*Server, *model.World) {
	t.Helper()
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "yatta.sock")

	world := model.NewWorld()
	world.Monitors = append(world.Monitors, model.NewMonitor(1, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}))

	srv, err := ipc.NewServerAtPath(socketPath, &fakeSubmitter{world: world}, nil)
	if err != nil {
		t.Fatalf("NewServerAtPath: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	client := ipc.NewClientAtPath(socketPath)
	return NewServer(client), world
}

func TestHandleTogglePause(t *testing.T) {
	s, world := newTestServer(t)

	_, out, err := s.handleTogglePause(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("handleTogglePause error: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected OK=true, got error=%s msg=%s", out.Error, out.Msg)
	}
	if !world.Paused {
		t.Fatal("expected world.Paused = true")
	}
}

func TestHandleFocusInvalidDirection(t *testing.T) {
	s, _ := newTestServer(t)

	_, out, err := s.handleFocus(context.Background(), nil, DirectionInput{Direction: "sideways"})
	if err != nil {
		t.Fatalf("handleFocus transport error: %v", err)
	}
	if out.OK {
		t.Fatal("expected OK=false for invalid direction")
	}
}

func TestHandleGetTreeReflectsPauseState(t *testing.T) {
	s, world := newTestServer(t)
	world.Paused = true

	_, out, err := s.handleGetTree(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("handleGetTree error: %v", err)
	}
	if !out.Paused {
		t.Fatal("expected tree.Paused = true")
	}
}
