package ipc

import (
	"encoding/json"
	"testing"

	"github.com/yatta-wm/yatta/internal/geom"
	"github.com/yatta-wm/yatta/internal/model"
)

// fakeSubmitter runs commands directly against an in-memory world,
// bypassing the reconciler entirely — Dispatch only needs Submit.
type fakeSubmitter struct {
	world *model.World
}

func (f *fakeSubmitter) Submit(run func(w *model.World) *model.CommandError) *model.CommandError {
	return run(f.world)
}

func newTestServer() (*Server, *model.World) {
	world := model.NewWorld()
	world.Monitors = append(world.Monitors, model.NewMonitor(1, geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}))
	return &Server{reconciler: &fakeSubmitter{world: world}}, world
}

func TestDispatch_UnknownCommand(t *testing.T) {
	s, _ := newTestServer()
	resp := s.Dispatch(&Request{Cmd: "not-a-command"})
	if resp.OK {
		t.Fatal("expected error response for unknown command")
	}
	if resp.Error != model.InvalidArgument.String() {
		t.Fatalf("Error = %q, want %q", resp.Error, model.InvalidArgument.String())
	}
}

func TestDispatch_TogglePauseRoundTrip(t *testing.T) {
	s, world := newTestServer()

	resp := s.Dispatch(&Request{Cmd: CmdTogglePause})
	if !resp.OK {
		t.Fatalf("toggle-pause failed: %s: %s", resp.Error, resp.Msg)
	}
	if !world.Paused {
		t.Fatal("expected world.Paused = true after toggle-pause")
	}

	resp = s.Dispatch(&Request{Cmd: CmdTogglePause})
	if !resp.OK {
		t.Fatalf("toggle-pause failed: %s: %s", resp.Error, resp.Msg)
	}
	if world.Paused {
		t.Fatal("expected world.Paused = false after second toggle-pause")
	}
}

func TestDispatch_FocusInvalidDirection(t *testing.T) {
	s, _ := newTestServer()
	args, _ := json.Marshal(DirectionArgs{Direction: "sideways"})
	resp := s.Dispatch(&Request{Cmd: CmdFocus, Args: args})
	if resp.OK {
		t.Fatal("expected error response for invalid direction")
	}
	if resp.Error != model.InvalidArgument.String() {
		t.Fatalf("Error = %q, want %q", resp.Error, model.InvalidArgument.String())
	}
}

func TestDispatch_ResizeInvalidEdge(t *testing.T) {
	s, _ := newTestServer()
	args, _ := json.Marshal(ResizeArgs{Edge: "diagonal", Direction: "increase"})
	resp := s.Dispatch(&Request{Cmd: CmdResize, Args: args})
	if resp.OK {
		t.Fatal("expected error response for invalid edge")
	}
}

func TestDispatch_SetWorkspaceOutOfRange(t *testing.T) {
	s, _ := newTestServer()
	args, _ := json.Marshal(WorkspaceArgs{Index: 99})
	resp := s.Dispatch(&Request{Cmd: CmdSetWorkspace, Args: args})
	if resp.OK {
		t.Fatal("expected error response for out-of-range workspace index")
	}
}

func TestDispatch_GetTreeReflectsPauseState(t *testing.T) {
	s, world := newTestServer()
	world.Paused = true

	resp := s.Dispatch(&Request{Cmd: CmdGetTree})
	if !resp.OK {
		t.Fatalf("get-tree failed: %s: %s", resp.Error, resp.Msg)
	}
	var tree TreeData
	if err := json.Unmarshal(resp.Data, &tree); err != nil {
		t.Fatalf("unmarshal tree: %v", err)
	}
	if !tree.Paused {
		t.Fatal("expected tree.Paused = true")
	}
}

func TestDispatch_FloatClassEmptyPattern(t *testing.T) {
	s, _ := newTestServer()
	args, _ := json.Marshal(PatternArgs{Pattern: ""})
	resp := s.Dispatch(&Request{Cmd: CmdFloatClass, Args: args})
	if resp.OK {
		t.Fatal("expected error response for empty float-class pattern")
	}
}
