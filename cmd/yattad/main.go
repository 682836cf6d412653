// Command yattad is the tiling daemon: it owns the X11 connection, the
// single-threaded reconciler event loop, and the IPC socket yattactl and
// the MCP server talk to. Grounded on termtile's cmd/termtile
// runDaemon() bootstrap sequence (config -> backend -> tiler/reconciler
// -> IPC server -> signal handling -> blocking event loop), adapted from
// termtile's hotkey-driven tiler to yatta's single-threaded
// reconciler/model.World.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/yatta-wm/yatta/internal/config"
	"github.com/yatta-wm/yatta/internal/ipc"
	"github.com/yatta-wm/yatta/internal/layout"
	"github.com/yatta-wm/yatta/internal/model"
	"github.com/yatta-wm/yatta/internal/platform"
	"github.com/yatta-wm/yatta/internal/reconciler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Printf("configuration loaded (default_layout=%s gap=%dpx)", cfg.DefaultLayout, cfg.GapSize)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	world, err := newWorld(backend, cfg)
	if err != nil {
		log.Fatalf("failed to enumerate monitors: %v", err)
	}
	log.Printf("%d monitor(s) enumerated", len(world.Monitors))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	rec := reconciler.New(world, backend, logger, cfg)

	var ipcServer *ipc.Server
	if cfg.SocketPath != "" {
		ipcServer, err = ipc.NewServerAtPath(cfg.SocketPath, rec, logger)
	} else {
		ipcServer, err = ipc.NewServer(rec, logger)
	}
	if err != nil {
		log.Fatalf("failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rec.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down yattad...")
		cancel()
		ipcServer.Stop()
		os.Exit(0)
	}()

	log.Println("yattad started, entering event loop")
	if err := backend.Run(ctx); err != nil {
		log.Fatalf("backend event loop exited: %v", err)
	}
}

// newWorld enumerates the connected monitors and builds the initial
// model.World, applying the configured default layout to every
// workspace (spec.md §3: 9 workspaces per monitor).
func newWorld(backend platform.Backend, cfg *config.Config) (*model.World, error) {
	monitors, err := backend.EnumerateMonitors()
	if err != nil {
		return nil, err
	}

	defaultLayout, ok := layout.ParseKind(cfg.DefaultLayout)
	if !ok {
		defaultLayout = layout.BSPV
	}

	world := model.NewWorld()
	world.GapPx = cfg.GapSize
	for _, mi := range monitors {
		mon := model.NewMonitor(mi.ID, mi.WorkArea)
		for _, ws := range mon.Workspaces {
			ws.Layout = defaultLayout
		}
		world.Monitors = append(world.Monitors, mon)
	}
	return world, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
