// Command yattactl is the CLI client for yattad: every subcommand maps
// directly onto one spec.md §4.4 IPC command and reports the result
// with the exit codes from spec.md §6 (0 success, 1 invalid usage,
// 2 daemon not running, 3 command rejected). Grounded on termtile's
// cmd/termtile dispatch style (one runXxx(args []string) int function
// per subcommand, flag.NewFlagSet for usage/parsing), generalized from
// termtile's per-domain subcommand tree (status/undo/layout/workspace/
// terminal/config/...) to yatta's single flat command vocabulary.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/yatta-wm/yatta/internal/ipc"
)

const (
	exitOK                = 0
	exitUsage             = 1
	exitDaemonUnreachable = 2
	exitRejected          = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(exitUsage)
	}

	client := ipc.NewClient()

	switch os.Args[1] {
	case "focus":
		os.Exit(runDirection(client.Focus, "focus", os.Args[2:]))
	case "move":
		os.Exit(runDirection(client.Move, "move", os.Args[2:]))
	case "move-to-display":
		os.Exit(runMoveToDisplay(client, os.Args[2:]))
	case "resize":
		os.Exit(runResize(client, os.Args[2:]))
	case "promote":
		os.Exit(runSimple(client.Promote, "promote", os.Args[2:]))
	case "layout":
		os.Exit(runLayout(client, os.Args[2:]))
	case "toggle-monocle":
		os.Exit(runSimple(client.ToggleMonocle, "toggle-monocle", os.Args[2:]))
	case "toggle-float":
		os.Exit(runSimple(client.ToggleFloat, "toggle-float", os.Args[2:]))
	case "toggle-pause":
		os.Exit(runSimple(client.TogglePause, "toggle-pause", os.Args[2:]))
	case "retile":
		os.Exit(runSimple(client.Retile, "retile", os.Args[2:]))
	case "set-workspace":
		os.Exit(runWorkspaceIndex(client.SetWorkspace, "set-workspace", os.Args[2:]))
	case "move-window-to-workspace":
		os.Exit(runWorkspaceIndex(client.MoveWindowToWorkspace, "move-window-to-workspace", os.Args[2:]))
	case "float-class":
		os.Exit(runPattern(client.FloatClass, "float-class", os.Args[2:]))
	case "float-title":
		os.Exit(runPattern(client.FloatTitle, "float-title", os.Args[2:]))
	case "float-exe":
		os.Exit(runPattern(client.FloatExe, "float-exe", os.Args[2:]))
	case "monitor":
		os.Exit(runMonitor(client, os.Args[2:]))
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(exitUsage)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: yattactl <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  focus <up|down|left|right>")
	fmt.Fprintln(w, "  move <up|down|left|right>")
	fmt.Fprintln(w, "  move-to-display <previous|next>")
	fmt.Fprintln(w, "  resize <left|right|top|bottom> <increase|decrease>")
	fmt.Fprintln(w, "  promote")
	fmt.Fprintln(w, "  layout <bspv|bsph|columns|rows>")
	fmt.Fprintln(w, "  toggle-monocle")
	fmt.Fprintln(w, "  toggle-float")
	fmt.Fprintln(w, "  toggle-pause")
	fmt.Fprintln(w, "  retile")
	fmt.Fprintln(w, "  set-workspace <0..8>")
	fmt.Fprintln(w, "  move-window-to-workspace <0..8>")
	fmt.Fprintln(w, "  float-class <pattern>")
	fmt.Fprintln(w, "  float-title <pattern>")
	fmt.Fprintln(w, "  float-exe <pattern>")
	fmt.Fprintln(w, "  monitor             Live dashboard over get-tree")
}

// report interprets an IPC response/transport error into an exit code,
// printing a one-line diagnostic on failure.
func report(name string, resp *ipc.Response, err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		return exitDaemonUnreachable
	}
	if !resp.OK {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", name, resp.Error, resp.Msg)
		return exitRejected
	}
	return exitOK
}

func runSimple(call func() (*ipc.Response, error), name string, args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		return exitUsage
	}
	resp, err := call()
	return report(name, resp, err)
}

func runDirection(call func(string) (*ipc.Response, error), name string, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: yattactl %s <up|down|left|right>\n", name)
		return exitUsage
	}
	resp, err := call(args[0])
	return report(name, resp, err)
}

func runMoveToDisplay(client *ipc.Client, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: yattactl move-to-display <previous|next>")
		return exitUsage
	}
	resp, err := client.MoveToDisplay(args[0])
	return report("move-to-display", resp, err)
}

func runResize(client *ipc.Client, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: yattactl resize <left|right|top|bottom> <increase|decrease>")
		return exitUsage
	}
	resp, err := client.Resize(args[0], args[1])
	return report("resize", resp, err)
}

func runLayout(client *ipc.Client, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: yattactl layout <bspv|bsph|columns|rows>")
		return exitUsage
	}
	resp, err := client.Layout(args[0])
	return report("layout", resp, err)
}

func runWorkspaceIndex(call func(int) (*ipc.Response, error), name string, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: yattactl %s <0..8>\n", name)
		return exitUsage
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid workspace index %q\n", name, args[0])
		return exitUsage
	}
	resp, sendErr := call(index)
	return report(name, resp, sendErr)
}

func runPattern(call func(string) (*ipc.Response, error), name string, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: yattactl %s <pattern>\n", name)
		return exitUsage
	}
	resp, err := call(args[0])
	return report(name, resp, err)
}
