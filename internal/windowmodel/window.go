// Package windowmodel holds the per-window descriptor: identity, the
// metadata the OS shim reports about it, its cached geometry, and float
// rule matching. It carries no tiling/workspace logic — that lives in
// internal/model.
package windowmodel

import (
	"path/filepath"
	"strings"

	"github.com/yatta-wm/yatta/internal/geom"
)

// Hwnd is the opaque per-window OS handle (spec.md GLOSSARY).
type Hwnd uint32

// Window is a single top-level window tracked by the model.
type Window struct {
	Hwnd Hwnd

	Title string
	Class string
	Exe   string // basename only

	// CurrentRect is the last rectangle the OS reported for this window.
	CurrentRect geom.Rect
	// ManagedRect is the last rectangle the layout engine applied.
	ManagedRect geom.Rect

	Floating   bool
	Minimized  bool
	Manageable bool
}

// RuleField names which attribute a FloatRule matches against.
type RuleField int

const (
	RuleClass RuleField = iota
	RuleTitle
	RuleExe
)

// FloatRule is an "always floating" predicate installed by the
// float-class/float-title/float-exe commands (spec.md §4.4).
type FloatRule struct {
	Field   RuleField
	Pattern string
}

// Matches reports whether w satisfies rule. Title matching is substring
// (spec.md §6: "title-substring"); class and exe matching is exact, the
// way window classes and executable basenames are compared verbatim by
// window managers generally.
func (w Window) Matches(rule FloatRule) bool {
	switch rule.Field {
	case RuleClass:
		return w.Class == rule.Pattern
	case RuleTitle:
		return strings.Contains(w.Title, rule.Pattern)
	case RuleExe:
		return w.Exe == rule.Pattern
	default:
		return false
	}
}

// ApplyFloatRules sets w.Floating to true if any rule matches, and reports
// whether it did. Called once at insertion time (spec.md §4.2).
func (w *Window) ApplyFloatRules(rules []FloatRule) bool {
	for _, rule := range rules {
		if w.Matches(rule) {
			w.Floating = true
			return true
		}
	}
	return false
}

// ExeBasename trims a full executable path down to its basename, the form
// Window.Exe and RuleExe patterns are compared in (spec.md §3: "basename
// only").
func ExeBasename(path string) string {
	return filepath.Base(path)
}
