package viewer

import (
	"image/color"

	"snip-nano/annotate"
)

// Tool is the viewer's interaction mode.
type Tool int

const (
	ToolNormal Tool = iota
	ToolPen
)

// State is the pure interaction state machine of one floating viewer window.
// The platform window feeds it input events and renders from its fields; it
// never touches the OS itself.
//
// Transitions:
//   - toggle-toolbar (Space) flips toolbar visibility, orthogonal to the tool
//   - pen button toggles ToolPen
//   - Escape in ToolPen returns to ToolNormal and hides the toolbar
//   - Escape in ToolNormal closes the window
//   - copy is permitted in ToolNormal only
type State struct {
	tool           Tool
	toolbarVisible bool
	closed         bool

	penColor color.RGBA
	penWidth int
	colorIdx int
}

// NewState returns a viewer state in Normal mode with the toolbar hidden.
func NewState(penColor color.RGBA, penWidth int) *State {
	s := &State{
		penColor: penColor,
		penWidth: annotate.ClampWidth(penWidth),
	}
	for i, c := range annotate.Palette {
		if c == penColor {
			s.colorIdx = i
			break
		}
	}
	return s
}

func (s *State) Tool() Tool           { return s.tool }
func (s *State) ToolbarVisible() bool { return s.toolbarVisible }
func (s *State) Closed() bool         { return s.closed }
func (s *State) PenColor() color.RGBA { return s.penColor }
func (s *State) PenWidth() int        { return s.penWidth }
func (s *State) ColorIndex() int      { return s.colorIdx }

// ToggleToolbar flips toolbar visibility without touching the tool.
func (s *State) ToggleToolbar() {
	if s.closed {
		return
	}
	s.toolbarVisible = !s.toolbarVisible
}

// TogglePen switches between Normal and PenMode.
func (s *State) TogglePen() {
	if s.closed {
		return
	}
	if s.tool == ToolPen {
		s.tool = ToolNormal
	} else {
		s.tool = ToolPen
	}
}

// PressEscape applies the two-step close: PenMode drops back to Normal with
// the toolbar hidden; Normal closes the window. Returns true when the window
// should close.
func (s *State) PressEscape() bool {
	if s.closed {
		return true
	}
	if s.tool == ToolPen {
		s.tool = ToolNormal
		s.toolbarVisible = false
		return false
	}
	s.closed = true
	return true
}

// CopyAllowed reports whether a copy command should run right now.
func (s *State) CopyAllowed() bool {
	return !s.closed && s.tool == ToolNormal
}

// Painting reports whether pointer drags over the image should paint.
func (s *State) Painting() bool {
	return !s.closed && s.tool == ToolPen
}

// SelectColor picks a palette swatch by index; out-of-range is ignored.
func (s *State) SelectColor(idx int) {
	if idx < 0 || idx >= len(annotate.Palette) {
		return
	}
	s.colorIdx = idx
	s.penColor = annotate.Palette[idx]
}

// AdjustWidth changes the pen width by delta steps of annotate.WidthStep,
// clamped to [annotate.MinWidth, annotate.MaxWidth].
func (s *State) AdjustWidth(delta int) {
	s.penWidth = annotate.ClampWidth(s.penWidth + delta*annotate.WidthStep)
}
