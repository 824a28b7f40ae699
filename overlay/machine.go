package overlay

import (
	"snip-nano/capture"
)

// MinDragSpan is the minimum selection span on each axis, in pixels. A drag
// whose width or height comes out below this is treated as an accidental
// click and cancelled.
const MinDragSpan = 4

// Phase is the selection machine's state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

// Machine is the pure rectangle-selection state machine driven by the
// platform overlay window: Idle to Dragging on pointer down, back to Idle on
// pointer up, emitting a normalized region when the drag met the minimum
// span. The committed emit is the transition itself; the machine never rests
// in a committed state.
type Machine struct {
	phase          Phase
	startX, startY int
	curX, curY     int
}

// Phase returns the current state.
func (m *Machine) Phase() Phase { return m.phase }

// PointerDown begins a drag. Ignored unless idle.
func (m *Machine) PointerDown(x, y int) {
	if m.phase != PhaseIdle {
		return
	}
	m.phase = PhaseDragging
	m.startX, m.startY = x, y
	m.curX, m.curY = x, y
}

// PointerMove updates the live rectangle while dragging.
func (m *Machine) PointerMove(x, y int) {
	if m.phase != PhaseDragging {
		return
	}
	m.curX, m.curY = x, y
}

// PointerUp ends the drag and returns the selected region. ok is false when
// the machine was not dragging or the selection was below MinDragSpan on
// either axis; the machine is idle again afterwards in every case.
func (m *Machine) PointerUp(x, y int) (capture.Region, bool) {
	if m.phase != PhaseDragging {
		return capture.Region{}, false
	}
	m.curX, m.curY = x, y
	region := m.selection()
	m.phase = PhaseIdle
	if region.Width < MinDragSpan || region.Height < MinDragSpan {
		return capture.Region{}, false
	}
	return region, true
}

// Cancel aborts any drag in progress.
func (m *Machine) Cancel() {
	m.phase = PhaseIdle
}

// Selection returns the live normalized rectangle for painting feedback.
// ok is false when no drag is in progress.
func (m *Machine) Selection() (capture.Region, bool) {
	if m.phase != PhaseDragging {
		return capture.Region{}, false
	}
	return m.selection(), true
}

func (m *Machine) selection() capture.Region {
	return capture.Region{
		X:      m.startX,
		Y:      m.startY,
		Width:  m.curX - m.startX,
		Height: m.curY - m.startY,
	}.Normalize()
}
