package viewer

import "snip-nano/annotate"

// Toolbar geometry, in client pixels. The toolbar is a strip painted across
// the top of the window when visible; buttons are laid out left to right:
// pen toggle, color swatches, width -, width +, copy.
const (
	ToolbarHeight = 28
	buttonSize    = 22
	buttonPad     = 4
)

// ToolbarAction identifies the button under a click.
type ToolbarAction int

const (
	ActionNone ToolbarAction = iota
	ActionPen
	ActionColor
	ActionWidthMinus
	ActionWidthPlus
	ActionCopy
)

// toolbarButtonCount is pen + swatches + minus + plus + copy.
func toolbarButtonCount() int { return len(annotate.Palette) + 4 }

// ToolbarWidth is the pixel width of the toolbar strip.
func ToolbarWidth() int {
	return buttonPad + toolbarButtonCount()*(buttonSize+buttonPad)
}

// buttonLeft returns the left edge of button i.
func buttonLeft(i int) int {
	return buttonPad + i*(buttonSize+buttonPad)
}

// ToolbarHit maps a click at (x, y) to an action. For ActionColor the second
// result is the palette index.
func ToolbarHit(x, y int) (ToolbarAction, int) {
	if y < 0 || y >= ToolbarHeight || x < 0 || x >= ToolbarWidth() {
		return ActionNone, 0
	}
	btnTop := (ToolbarHeight - buttonSize) / 2
	if y < btnTop || y >= btnTop+buttonSize {
		return ActionNone, 0
	}
	for i := 0; i < toolbarButtonCount(); i++ {
		left := buttonLeft(i)
		if x < left || x >= left+buttonSize {
			continue
		}
		switch {
		case i == 0:
			return ActionPen, 0
		case i <= len(annotate.Palette):
			return ActionColor, i - 1
		case i == len(annotate.Palette)+1:
			return ActionWidthMinus, 0
		case i == len(annotate.Palette)+2:
			return ActionWidthPlus, 0
		default:
			return ActionCopy, 0
		}
	}
	return ActionNone, 0
}
