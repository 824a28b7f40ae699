//go:build windows

package overlay

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"snip-nano/capture"
	"snip-nano/wingdi"
)

const (
	keyPollTimerID    = 1
	keyPollIntervalMs = 25
	dimAlpha          = 90 // blend strength toward black for the frozen screen
	borderWidth       = 2
)

var (
	user32DLL                    = syscall.NewLazyDLL("user32.dll")
	procAllowSetForegroundWindow = user32DLL.NewProc("AllowSetForegroundWindow")
	procGetAsyncKeyState         = user32DLL.NewProc("GetAsyncKeyState")
)

// selectorState is the per-selection window state. wndProc is a C callback,
// so it reaches the state through the package-level active pointer; only one
// overlay exists at a time because Select is event-loop-only and blocking.
type selectorState struct {
	machine Machine
	hwnd    win.HWND

	dimmed win.HBITMAP // darkened frozen screen
	bright win.HBITMAP // untouched frozen screen, shown inside the rubber band

	originX, originY int32 // primary display origin in screen coordinates
	width, height    int32

	escapeWasDown bool
	result        chan capture.Region
}

var active *selectorState

type windowsSelector struct{}

func newPlatformSelector() Selector { return &windowsSelector{} }

// Select freezes the primary display, runs the full-screen selection window
// and blocks until the user commits or cancels.
func (s *windowsSelector) Select(ctx context.Context) (capture.Region, bool, error) {
	display, err := capture.PrimaryDisplay()
	if err != nil {
		return capture.Region{}, false, err
	}
	frozen, err := capture.CapturePrimary()
	if err != nil {
		return capture.Region{}, false, fmt.Errorf("overlay: freeze screen: %w", err)
	}

	st := &selectorState{
		originX: int32(display.Min.X),
		originY: int32(display.Min.Y),
		width:   int32(display.Dx()),
		height:  int32(display.Dy()),
		result:  make(chan capture.Region, 1),
	}

	region, cancelled, err := st.run(frozen)
	if err != nil {
		return capture.Region{}, false, err
	}
	if cancelled {
		return capture.Region{}, true, nil
	}

	select {
	case <-ctx.Done():
		return capture.Region{}, false, ctx.Err()
	default:
	}
	return region, false, nil
}

func (st *selectorState) run(frozen *image.RGBA) (capture.Region, bool, error) {
	// Unique class name per invocation so repeated captures never hit a
	// stale class registration.
	classNameStr := fmt.Sprintf("SnipOverlay_%d", time.Now().UnixNano())
	className := syscall.StringToUTF16Ptr(classNameStr)

	crossCursor := win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS))
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       crossCursor,
		HbrBackground: 0,
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		return capture.Region{}, false, fmt.Errorf("overlay: failed to register window class")
	}
	defer win.UnregisterClass(className)

	active = st
	defer func() { active = nil }()

	st.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST,
		className,
		syscall.StringToUTF16Ptr("Snip - drag to select, ESC cancels"),
		win.WS_POPUP|win.WS_VISIBLE,
		st.originX, st.originY, st.width, st.height,
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if st.hwnd == 0 {
		return capture.Region{}, false, fmt.Errorf("overlay: failed to create window")
	}
	defer func() {
		st.releaseBitmaps()
		win.DestroyWindow(st.hwnd)
	}()

	hdc := win.GetDC(st.hwnd)
	var err error
	st.bright, err = wingdi.NewDIBFromRGBA(hdc, frozen)
	if err == nil {
		st.dimmed, err = wingdi.NewDIBFromRGBA(hdc, darken(frozen))
	}
	win.ReleaseDC(st.hwnd, hdc)
	if err != nil {
		return capture.Region{}, false, fmt.Errorf("overlay: background bitmap: %w", err)
	}

	win.ShowWindow(st.hwnd, win.SW_SHOW)
	procAllowSetForegroundWindow.Call(uintptr(os.Getpid()))
	win.SetForegroundWindow(st.hwnd)
	win.BringWindowToTop(st.hwnd)
	win.SetFocus(st.hwnd)
	win.UpdateWindow(st.hwnd)

	// Poll Escape as well as handling WM_KEYDOWN: the overlay can lose key
	// focus to the window under it and would otherwise become undismissable.
	if win.SetTimer(st.hwnd, keyPollTimerID, keyPollIntervalMs, 0) == 0 {
		log.Printf("Overlay: failed to start key poll timer")
	}

	var msg win.MSG
	for {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 { // WM_QUIT: cancelled
			log.Printf("Overlay: selection cancelled")
			return capture.Region{}, true, nil
		}
		if ret == -1 {
			return capture.Region{}, false, fmt.Errorf("overlay: GetMessage failed")
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)

		select {
		case region := <-st.result:
			log.Printf("Overlay: selection committed: %+v", region)
			return region, false, nil
		default:
		}
	}
}

func (st *selectorState) releaseBitmaps() {
	if st.bright != 0 {
		win.DeleteObject(win.HGDIOBJ(st.bright))
		st.bright = 0
	}
	if st.dimmed != 0 {
		win.DeleteObject(win.HGDIOBJ(st.dimmed))
		st.dimmed = 0
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	st := active
	if st == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_LBUTTONDOWN:
		x := int(int16(win.LOWORD(uint32(lParam))))
		y := int(int16(win.HIWORD(uint32(lParam))))
		win.SetCapture(hwnd)
		st.machine.PointerDown(x, y)
		win.InvalidateRect(hwnd, nil, false)
		return 0

	case win.WM_MOUSEMOVE:
		if st.machine.Phase() == PhaseDragging {
			x := int(int16(win.LOWORD(uint32(lParam))))
			y := int(int16(win.HIWORD(uint32(lParam))))
			st.machine.PointerMove(x, y)
			win.InvalidateRect(hwnd, nil, false)
			win.UpdateWindow(hwnd)
		}
		return 0

	case win.WM_LBUTTONUP:
		if st.machine.Phase() == PhaseDragging {
			win.ReleaseCapture()
			x := int(int16(win.LOWORD(uint32(lParam))))
			y := int(int16(win.HIWORD(uint32(lParam))))
			if region, ok := st.machine.PointerUp(x, y); ok {
				region.X += int(st.originX)
				region.Y += int(st.originY)
				st.result <- region
			} else {
				log.Printf("Overlay: selection below minimum span, ignoring")
				win.InvalidateRect(hwnd, nil, false)
			}
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		st.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_TIMER:
		if wParam == keyPollTimerID {
			st.pollEscape()
		}
		return 0

	case win.WM_KEYDOWN:
		if wParam == win.VK_ESCAPE {
			st.escapeWasDown = true
			st.cancel()
		}
		return 0

	case win.WM_KEYUP:
		if wParam == win.VK_ESCAPE {
			st.escapeWasDown = false
		}
		return 0

	case win.WM_NCHITTEST:
		// Everything is client area so we see every mouse event.
		return uintptr(win.HTCLIENT)

	case win.WM_DESTROY:
		win.KillTimer(hwnd, keyPollTimerID)
		// No PostQuitMessage here: the success path returns from run() as
		// soon as the region lands in the channel, and a queued WM_QUIT
		// would cancel the next capture instantly.
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func (st *selectorState) paint(hdc win.HDC) {
	wingdi.BlitBitmap(hdc, st.dimmed, 0, 0, st.width, st.height)

	sel, ok := st.machine.Selection()
	if !ok || sel.Width == 0 || sel.Height == 0 {
		drawHint(hdc)
		return
	}

	// Show the selected area undimmed with a red border around it.
	wingdi.BlitBitmapRegion(hdc, st.bright,
		int32(sel.X), int32(sel.Y), int32(sel.X), int32(sel.Y),
		int32(sel.Width), int32(sel.Height))
	drawBorder(hdc, sel)
	drawHint(hdc)
}

func drawBorder(hdc win.HDC, sel capture.Region) {
	gdi32 := syscall.NewLazyDLL("gdi32.dll")
	createPen := gdi32.NewProc("CreatePen")
	rectangle := gdi32.NewProc("Rectangle")

	pen, _, _ := createPen.Call(0, borderWidth, uintptr(wingdi.RGB(255, 80, 80)))
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))

	rectangle.Call(uintptr(hdc),
		uintptr(int32(sel.X)), uintptr(int32(sel.Y)),
		uintptr(int32(sel.X+sel.Width)), uintptr(int32(sel.Y+sel.Height)))

	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(pen))
}

func drawHint(hdc win.HDC) {
	hint := "Drag to select a region   ESC cancels"
	win.SetBkMode(hdc, win.TRANSPARENT)
	win.SetTextColor(hdc, win.COLORREF(0x00FFFF))
	win.TextOut(hdc, 16, 16, syscall.StringToUTF16Ptr(hint), int32(len(hint)))
}

func (st *selectorState) pollEscape() {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(win.VK_ESCAPE))
	s := uint16(state)
	isDown := s&0x8000 != 0
	pressedSinceLastPoll := s&0x0001 != 0
	if !st.escapeWasDown && (isDown || pressedSinceLastPoll) {
		st.cancel()
	}
	st.escapeWasDown = isDown
}

func (st *selectorState) cancel() {
	st.machine.Cancel()
	win.PostQuitMessage(0)
}

// darken returns a copy of img with every pixel blended toward black by
// dimAlpha/255, leaving the source untouched.
func darken(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = uint8(uint16(out.Pix[i+0]) * (255 - dimAlpha) / 255)
		out.Pix[i+1] = uint8(uint16(out.Pix[i+1]) * (255 - dimAlpha) / 255)
		out.Pix[i+2] = uint8(uint16(out.Pix[i+2]) * (255 - dimAlpha) / 255)
	}
	return out
}
