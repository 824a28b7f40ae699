//go:build windows

package viewer

import (
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"snip-nano/annotate"
	"snip-nano/capture"
	"snip-nano/clipboard"
	"snip-nano/notify"
	"snip-nano/wingdi"
)

const viewerClassName = "SnipViewerClass"

var (
	gdi32DLL        = syscall.NewLazyDLL("gdi32.dll")
	procCreatePen   = gdi32DLL.NewProc("CreatePen")
	procRectangle   = gdi32DLL.NewProc("Rectangle")
	user32DLL       = syscall.NewLazyDLL("user32.dll")
	procGetKeyState = user32DLL.NewProc("GetKeyState")
)

// window is the per-viewer state. Every viewer runs on its own locked OS
// thread with its own message queue; the window exclusively owns its image
// and annotation overlay, so no field needs locking. wndProc finds the
// window through the hwnd registry below.
type window struct {
	st      *State
	img     *capture.Image
	overlay annotate.Overlay

	hwnd          win.HWND
	composite     win.HBITMAP
	dirty         bool
	strokeActive  bool
	width, height int32
}

var (
	registryMu sync.Mutex
	registry   = map[win.HWND]*window{}

	classOnce sync.Once
	classErr  error
)

func lookup(hwnd win.HWND) *window {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[hwnd]
}

func registerClass() error {
	classOnce.Do(func() {
		className := syscall.StringToUTF16Ptr(viewerClassName)
		wndClass := win.WNDCLASSEX{
			CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
			Style:         win.CS_HREDRAW | win.CS_VREDRAW,
			LpfnWndProc:   syscall.NewCallback(viewerWndProc),
			HInstance:     win.GetModuleHandle(nil),
			HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
			HbrBackground: 0,
			LpszClassName: className,
		}
		if win.RegisterClassEx(&wndClass) == 0 {
			classErr = fmt.Errorf("viewer: failed to register window class")
		}
	})
	return classErr
}

// openPlatformWindow spawns the window thread and returns once the window
// exists (or creation failed). The thread then services the window's
// message queue until the window closes.
func openPlatformWindow(img *capture.Image, opts Options) error {
	ready := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in viewer thread: %v", r)
			}
		}()

		if err := registerClass(); err != nil {
			ready <- err
			return
		}

		w := &window{
			st:     NewState(opts.PenColor, opts.PenWidth),
			img:    img,
			dirty:  true,
			width:  int32(img.Pixels.Bounds().Dx()),
			height: int32(img.Pixels.Bounds().Dy()),
		}

		hwnd := win.CreateWindowEx(
			win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
			syscall.StringToUTF16Ptr(viewerClassName),
			syscall.StringToUTF16Ptr("Snip"),
			win.WS_POPUP,
			int32(img.Origin.X), int32(img.Origin.Y), w.width, w.height,
			0, 0, win.GetModuleHandle(nil), nil,
		)
		if hwnd == 0 {
			ready <- fmt.Errorf("viewer: failed to create window")
			return
		}
		w.hwnd = hwnd

		registryMu.Lock()
		registry[hwnd] = w
		registryMu.Unlock()

		win.ShowWindow(hwnd, win.SW_SHOW)
		win.SetForegroundWindow(hwnd)
		win.UpdateWindow(hwnd)
		log.Printf("Viewer: window opened at (%d,%d) size %dx%d",
			img.Origin.X, img.Origin.Y, w.width, w.height)
		ready <- nil

		var msg win.MSG
		for {
			ret := win.GetMessage(&msg, 0, 0, 0)
			if ret == 0 || ret == -1 {
				break
			}
			win.TranslateMessage(&msg)
			win.DispatchMessage(&msg)
		}
		log.Printf("Viewer: window thread exiting")
	}()

	return <-ready
}

func viewerWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	w := lookup(hwnd)
	if w == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_NCHITTEST:
		return w.hitTest(lParam)

	case win.WM_KEYDOWN:
		return w.keyDown(wParam)

	case win.WM_LBUTTONDOWN:
		x := int(int16(win.LOWORD(uint32(lParam))))
		y := int(int16(win.HIWORD(uint32(lParam))))
		w.pointerDown(x, y)
		return 0

	case win.WM_MOUSEMOVE:
		if w.strokeActive {
			x := int(int16(win.LOWORD(uint32(lParam))))
			y := int(int16(win.HIWORD(uint32(lParam))))
			w.overlay.ExtendStroke(image.Pt(x, y))
			w.dirty = true
			win.InvalidateRect(hwnd, nil, false)
			win.UpdateWindow(hwnd)
		}
		return 0

	case win.WM_LBUTTONUP:
		if w.strokeActive {
			w.strokeActive = false
			win.ReleaseCapture()
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		w.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_DESTROY:
		w.release()
		registryMu.Lock()
		delete(registry, hwnd)
		registryMu.Unlock()
		win.PostQuitMessage(0)
		return 0
	}

	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// hitTest decides between window dragging and client input. In Normal mode
// the whole window acts as a caption bar so the OS handles drag-to-move; the
// toolbar strip and PenMode painting stay client area.
func (w *window) hitTest(lParam uintptr) uintptr {
	pt := win.POINT{
		X: int32(int16(win.LOWORD(uint32(lParam)))),
		Y: int32(int16(win.HIWORD(uint32(lParam)))),
	}
	win.ScreenToClient(w.hwnd, &pt)

	if w.st.ToolbarVisible() && pt.Y < ToolbarHeight && pt.X < int32(ToolbarWidth()) {
		return uintptr(win.HTCLIENT)
	}
	if w.st.Painting() {
		return uintptr(win.HTCLIENT)
	}
	return uintptr(win.HTCAPTION)
}

func (w *window) keyDown(wParam uintptr) uintptr {
	switch wParam {
	case win.VK_ESCAPE:
		if w.st.PressEscape() {
			log.Printf("Viewer: Escape in Normal, closing window")
			win.DestroyWindow(w.hwnd)
		} else {
			log.Printf("Viewer: Escape left pen mode")
			win.InvalidateRect(w.hwnd, nil, true)
		}
		return 0
	case win.VK_SPACE:
		w.st.ToggleToolbar()
		win.InvalidateRect(w.hwnd, nil, true)
		return 0
	case 'C':
		if ctrlDown() {
			w.copyToClipboard()
		}
		return 0
	}
	return 0
}

func ctrlDown() bool {
	state, _, _ := procGetKeyState.Call(uintptr(win.VK_CONTROL))
	return uint16(state)&0x8000 != 0
}

func (w *window) pointerDown(x, y int) {
	if w.st.ToolbarVisible() {
		if action, idx := ToolbarHit(x, y); action != ActionNone {
			w.toolbarClick(action, idx)
			return
		}
	}
	if w.st.Painting() {
		win.SetCapture(w.hwnd)
		w.strokeActive = true
		w.overlay.BeginStroke(image.Pt(x, y), w.st.PenColor(), w.st.PenWidth())
		w.dirty = true
		win.InvalidateRect(w.hwnd, nil, false)
	}
}

func (w *window) toolbarClick(action ToolbarAction, idx int) {
	switch action {
	case ActionPen:
		w.st.TogglePen()
	case ActionColor:
		w.st.SelectColor(idx)
	case ActionWidthMinus:
		w.st.AdjustWidth(-1)
	case ActionWidthPlus:
		w.st.AdjustWidth(1)
	case ActionCopy:
		if w.st.CopyAllowed() {
			w.copyToClipboard()
		}
	}
	win.InvalidateRect(w.hwnd, nil, true)
}

// copyToClipboard exports the composited image. Failures are shown to the
// user and the operation stays retryable.
func (w *window) copyToClipboard() {
	if !w.st.CopyAllowed() {
		return
	}
	composited := w.overlay.Composite(w.img.Pixels)
	if err := clipboard.WriteImage(composited); err != nil {
		log.Printf("Viewer: clipboard export failed: %v", err)
		notify.Errorf("Snip", "Copy to clipboard failed: %v", err)
		return
	}
	log.Printf("Viewer: copied %dx%d image to clipboard", w.width, w.height)
}

func (w *window) paint(hdc win.HDC) {
	if w.dirty || w.composite == 0 {
		w.rebuildComposite(hdc)
	}
	if w.composite != 0 {
		wingdi.BlitBitmap(hdc, w.composite, 0, 0, w.width, w.height)
	}
	if w.st.ToolbarVisible() {
		w.paintToolbar(hdc)
	}
}

func (w *window) rebuildComposite(hdc win.HDC) {
	if w.composite != 0 {
		win.DeleteObject(win.HGDIOBJ(w.composite))
		w.composite = 0
	}
	hb, err := wingdi.NewDIBFromRGBA(hdc, w.overlay.Composite(w.img.Pixels))
	if err != nil {
		log.Printf("Viewer: composite bitmap: %v", err)
		return
	}
	w.composite = hb
	w.dirty = false
}

func (w *window) paintToolbar(hdc win.HDC) {
	// Strip background.
	fillRect(hdc, 0, 0, int32(ToolbarWidth()), ToolbarHeight, wingdi.RGB(45, 45, 48), wingdi.RGB(45, 45, 48))

	btnTop := int32((ToolbarHeight - buttonSize) / 2)

	// Pen toggle, highlighted while in pen mode.
	penBorder := wingdi.RGB(110, 110, 115)
	if w.st.Tool() == ToolPen {
		penBorder = wingdi.RGB(255, 255, 255)
	}
	fillRect(hdc, int32(buttonLeft(0)), btnTop, buttonSize, buttonSize, wingdi.RGB(70, 70, 75), penBorder)
	label(hdc, int32(buttonLeft(0))+7, btnTop+3, "P")

	// Color swatches; the active one gets a white border.
	for i, c := range annotate.Palette {
		border := wingdi.RGB(110, 110, 115)
		if i == w.st.ColorIndex() {
			border = wingdi.RGB(255, 255, 255)
		}
		fillRect(hdc, int32(buttonLeft(1+i)), btnTop, buttonSize, buttonSize, wingdi.RGB(c.R, c.G, c.B), border)
	}

	n := len(annotate.Palette)
	fillRect(hdc, int32(buttonLeft(n+1)), btnTop, buttonSize, buttonSize, wingdi.RGB(70, 70, 75), wingdi.RGB(110, 110, 115))
	label(hdc, int32(buttonLeft(n+1))+8, btnTop+3, "-")
	fillRect(hdc, int32(buttonLeft(n+2)), btnTop, buttonSize, buttonSize, wingdi.RGB(70, 70, 75), wingdi.RGB(110, 110, 115))
	label(hdc, int32(buttonLeft(n+2))+6, btnTop+3, "+")
	fillRect(hdc, int32(buttonLeft(n+3)), btnTop, buttonSize, buttonSize, wingdi.RGB(70, 70, 75), wingdi.RGB(110, 110, 115))
	label(hdc, int32(buttonLeft(n+3))+6, btnTop+3, "C")
}

func fillRect(hdc win.HDC, x, y, width, height int32, fill, border win.COLORREF) {
	brush := win.CreateBrushIndirect(&win.LOGBRUSH{LbStyle: win.BS_SOLID, LbColor: fill})
	pen, _, _ := procCreatePen.Call(0, 1, uintptr(border))
	oldBrush := win.SelectObject(hdc, win.HGDIOBJ(brush))
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))

	procRectangle.Call(uintptr(hdc), uintptr(x), uintptr(y), uintptr(x+width), uintptr(y+height))

	win.SelectObject(hdc, oldPen)
	win.SelectObject(hdc, oldBrush)
	win.DeleteObject(win.HGDIOBJ(pen))
	win.DeleteObject(win.HGDIOBJ(brush))
}

func label(hdc win.HDC, x, y int32, text string) {
	win.SetBkMode(hdc, win.TRANSPARENT)
	win.SetTextColor(hdc, win.COLORREF(0x00FFFFFF))
	win.TextOut(hdc, x, y, syscall.StringToUTF16Ptr(text), int32(len(text)))
}

func (w *window) release() {
	if w.composite != 0 {
		win.DeleteObject(win.HGDIOBJ(w.composite))
		w.composite = 0
	}
}
