//go:build windows

package viewer

import (
	"image"
	"syscall"
	"testing"

	"github.com/lxn/win"

	"snip-nano/wingdi"
)

var procGetPixel = syscall.NewLazyDLL("gdi32.dll").NewProc("GetPixel")

func readPixel(hdc win.HDC, x, y int32) win.COLORREF {
	c, _, _ := procGetPixel.Call(uintptr(hdc), uintptr(x), uintptr(y))
	return win.COLORREF(c)
}

func TestFillRectPaintsFillAndBorder(t *testing.T) {
	hdc := win.CreateCompatibleDC(0)
	if hdc == 0 {
		t.Skip("no GDI device context available")
	}
	defer win.DeleteDC(hdc)

	bmp, err := wingdi.NewDIBFromRGBA(hdc, image.NewRGBA(image.Rect(0, 0, 32, 32)))
	if err != nil {
		t.Fatalf("NewDIBFromRGBA failed: %v", err)
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))
	old := win.SelectObject(hdc, win.HGDIOBJ(bmp))
	defer win.SelectObject(hdc, old)

	fill := wingdi.RGB(70, 70, 75)
	border := wingdi.RGB(255, 255, 255)
	fillRect(hdc, 4, 4, 16, 16, fill, border)

	if got := readPixel(hdc, 12, 12); got != fill {
		t.Errorf("interior pixel = %06x, want %06x", got, fill)
	}
	if got := readPixel(hdc, 4, 4); got != border {
		t.Errorf("border pixel = %06x, want %06x", got, border)
	}
	if got := readPixel(hdc, 28, 28); got == fill || got == border {
		t.Errorf("pixel outside the rectangle was painted: %06x", got)
	}
}
